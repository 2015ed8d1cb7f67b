// Package report renders form validation results for humans and machines:
// plain text for terminals, JSON for APIs, and an HTML fragment for embedding
// in pages. HTML output sanitizes every message through bluemonday because
// message overrides originate from caller configuration, not from this
// module.
package report
