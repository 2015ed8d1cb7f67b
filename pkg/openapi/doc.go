// Package openapi derives field configurations from OpenAPI operation
// request bodies: required members, length and numeric bounds, patterns, and
// string formats map onto the built-in rule vocabulary. The loader and parser
// implementations live under internal/openapi; this package holds the public
// contracts and the schema-to-rules translation.
package openapi
