// Package rules defines the named-predicate vocabulary the validation engine
// draws from: a Registry mapping rule names to predicates plus their default
// message templates, and the built-in rule set (required, email, minLength,
// and friends). Registries are plain owned values: create one per engine
// instance; nothing in this package is process-global.
package rules
