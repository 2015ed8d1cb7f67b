// Package engine evaluates field configurations against candidate values.
// An Engine owns a rule registry and a per-field configuration store; it
// produces structured pass/fail results with formatted messages and never
// reports a validation failure as a Go error. Errors are reserved for
// structural API misuse (empty names, nil predicates) at configuration time.
package engine
