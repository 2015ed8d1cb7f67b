// Package orchestrator keeps a form's displayed validity in sync with user
// interaction. It discovers fields from a Source, tracks a per-field state
// machine (pristine, valid, invalid), revalidates on input and blur against a
// fresh whole-form snapshot, and runs submit through a single atomic pass
// that fires exactly one of the injected OnValid/OnInvalid callbacks.
package orchestrator
