package engine

import (
	"github.com/goliatone/go-formvalid/pkg/rules"
)

// RuleRef points a field at a registered rule, optionally carrying parameters
// and a message override. A bare rule name is RuleRef{Name: name}.
type RuleRef struct {
	Name    string       `json:"name" yaml:"name"`
	Params  rules.Params `json:"params,omitempty" yaml:"params,omitempty"`
	Message string       `json:"message,omitempty" yaml:"message,omitempty"`
}

// Ref is shorthand for a bare rule reference.
func Ref(name string) RuleRef {
	return RuleRef{Name: name}
}

// FieldConfig is the ordered list of rule references assigned to one field.
// Order determines message ordering only; every rule is evaluated regardless
// of earlier outcomes.
type FieldConfig struct {
	Rules []RuleRef `json:"rules" yaml:"rules"`
}

// RuleFailure describes a single failing rule on a field.
type RuleFailure struct {
	Rule    string       `json:"rule"`
	Message string       `json:"message"`
	Params  rules.Params `json:"params,omitempty"`
}

// FieldResult is the outcome of validating one field.
type FieldResult struct {
	Valid  bool          `json:"valid"`
	Errors []RuleFailure `json:"errors,omitempty"`
}

// FieldFailure tags a RuleFailure with the field it belongs to, used in the
// flattened form-level error list.
type FieldFailure struct {
	Field string `json:"field"`
	RuleFailure
}

// FormResult aggregates per-field outcomes for a whole-form validation pass.
// Errors is flattened in sorted field order, preserving each field's rule
// order, so repeated passes over the same snapshot are identical.
type FormResult struct {
	Valid  bool                   `json:"valid"`
	Fields map[string]FieldResult `json:"fields"`
	Errors []FieldFailure         `json:"errors,omitempty"`
}
