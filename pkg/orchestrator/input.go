package orchestrator

import (
	"github.com/goliatone/go-formvalid/pkg/engine"
)

// Kind categorises an input for snapshotting purposes. Checkboxes snapshot to
// booleans and radio groups to the checked member's value; every other kind
// passes its value through untouched.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
	KindSelect   Kind = "select"
)

// Input is an opaque handle onto one input in the external source. Radio
// groups surface as several inputs sharing a name.
type Input interface {
	Name() string
	Kind() Kind
	Value() any
	Checked() bool
}

// Source enumerates the candidate inputs of an external form.
type Source interface {
	Inputs() []Input
}

// Translator derives a field configuration from an input, standing in for
// whatever attribute or schema convention the source uses. Returning false
// means the input carries no validation rules and is not tracked.
type Translator interface {
	Translate(input Input) (engine.FieldConfig, bool)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(input Input) (engine.FieldConfig, bool)

// Translate implements Translator.
func (f TranslatorFunc) Translate(input Input) (engine.FieldConfig, bool) {
	return f(input)
}

// State is a field's displayed validity.
type State string

const (
	StatePristine State = "pristine"
	StateValid    State = "valid"
	StateInvalid  State = "invalid"
)

// Presenter receives display-state transitions. result is nil while a field
// is pristine. Implementations belong to the UI layer; the default is a
// no-op.
type Presenter interface {
	Update(field string, state State, result *engine.FieldResult)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(field string, state State, result *engine.FieldResult)

// Update implements Presenter.
func (f PresenterFunc) Update(field string, state State, result *engine.FieldResult) {
	f(field, state, result)
}

type nopPresenter struct{}

func (nopPresenter) Update(string, State, *engine.FieldResult) {}

// Hooks are the submit-time callbacks. Exactly one of the two runs per submit
// attempt, chosen by the whole-form outcome. Both default to no-ops.
type Hooks struct {
	OnValid   func(form map[string]any)
	OnInvalid func(result engine.FormResult)
}
