package orchestrator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formvalid/pkg/engine"
	"github.com/goliatone/go-formvalid/pkg/rules"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithEngine injects the validation engine. The default is engine.New().
func WithEngine(e *engine.Engine) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithTranslator injects the config translator used by Discover.
func WithTranslator(t Translator) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.translator = t
		}
	}
}

// WithPresenter injects the display-state sink.
func WithPresenter(p Presenter) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.presenter = p
		}
	}
}

// WithHooks injects the submit callbacks. Nil members stay no-ops.
func WithHooks(hooks Hooks) Option {
	return func(o *Orchestrator) {
		if hooks.OnValid != nil {
			o.hooks.OnValid = hooks.OnValid
		}
		if hooks.OnInvalid != nil {
			o.hooks.OnInvalid = hooks.OnInvalid
		}
	}
}

type fieldState struct {
	handles []Input
	state   State
	last    *engine.FieldResult
}

// Orchestrator tracks field membership and interaction state on top of a
// validation engine.
type Orchestrator struct {
	engine     *engine.Engine
	translator Translator
	presenter  Presenter
	hooks      Hooks

	mu     sync.Mutex
	fields map[string]*fieldState
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		presenter: nopPresenter{},
		fields:    make(map[string]*fieldState),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.engine == nil {
		o.engine = engine.New()
	}
	if o.hooks.OnValid == nil {
		o.hooks.OnValid = func(map[string]any) {}
	}
	if o.hooks.OnInvalid == nil {
		o.hooks.OnInvalid = func(engine.FormResult) {}
	}
	return o
}

// Engine exposes the underlying validation engine.
func (o *Orchestrator) Engine() *engine.Engine {
	return o.engine
}

// Discover enumerates the source's inputs, derives a configuration per input
// through the translator, and registers every input that carries at least one
// rule. Inputs sharing a name (radio groups) collapse into one field.
func (o *Orchestrator) Discover(src Source) error {
	if src == nil {
		return errors.New("orchestrator: source is required")
	}
	if o.translator == nil {
		return errors.New("orchestrator: no translator configured")
	}

	for _, input := range src.Inputs() {
		if input == nil {
			continue
		}
		config, ok := o.translator.Translate(input)
		if !ok || len(config.Rules) == 0 {
			continue
		}
		if err := o.AddField(input.Name(), input, config); err != nil {
			return fmt.Errorf("orchestrator: discover: %w", err)
		}
	}
	return nil
}

// AddField registers a field with its handle and configuration, wiring it
// into the interaction state machine. Adding a name that already exists
// attaches the handle to the existing field (radio groups) and replaces its
// configuration.
func (o *Orchestrator) AddField(name string, handle Input, config engine.FieldConfig) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return errors.New("orchestrator: field name is required")
	}
	if handle == nil {
		return errors.New("orchestrator: field handle is required")
	}
	if err := o.engine.ConfigureField(key, config); err != nil {
		return err
	}

	o.mu.Lock()
	field, ok := o.fields[key]
	if !ok {
		field = &fieldState{state: StatePristine}
		o.fields[key] = field
	}
	field.handles = append(field.handles, handle)
	o.mu.Unlock()

	if !ok {
		o.presenter.Update(key, StatePristine, nil)
	}
	return nil
}

// RemoveField drops a field from tracking, clears its configuration from the
// engine, and resets any displayed state.
func (o *Orchestrator) RemoveField(name string) {
	o.mu.Lock()
	_, ok := o.fields[name]
	delete(o.fields, name)
	o.mu.Unlock()

	o.engine.ResetField(name)
	if ok {
		o.presenter.Update(name, StatePristine, nil)
	}
}

// Focus returns the field's displayed state to pristine while the user is
// editing. The configuration and last result are retained.
func (o *Orchestrator) Focus(handle Input) {
	if handle == nil {
		return
	}
	name := handle.Name()

	o.mu.Lock()
	field, ok := o.fields[name]
	if ok {
		field.state = StatePristine
	}
	o.mu.Unlock()

	if ok {
		o.presenter.Update(name, StatePristine, nil)
	}
}

// HandleInput revalidates the handle's field against a fresh snapshot of all
// field values and updates its displayed state. It is the reaction to both
// input changes and blur.
func (o *Orchestrator) HandleInput(handle Input) (engine.FieldResult, error) {
	if handle == nil {
		return engine.FieldResult{}, errors.New("orchestrator: input handle is required")
	}
	name := handle.Name()

	o.mu.Lock()
	field, ok := o.fields[name]
	if !ok {
		o.mu.Unlock()
		return engine.FieldResult{}, fmt.Errorf("orchestrator: unknown field %q", name)
	}
	form := o.snapshotLocked()
	o.mu.Unlock()

	result := o.engine.ValidateField(name, form[name], form)

	o.mu.Lock()
	field.last = &result
	field.state = displayState(result)
	o.mu.Unlock()

	o.presenter.Update(name, displayState(result), &result)
	return result, nil
}

// HandleBlur is the blur reaction; it shares HandleInput's semantics.
func (o *Orchestrator) HandleBlur(handle Input) (engine.FieldResult, error) {
	return o.HandleInput(handle)
}

// ValidateAll snapshots every field value once, validates the whole form, and
// updates every configured field's displayed state.
func (o *Orchestrator) ValidateAll() engine.FormResult {
	result, _ := o.validateAll()
	return result
}

// Submit runs a whole-form validation pass over a single snapshot and fires
// exactly one of the OnValid/OnInvalid hooks with the outcome.
func (o *Orchestrator) Submit() engine.FormResult {
	result, form := o.validateAll()
	if result.Valid {
		o.hooks.OnValid(form)
	} else {
		o.hooks.OnInvalid(result)
	}
	return result
}

func (o *Orchestrator) validateAll() (engine.FormResult, rules.Form) {
	o.mu.Lock()
	form := o.snapshotLocked()
	o.mu.Unlock()

	result := o.engine.ValidateForm(form)

	type update struct {
		name   string
		state  State
		result engine.FieldResult
	}
	var updates []update

	o.mu.Lock()
	for name, fieldResult := range result.Fields {
		field, ok := o.fields[name]
		if !ok {
			continue
		}
		fieldResult := fieldResult
		field.last = &fieldResult
		field.state = displayState(fieldResult)
		updates = append(updates, update{name: name, state: field.state, result: fieldResult})
	}
	o.mu.Unlock()

	for _, u := range updates {
		u := u
		o.presenter.Update(u.name, u.state, &u.result)
	}
	return result, form
}

// FormData snapshots the current value of every tracked field: checkboxes as
// booleans, radio groups as the checked member's value only, everything else
// as the raw value the source reports.
func (o *Orchestrator) FormData() rules.Form {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() rules.Form {
	form := make(rules.Form, len(o.fields))
	for name, field := range o.fields {
		if len(field.handles) == 0 {
			continue
		}
		first := field.handles[0]
		switch first.Kind() {
		case KindCheckbox:
			form[name] = first.Checked()
		case KindRadio:
			for _, handle := range field.handles {
				if handle.Checked() {
					form[name] = handle.Value()
					break
				}
			}
		default:
			form[name] = first.Value()
		}
	}
	return form
}

// ValidationState reports the displayed state of every tracked field.
func (o *Orchestrator) ValidationState() map[string]State {
	o.mu.Lock()
	defer o.mu.Unlock()

	states := make(map[string]State, len(o.fields))
	for name, field := range o.fields {
		states[name] = field.state
	}
	return states
}

// Reset returns every field to pristine display, discarding last results but
// keeping configurations.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	names := make([]string, 0, len(o.fields))
	for name, field := range o.fields {
		field.state = StatePristine
		field.last = nil
		names = append(names, name)
	}
	o.mu.Unlock()

	for _, name := range names {
		o.presenter.Update(name, StatePristine, nil)
	}
}

func displayState(result engine.FieldResult) State {
	if result.Valid {
		return StateValid
	}
	return StateInvalid
}
