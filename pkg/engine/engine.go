package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formvalid/pkg/rules"
)

// Option customises engine construction.
type Option func(*Engine)

// WithRegistry injects a rule registry. The default is a fresh registry
// populated with the built-in vocabulary.
func WithRegistry(registry *rules.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithLogger injects the logger that receives configuration warnings, such as
// a field referencing a rule the registry does not know.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine validates fields against their configured rule references. Each
// engine owns its registry and configuration store; independent forms should
// use independent engines unless they deliberately share one.
type Engine struct {
	registry *rules.Registry
	logger   *slog.Logger

	mu     sync.RWMutex
	fields map[string]FieldConfig
}

// New constructs an Engine applying any provided options.
func New(options ...Option) *Engine {
	e := &Engine{
		fields: make(map[string]FieldConfig),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.registry == nil {
		e.registry = rules.BuiltinRegistry()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Registry exposes the engine's rule registry.
func (e *Engine) Registry() *rules.Registry {
	return e.registry
}

// AddRule registers a custom rule, replacing any rule already stored under
// the same name.
func (e *Engine) AddRule(name string, predicate rules.Predicate, messageTemplate string) error {
	return e.registry.Register(name, predicate, messageTemplate)
}

// AvailableRules lists the names the registry currently knows.
func (e *Engine) AvailableRules() []string {
	return e.registry.Names()
}

// ConfigureField replaces the configuration for the named field. Structural
// problems (blank field name, a rule reference with no name) are programming
// errors and fail fast.
func (e *Engine) ConfigureField(name string, config FieldConfig) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return errors.New("engine: field name is required")
	}
	for i, ref := range config.Rules {
		if strings.TrimSpace(ref.Name) == "" {
			return fmt.Errorf("engine: field %q: rule reference %d has no name", key, i)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.fields[key] = cloneConfig(config)
	return nil
}

// ConfigureFields applies ConfigureField for every entry, in sorted field
// order so a structural error is always reported against the same field.
func (e *Engine) ConfigureFields(configs map[string]FieldConfig) error {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := e.ConfigureField(name, configs[name]); err != nil {
			return err
		}
	}
	return nil
}

// ResetField removes the configuration for the named field; the field becomes
// unconditionally valid.
func (e *Engine) ResetField(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.fields, name)
}

// ClearAll removes every field configuration.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fields = make(map[string]FieldConfig)
}

// FieldConfig returns a copy of the configuration for the named field.
func (e *Engine) FieldConfig(name string) (FieldConfig, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	config, ok := e.fields[name]
	if !ok {
		return FieldConfig{}, false
	}
	return cloneConfig(config), true
}

// ConfiguredFields returns the names of all configured fields, sorted.
func (e *Engine) ConfiguredFields() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateField evaluates every rule configured for the named field against
// value. form supplies the whole-form snapshot for cross-field rules and may
// be nil. A field with no configuration is unconditionally valid. All rules
// run even after a failure; the result carries one RuleFailure per failing
// rule, in configuration order.
func (e *Engine) ValidateField(name string, value any, form rules.Form) FieldResult {
	e.mu.RLock()
	config, ok := e.fields[name]
	e.mu.RUnlock()

	result := FieldResult{Valid: true}
	if !ok {
		return result
	}

	for _, ref := range config.Rules {
		rule, found := e.registry.Get(ref.Name)
		if !found {
			// Leniency: an unresolvable reference passes so a typo in a rule
			// name cannot block submission; the warning is the only signal.
			e.logger.Warn("unknown validation rule referenced",
				"field", name,
				"rule", ref.Name,
			)
			continue
		}
		if failure := e.evaluate(name, rule, ref, value, form); failure != nil {
			result.Valid = false
			result.Errors = append(result.Errors, *failure)
		}
	}
	return result
}

// evaluate runs one predicate, converting a panic inside the predicate into a
// RuleFailure so the remaining rules still run and the interaction loop never
// sees an exception.
func (e *Engine) evaluate(field string, rule rules.Rule, ref RuleRef, value any, form rules.Form) (failure *RuleFailure) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("validation rule panicked",
				"field", field,
				"rule", ref.Name,
				"panic", fmt.Sprint(r),
			)
			failure = &RuleFailure{
				Rule:    ref.Name,
				Message: fmt.Sprintf("validation rule %q failed internally", ref.Name),
				Params:  ref.Params,
			}
		}
	}()

	if rule.Predicate(value, ref.Params, form) {
		return nil
	}

	message := ref.Message
	if message == "" {
		message = formatMessage(rule.MessageTemplate, ref.Params)
	}
	return &RuleFailure{
		Rule:    ref.Name,
		Message: message,
		Params:  ref.Params,
	}
}

// ValidateForm validates every configured field against the given snapshot.
// Only configured fields are visited; extra keys in form are ignored. The
// same snapshot is passed to every field so cross-field rules observe one
// consistent view. Fields are visited in sorted name order, which makes the
// flattened error list deterministic.
func (e *Engine) ValidateForm(form rules.Form) FormResult {
	names := e.ConfiguredFields()

	result := FormResult{
		Valid:  true,
		Fields: make(map[string]FieldResult, len(names)),
	}
	for _, name := range names {
		fieldResult := e.ValidateField(name, form[name], form)
		result.Fields[name] = fieldResult
		if fieldResult.Valid {
			continue
		}
		result.Valid = false
		for _, failure := range fieldResult.Errors {
			result.Errors = append(result.Errors, FieldFailure{
				Field:       name,
				RuleFailure: failure,
			})
		}
	}
	return result
}

// cloneConfig deep-copies a configuration, including each reference's params
// map, so the store never shares mutable state with callers in either
// direction.
func cloneConfig(config FieldConfig) FieldConfig {
	if len(config.Rules) == 0 {
		return FieldConfig{}
	}
	cloned := FieldConfig{Rules: make([]RuleRef, len(config.Rules))}
	copy(cloned.Rules, config.Rules)
	for i, ref := range cloned.Rules {
		if len(ref.Params) == 0 {
			continue
		}
		params := make(rules.Params, len(ref.Params))
		for key, value := range ref.Params {
			params[key] = value
		}
		cloned.Rules[i].Params = params
	}
	return cloned
}
