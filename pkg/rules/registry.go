package rules

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Params carries the per-reference parameters a field configuration attaches
// to a rule, keyed by the placeholder names used in message templates.
type Params map[string]any

// Form is a snapshot of every field value in a form, keyed by field name.
// Cross-field predicates read sibling values from it; predicates must never
// write into it.
type Form map[string]any

// Predicate reports whether value satisfies the rule. params holds the
// reference-level configuration and form the whole-form snapshot for
// cross-field checks; both may be nil.
type Predicate func(value any, params Params, form Form) bool

// Rule pairs a predicate with the default message template used when a field
// reference does not override the message.
type Rule struct {
	Name            string
	Predicate       Predicate
	MessageTemplate string
}

// Registry stores rules by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty registry. Most callers want BuiltinRegistry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// BuiltinRegistry creates a registry pre-populated with the built-in rule
// vocabulary.
func BuiltinRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltin(r)
	return r
}

// Register stores a rule under name, replacing any prior registration with
// the same name. The name and predicate are required.
func (r *Registry) Register(name string, predicate Predicate, messageTemplate string) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return errors.New("rules: rule name is required")
	}
	if predicate == nil {
		return errors.New("rules: rule predicate is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[key] = Rule{
		Name:            key,
		Predicate:       predicate,
		MessageTemplate: messageTemplate,
	}
	return nil
}

// MustRegister panics on registration failure. Useful for built-in wiring.
func (r *Registry) MustRegister(name string, predicate Predicate, messageTemplate string) {
	if err := r.Register(name, predicate, messageTemplate); err != nil {
		panic(err)
	}
}

// Get retrieves a rule by name.
func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[name]
	return rule, ok
}

// Has reports whether a rule is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rules[name]
	return ok
}

// Names returns the registered rule names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template returns the default message template for name.
func (r *Registry) Template(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[name]
	if !ok {
		return "", false
	}
	return rule.MessageTemplate, true
}
