// Package formvalid is the top-level entry point for the rule-based form
// validation engine: register named rules, configure fields with ordered rule
// references, and validate single values or whole forms with structured
// results. The orchestrator subpackage adds interaction-state tracking for
// realtime validation on top of the engine.
package formvalid

import (
	internalLoader "github.com/goliatone/go-formvalid/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formvalid/internal/openapi/parser"
	"github.com/goliatone/go-formvalid/pkg/engine"
	pkgopenapi "github.com/goliatone/go-formvalid/pkg/openapi"
	"github.com/goliatone/go-formvalid/pkg/orchestrator"
	"github.com/goliatone/go-formvalid/pkg/rules"
)

// Engine aliases the validation engine for convenience.
type Engine = engine.Engine

// FieldConfig is the ordered rule-reference list for one field.
type FieldConfig = engine.FieldConfig

// RuleRef points a field at a registered rule.
type RuleRef = engine.RuleRef

// FieldResult is the outcome of validating one field.
type FieldResult = engine.FieldResult

// FormResult aggregates per-field outcomes for a whole form.
type FormResult = engine.FormResult

// Params carries per-reference rule parameters.
type Params = rules.Params

// Form is a whole-form value snapshot.
type Form = rules.Form

// Predicate is the rule check contract.
type Predicate = rules.Predicate

// Ref is shorthand for a bare rule reference.
func Ref(name string) RuleRef {
	return engine.Ref(name)
}

// New constructs a validation engine with the built-in rule vocabulary.
func New(options ...engine.Option) *engine.Engine {
	return engine.New(options...)
}

// NewOrchestrator constructs a field orchestrator; see pkg/orchestrator for
// the interaction state machine it maintains.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewOpenAPILoader constructs an OpenAPI document loader using the internal
// implementation while keeping the concrete type hidden from consumers.
func NewOpenAPILoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewOpenAPIParser constructs an OpenAPI parser backed by the internal
// implementation.
func NewOpenAPIParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewOpenAPITranslator wires the built-in loader and parser into a translator
// that derives field configurations from OpenAPI request bodies.
func NewOpenAPITranslator(loaderOptions []pkgopenapi.LoaderOption, parserOptions []pkgopenapi.ParserOption) *pkgopenapi.Translator {
	return pkgopenapi.NewTranslator(
		NewOpenAPILoader(loaderOptions...),
		NewOpenAPIParser(parserOptions...),
	)
}
