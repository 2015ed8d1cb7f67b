package openapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formvalid/pkg/engine"
	"github.com/goliatone/go-formvalid/pkg/rules"
)

// Translator runs the loader → parser → rule-derivation pipeline, turning an
// OpenAPI document into per-field validation configurations.
type Translator struct {
	loader Loader
	parser Parser
}

// NewTranslator constructs a Translator from a loader and parser.
// Construction helpers wiring the built-in implementations live in the
// top-level formvalid package to keep this package free of internal imports.
func NewTranslator(loader Loader, parser Parser) *Translator {
	return &Translator{loader: loader, parser: parser}
}

// Operations loads and parses the document at src.
func (t *Translator) Operations(ctx context.Context, src Source) (map[string]Operation, error) {
	if t == nil || t.loader == nil {
		return nil, errors.New("openapi: translator loader is nil")
	}
	if t.parser == nil {
		return nil, errors.New("openapi: translator parser is nil")
	}

	doc, err := t.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return t.parser.Operations(ctx, doc)
}

// FieldConfigs derives the field configurations for one operation's request
// body.
func (t *Translator) FieldConfigs(ctx context.Context, src Source, operationID string) (map[string]engine.FieldConfig, error) {
	operations, err := t.Operations(ctx, src)
	if err != nil {
		return nil, err
	}
	op, ok := operations[operationID]
	if !ok {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}
	return FieldConfigs(op), nil
}

// FieldConfigs maps an operation's request-body constraints onto the built-in
// rule vocabulary. Nested objects flatten into dotted field names. Fields
// that derive no rules are omitted.
func FieldConfigs(op Operation) map[string]engine.FieldConfig {
	configs := make(map[string]engine.FieldConfig)
	collectFields("", op.RequestBody, configs)
	return configs
}

func collectFields(prefix string, schema Schema, configs map[string]engine.FieldConfig) {
	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	for name, property := range schema.Properties {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if property.Type == "object" || (property.Type == "" && len(property.Properties) > 0) {
			collectFields(path, property, configs)
			continue
		}

		_, required := requiredSet[name]
		refs := rulesForProperty(property, required)
		if len(refs) == 0 {
			continue
		}
		configs[path] = engine.FieldConfig{Rules: refs}
	}
}

func rulesForProperty(schema Schema, required bool) []engine.RuleRef {
	var refs []engine.RuleRef
	if required {
		refs = append(refs, engine.Ref(rules.RuleRequired))
	}

	switch schema.Type {
	case "integer", "number":
		refs = append(refs, engine.Ref(rules.RuleNumber))
		if schema.Minimum != nil {
			refs = append(refs, engine.RuleRef{
				Name:   rules.RuleMin,
				Params: rules.Params{"value": formatBound(*schema.Minimum)},
			})
		}
		if schema.Maximum != nil {
			refs = append(refs, engine.RuleRef{
				Name:   rules.RuleMax,
				Params: rules.Params{"value": formatBound(*schema.Maximum)},
			})
		}
	case "string", "":
		refs = append(refs, formatRules(schema.Format)...)
		if schema.MinLength != nil {
			refs = append(refs, engine.RuleRef{
				Name:   rules.RuleMinLength,
				Params: rules.Params{"length": *schema.MinLength},
			})
		}
		if schema.MaxLength != nil {
			refs = append(refs, engine.RuleRef{
				Name:   rules.RuleMaxLength,
				Params: rules.Params{"length": *schema.MaxLength},
			})
		}
		if schema.Pattern != "" {
			refs = append(refs, engine.RuleRef{
				Name:   rules.RulePattern,
				Params: rules.Params{"pattern": schema.Pattern},
			})
		}
	}
	return refs
}

func formatRules(format string) []engine.RuleRef {
	switch format {
	case "email":
		return []engine.RuleRef{engine.Ref(rules.RuleEmail)}
	case "uri", "url":
		return []engine.RuleRef{engine.Ref(rules.RuleURL)}
	case "date", "date-time":
		return []engine.RuleRef{engine.Ref(rules.RuleDate)}
	case "phone":
		return []engine.RuleRef{engine.Ref(rules.RulePhone)}
	default:
		return nil
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
