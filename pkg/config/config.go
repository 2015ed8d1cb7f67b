package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formvalid/pkg/engine"
	"github.com/goliatone/go-formvalid/pkg/rules"
)

// Document is the root of a field-configuration file.
type Document struct {
	Fields map[string]Field `yaml:"fields"`
}

// Field holds the ordered rule references for one field.
type Field struct {
	Rules []Rule `yaml:"rules"`
}

// Rule decodes either a bare rule name or a {name, params, message} mapping.
type Rule struct {
	Name    string
	Params  rules.Params
	Message string
}

// UnmarshalYAML implements yaml.Unmarshaler for the two reference shapes.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return fmt.Errorf("config: decode rule name: %w", err)
		}
		r.Name = name
		return nil
	case yaml.MappingNode:
		var ref struct {
			Name    string         `yaml:"name"`
			Params  map[string]any `yaml:"params"`
			Message string         `yaml:"message"`
		}
		if err := node.Decode(&ref); err != nil {
			return fmt.Errorf("config: decode rule reference: %w", err)
		}
		r.Name = ref.Name
		r.Params = ref.Params
		r.Message = ref.Message
		return nil
	default:
		return fmt.Errorf("config: rule reference must be a name or a mapping, got yaml kind %d", node.Kind)
	}
}

// Parse decodes a document payload into engine field configurations.
func Parse(data []byte) (map[string]engine.FieldConfig, error) {
	if len(data) == 0 {
		return nil, errors.New("config: document is empty")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse document: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, errors.New("config: document defines no fields")
	}

	configs := make(map[string]engine.FieldConfig, len(doc.Fields))
	for name, field := range doc.Fields {
		config := engine.FieldConfig{Rules: make([]engine.RuleRef, 0, len(field.Rules))}
		for _, rule := range field.Rules {
			config.Rules = append(config.Rules, engine.RuleRef{
				Name:    rule.Name,
				Params:  rule.Params,
				Message: rule.Message,
			})
		}
		configs[name] = config
	}
	return configs, nil
}

// Load reads and parses a document from disk.
func Load(path string) (map[string]engine.FieldConfig, error) {
	if path == "" {
		return nil, errors.New("config: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read document: %w", err)
	}
	return Parse(data)
}

// LoadFS reads and parses a document from an fs.FS.
func LoadFS(fsys fs.FS, name string) (map[string]engine.FieldConfig, error) {
	if fsys == nil {
		return nil, errors.New("config: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("config: read document: %w", err)
	}
	return Parse(data)
}

// Apply parses a document and configures every field on the engine.
func Apply(e *engine.Engine, data []byte) error {
	if e == nil {
		return errors.New("config: engine is required")
	}
	configs, err := Parse(data)
	if err != nil {
		return err
	}
	return e.ConfigureFields(configs)
}
