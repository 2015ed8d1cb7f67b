package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formvalid/pkg/engine"
	"github.com/goliatone/go-formvalid/pkg/rules"
)

// FieldSpec describes one prompt in a session. Fields are asked in slice
// order; Name must match a field configured on the engine for validation to
// apply.
type FieldSpec struct {
	Name    string
	Label   string
	Help    string
	Default string
	Secret  bool
	Confirm bool
	Options []string
}

// Option customises a Session.
type Option func(*Session)

// WithDriver injects a prompt driver; the default talks to the terminal via
// survey.
func WithDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// Session walks a list of field prompts, validating each answer in realtime
// against the engine (with the answers collected so far as the cross-field
// snapshot) and running a final whole-form pass before returning.
type Session struct {
	engine *engine.Engine
	fields []FieldSpec
	driver PromptDriver
}

// New constructs a Session for the given engine and field prompts.
func New(e *engine.Engine, fields []FieldSpec, options ...Option) (*Session, error) {
	if e == nil {
		return nil, errors.New("tui: engine is required")
	}
	if len(fields) == 0 {
		return nil, errors.New("tui: at least one field is required")
	}
	for i, field := range fields {
		if field.Name == "" {
			return nil, fmt.Errorf("tui: field %d has no name", i)
		}
	}

	s := &Session{
		engine: e,
		fields: fields,
		driver: NewSurveyDriver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Run prompts for every field and returns the collected answers with the
// final whole-form result. Per-answer validation keeps the user on a prompt
// until the answer passes its field's rules; the final pass is authoritative
// because cross-field rules may involve answers given later.
func (s *Session) Run(ctx context.Context) (rules.Form, engine.FormResult, error) {
	form := make(rules.Form, len(s.fields))

	for _, field := range s.fields {
		value, err := s.ask(ctx, field, form)
		if err != nil {
			return nil, engine.FormResult{}, err
		}
		form[field.Name] = value
	}

	result := s.engine.ValidateForm(form)
	if !result.Valid {
		for _, failure := range result.Errors {
			msg := fmt.Sprintf("%s: %s", failure.Field, failure.Message)
			if err := s.driver.Info(ctx, msg); err != nil {
				return nil, engine.FormResult{}, err
			}
		}
	}
	return form, result, nil
}

func (s *Session) ask(ctx context.Context, field FieldSpec, partial rules.Form) (any, error) {
	label := field.Label
	if label == "" {
		label = field.Name
	}

	switch {
	case field.Confirm:
		return s.driver.Confirm(ctx, ConfirmConfig{Message: label, Help: field.Help})
	case len(field.Options) > 0:
		index, err := s.driver.Select(ctx, SelectConfig{
			Message: label,
			Options: field.Options,
			Help:    field.Help,
		})
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(field.Options) {
			return nil, fmt.Errorf("tui: selection out of range for field %q", field.Name)
		}
		return field.Options[index], nil
	default:
		cfg := InputConfig{
			Message:   label,
			Default:   field.Default,
			Help:      field.Help,
			Validator: s.fieldValidator(field.Name, partial),
		}
		if field.Secret {
			return s.driver.Password(ctx, cfg)
		}
		return s.driver.Input(ctx, cfg)
	}
}

// fieldValidator adapts the engine's field validation to a prompt validator.
// The tentative answer is layered over the answers collected so far so
// cross-field rules against earlier fields work during the prompt.
func (s *Session) fieldValidator(name string, partial rules.Form) func(string) error {
	return func(answer string) error {
		snapshot := make(rules.Form, len(partial)+1)
		for key, value := range partial {
			snapshot[key] = value
		}
		snapshot[name] = answer

		result := s.engine.ValidateField(name, answer, snapshot)
		if result.Valid {
			return nil
		}
		return errors.New(result.Errors[0].Message)
	}
}
