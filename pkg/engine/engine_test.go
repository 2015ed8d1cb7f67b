package engine_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formvalid/pkg/engine"
	"github.com/goliatone/go-formvalid/pkg/rules"
	"github.com/goliatone/go-formvalid/pkg/testsupport"
)

func TestValidateField_UnconfiguredFieldIsValid(t *testing.T) {
	e := engine.New()

	for _, value := range []any{nil, "", "anything", 42, false} {
		result := e.ValidateField("unknown", value, nil)
		if !result.Valid {
			t.Fatalf("unconfigured field invalid for %v", value)
		}
		if len(result.Errors) != 0 {
			t.Fatalf("unconfigured field produced errors: %v", result.Errors)
		}
	}
}

func TestValidateField_NoEarlyExit(t *testing.T) {
	e := engine.New()
	err := e.ConfigureField("username", engine.FieldConfig{Rules: []engine.RuleRef{
		{Name: rules.RuleMinLength, Params: rules.Params{"length": 5}},
		{Name: rules.RulePattern, Params: rules.Params{"pattern": "^[a-z]+$"}},
	}})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	result := e.ValidateField("username", "AB1", nil)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("error count = %d, want 2 (every failing rule reported)", len(result.Errors))
	}
	if result.Errors[0].Rule != rules.RuleMinLength || result.Errors[1].Rule != rules.RulePattern {
		t.Fatalf("errors out of configuration order: %+v", result.Errors)
	}
}

func TestValidateField_RoundTrip(t *testing.T) {
	e := engine.New()
	err := e.AddRule("even", func(value any, _ rules.Params, _ rules.Form) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	}, "Must be even")
	if err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if err := e.ConfigureField("count", engine.FieldConfig{Rules: []engine.RuleRef{engine.Ref("even")}}); err != nil {
		t.Fatalf("configure: %v", err)
	}

	valid := e.ValidateField("count", 4, nil)
	want := engine.FieldResult{Valid: true}
	if diff := cmp.Diff(want, valid); diff != "" {
		t.Fatalf("accepted value mismatch (-want +got):\n%s", diff)
	}

	invalid := e.ValidateField("count", 3, nil)
	if invalid.Valid || len(invalid.Errors) != 1 {
		t.Fatalf("rejected value: got %+v, want exactly one failure", invalid)
	}
	if invalid.Errors[0].Rule != "even" || invalid.Errors[0].Message != "Must be even" {
		t.Fatalf("failure = %+v", invalid.Errors[0])
	}
}

func TestValidateField_MessageOverride(t *testing.T) {
	e := engine.New()
	err := e.ConfigureField("email", engine.FieldConfig{Rules: []engine.RuleRef{
		{Name: rules.RuleEmail, Message: "That does not look like an email"},
	}})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	result := e.ValidateField("email", "nope", nil)
	if result.Valid {
		t.Fatalf("expected failure")
	}
	if got := result.Errors[0].Message; got != "That does not look like an email" {
		t.Fatalf("message = %q, want the override verbatim", got)
	}
}

func TestValidateField_UnknownRuleIsLenient(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := engine.New(engine.WithLogger(logger))
	err := e.ConfigureField("nickname", engine.FieldConfig{Rules: []engine.RuleRef{
		engine.Ref("doesNotExist"),
	}})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	result := e.ValidateField("nickname", "anything", nil)
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("unknown rule must pass, got %+v", result)
	}
	logged := buf.String()
	if !strings.Contains(logged, "doesNotExist") || !strings.Contains(logged, "unknown validation rule") {
		t.Fatalf("expected configuration warning, log output:\n%s", logged)
	}
}

func TestValidateField_PanickingPredicateBecomesFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := engine.New(engine.WithLogger(logger))
	if err := e.AddRule("explodes", func(any, rules.Params, rules.Form) bool {
		panic("boom")
	}, ""); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	err := e.ConfigureField("field", engine.FieldConfig{Rules: []engine.RuleRef{
		engine.Ref("explodes"),
		engine.Ref(rules.RuleRequired),
	}})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	result := e.ValidateField("field", "", nil)
	if result.Valid {
		t.Fatalf("expected failures")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("remaining rules must still run after a panic, got %+v", result.Errors)
	}
	if result.Errors[0].Rule != "explodes" {
		t.Fatalf("panic failure missing: %+v", result.Errors)
	}
}

func TestValidateForm_CrossField(t *testing.T) {
	e := engine.New()
	err := e.ConfigureFields(map[string]engine.FieldConfig{
		"password": {Rules: []engine.RuleRef{engine.Ref(rules.RulePassword)}},
		"confirmPassword": {Rules: []engine.RuleRef{
			{Name: rules.RuleConfirmPassword, Params: rules.Params{"matchField": "password"}},
		}},
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	matching := e.ValidateForm(rules.Form{
		"password":        "Abc12345!",
		"confirmPassword": "Abc12345!",
	})
	if !matching.Valid {
		t.Fatalf("matching passwords reported invalid: %+v", matching.Errors)
	}

	mismatched := e.ValidateForm(rules.Form{
		"password":        "Abc12345!",
		"confirmPassword": "different",
	})
	if mismatched.Valid {
		t.Fatalf("mismatched passwords reported valid")
	}
	if len(mismatched.Errors) != 1 {
		t.Fatalf("error count = %d, want 1", len(mismatched.Errors))
	}
	failure := mismatched.Errors[0]
	if failure.Field != "confirmPassword" || failure.Rule != rules.RuleConfirmPassword {
		t.Fatalf("failure = %+v", failure)
	}
}

func TestValidateForm_VisitsConfiguredFieldsOnly(t *testing.T) {
	e := engine.New()
	err := e.ConfigureField("email", engine.FieldConfig{Rules: []engine.RuleRef{
		engine.Ref(rules.RuleRequired),
		engine.Ref(rules.RuleEmail),
	}})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	result := e.ValidateForm(rules.Form{
		"email":    "dev@example.com",
		"stranger": "no configuration, no opinion",
	})
	if !result.Valid {
		t.Fatalf("form invalid: %+v", result.Errors)
	}
	if _, ok := result.Fields["stranger"]; ok {
		t.Fatalf("unconfigured key leaked into the result")
	}
	if len(result.Fields) != 1 {
		t.Fatalf("fields = %v, want only the configured field", result.Fields)
	}
}

func TestValidateForm_Idempotent(t *testing.T) {
	e := engine.New()
	err := e.ConfigureFields(map[string]engine.FieldConfig{
		"age":   {Rules: []engine.RuleRef{engine.Ref(rules.RuleAge)}},
		"email": {Rules: []engine.RuleRef{engine.Ref(rules.RuleRequired), engine.Ref(rules.RuleEmail)}},
		"site":  {Rules: []engine.RuleRef{engine.Ref(rules.RuleURL)}},
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	snapshot := rules.Form{"age": "200", "email": "nope", "site": "not a url"}
	first := e.ValidateForm(snapshot)
	second := e.ValidateForm(snapshot)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated validation differs (-first +second):\n%s", diff)
	}
	if first.Valid {
		t.Fatalf("expected invalid form")
	}
	// Flattened errors follow sorted field order.
	var fields []string
	for _, failure := range first.Errors {
		fields = append(fields, failure.Field)
	}
	want := []string{"age", "email", "site"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("flattened error order (-want +got):\n%s", diff)
	}
}

func TestAddRule_OverwriteChangesBehaviour(t *testing.T) {
	e := engine.New()
	if err := e.ConfigureField("email", engine.FieldConfig{Rules: []engine.RuleRef{engine.Ref(rules.RuleEmail)}}); err != nil {
		t.Fatalf("configure: %v", err)
	}

	if result := e.ValidateField("email", "not-an-email", nil); result.Valid {
		t.Fatalf("builtin email rule accepted junk")
	}

	// Replace the builtin with an accept-all predicate; the second
	// registration must win.
	if err := e.AddRule(rules.RuleEmail, func(any, rules.Params, rules.Form) bool { return true }, "never"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if result := e.ValidateField("email", "not-an-email", nil); !result.Valid {
		t.Fatalf("overwritten rule not used: %+v", result)
	}
}

func TestConfigureField_StructuralErrors(t *testing.T) {
	e := engine.New()

	if err := e.ConfigureField("", engine.FieldConfig{}); err == nil {
		t.Fatalf("expected error for empty field name")
	}
	err := e.ConfigureField("field", engine.FieldConfig{Rules: []engine.RuleRef{{Name: "  "}}})
	if err == nil {
		t.Fatalf("expected error for unnamed rule reference")
	}
}

func TestConfigureField_CopiesParams(t *testing.T) {
	e := engine.New()

	params := rules.Params{"length": 3}
	err := e.ConfigureField("username", engine.FieldConfig{Rules: []engine.RuleRef{
		{Name: rules.RuleMinLength, Params: params},
	}})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	// Mutating the caller's map after configuration must not change what
	// the store validates with.
	params["length"] = 100
	if result := e.ValidateField("username", "abcd", nil); !result.Valid {
		t.Fatalf("caller-side mutation leaked into the store: %+v", result.Errors)
	}

	// Same isolation on the way out.
	config, ok := e.FieldConfig("username")
	if !ok {
		t.Fatalf("configuration missing")
	}
	config.Rules[0].Params["length"] = 100
	if result := e.ValidateField("username", "abcd", nil); !result.Valid {
		t.Fatalf("returned-config mutation leaked into the store: %+v", result.Errors)
	}
}

func TestConfigureFields_FromFixture(t *testing.T) {
	configs := testsupport.MustLoadFieldConfigs(t, filepath.Join("testdata", "signup.json"))

	e := engine.New()
	if err := e.ConfigureFields(configs); err != nil {
		t.Fatalf("configure: %v", err)
	}

	result := e.ValidateForm(rules.Form{
		"email":           "dev@example.com",
		"password":        "Abcd12345!",
		"confirmPassword": "Abcd12345!",
	})
	if !result.Valid {
		t.Fatalf("conforming form rejected: %+v", result.Errors)
	}

	// The fixture raises the password minimum to 10.
	short := e.ValidateField("password", "Abc12345!", nil)
	if short.Valid {
		t.Fatalf("nine-character password accepted despite the fixture minimum")
	}
}

func TestResetFieldAndClearAll(t *testing.T) {
	e := engine.New()
	err := e.ConfigureFields(map[string]engine.FieldConfig{
		"a": {Rules: []engine.RuleRef{engine.Ref(rules.RuleRequired)}},
		"b": {Rules: []engine.RuleRef{engine.Ref(rules.RuleRequired)}},
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	e.ResetField("a")
	if result := e.ValidateField("a", "", nil); !result.Valid {
		t.Fatalf("reset field still validates")
	}
	if result := e.ValidateField("b", "", nil); result.Valid {
		t.Fatalf("unrelated field lost its configuration")
	}

	e.ClearAll()
	if got := e.ConfiguredFields(); len(got) != 0 {
		t.Fatalf("configured fields after clear: %v", got)
	}
}
