package config_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formvalid/pkg/config"
	"github.com/goliatone/go-formvalid/pkg/engine"
	"github.com/goliatone/go-formvalid/pkg/rules"
)

const sampleDocument = `
fields:
  username:
    rules:
      - required
      - name: minLength
        params:
          length: 3
  email:
    rules:
      - required
      - name: email
        message: Please use a real address
`

func TestParse(t *testing.T) {
	configs, err := config.Parse([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := map[string]engine.FieldConfig{
		"username": {Rules: []engine.RuleRef{
			{Name: "required"},
			{Name: "minLength", Params: rules.Params{"length": 3}},
		}},
		"email": {Rules: []engine.RuleRef{
			{Name: "required"},
			{Name: "email", Message: "Please use a real address"},
		}},
	}
	if diff := cmp.Diff(want, configs); diff != "" {
		t.Fatalf("configs mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{name: "empty document", data: ""},
		{name: "no fields", data: "fields: {}"},
		{name: "invalid yaml", data: "fields: [not a map"},
		{name: "rule reference is a list", data: "fields:\n  x:\n    rules:\n      - [nested]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := config.Parse([]byte(tc.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/signup.yaml": {Data: []byte(sampleDocument)},
	}

	configs, err := config.LoadFS(fsys, "forms/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("configs = %v, want two fields", configs)
	}

	if _, err := config.LoadFS(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := config.LoadFS(nil, "x"); err == nil {
		t.Fatalf("expected error for nil filesystem")
	}
}

func TestApply(t *testing.T) {
	e := engine.New()
	if err := config.Apply(e, []byte(sampleDocument)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	result := e.ValidateForm(rules.Form{
		"username": "ab",
		"email":    "not-an-email",
	})
	if result.Valid {
		t.Fatalf("expected failures")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("error count = %d, want 2: %+v", len(result.Errors), result.Errors)
	}
	// The override travels all the way through.
	for _, failure := range result.Errors {
		if failure.Field == "email" && failure.Message != "Please use a real address" {
			t.Fatalf("email message = %q", failure.Message)
		}
	}

	if err := config.Apply(nil, []byte(sampleDocument)); err == nil {
		t.Fatalf("expected error for nil engine")
	}
}
