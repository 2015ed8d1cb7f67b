package report_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formvalid/pkg/engine"
	"github.com/goliatone/go-formvalid/pkg/report"
	"github.com/goliatone/go-formvalid/pkg/rules"
	"github.com/goliatone/go-formvalid/pkg/testsupport"
)

func invalidResult(t *testing.T) engine.FormResult {
	t.Helper()

	e := engine.New()
	err := e.ConfigureFields(map[string]engine.FieldConfig{
		"email":    {Rules: []engine.RuleRef{engine.Ref(rules.RuleRequired), engine.Ref(rules.RuleEmail)}},
		"username": {Rules: []engine.RuleRef{{Name: rules.RuleMinLength, Params: rules.Params{"length": 3}}}},
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	return e.ValidateForm(rules.Form{"email": "nope", "username": "ab"})
}

func TestText(t *testing.T) {
	result := invalidResult(t)
	out := report.Text(result)

	if !strings.HasPrefix(out, "invalid: 2 error(s)") {
		t.Fatalf("text header:\n%s", out)
	}
	if !strings.Contains(out, "email:") || !strings.Contains(out, "username:") {
		t.Fatalf("missing fields:\n%s", out)
	}

	valid := report.Text(engine.FormResult{Valid: true, Fields: map[string]engine.FieldResult{"a": {Valid: true}}})
	if !strings.HasPrefix(valid, "valid: 1 field(s) checked") {
		t.Fatalf("valid header:\n%s", valid)
	}
}

func TestText_Golden(t *testing.T) {
	out := []byte(report.Text(invalidResult(t)))

	golden := filepath.Join("testdata", "invalid.txt")
	if testsupport.WriteMaybeGolden(t, golden, out) {
		return
	}
	want := testsupport.MustReadGolden(t, golden)
	if diff := testsupport.CompareGolden(string(want), string(out)); diff != "" {
		t.Fatalf("text output (-want +got):\n%s", diff)
	}
}

func TestJSON(t *testing.T) {
	data, err := report.JSON(invalidResult(t))
	if err != nil {
		t.Fatalf("json: %v", err)
	}

	var decoded struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded.Valid || len(decoded.Errors) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestHTML(t *testing.T) {
	out, err := report.HTML(invalidResult(t))
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "formvalid-invalid") {
		t.Fatalf("invalid class missing:\n%s", html)
	}
	if !strings.Contains(html, `data-field="email"`) || !strings.Contains(html, `data-field="username"`) {
		t.Fatalf("field attributes missing:\n%s", html)
	}
	if !strings.Contains(html, "2 validation errors") {
		t.Fatalf("count line missing:\n%s", html)
	}

	valid, err := report.HTML(engine.FormResult{Valid: true})
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(string(valid), "formvalid-valid") {
		t.Fatalf("valid class missing:\n%s", valid)
	}
}

func TestHTML_SanitizesMessages(t *testing.T) {
	e := engine.New()
	err := e.ConfigureField("bio", engine.FieldConfig{Rules: []engine.RuleRef{
		{Name: rules.RuleRequired, Message: `<script>alert("x")</script>Tell us about yourself`},
	}})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	result := e.ValidateForm(rules.Form{"bio": ""})

	out, err := report.HTML(result)
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script>") {
		t.Fatalf("markup survived sanitization:\n%s", html)
	}
	if !strings.Contains(html, "Tell us about yourself") {
		t.Fatalf("message text lost:\n%s", html)
	}
}

func TestSummary(t *testing.T) {
	out := report.Summary(invalidResult(t))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("summary lines = %d:\n%s", len(lines), out)
	}
	// Sorted field order.
	if !strings.HasPrefix(lines[0], "email\t") || !strings.HasPrefix(lines[1], "username\t") {
		t.Fatalf("summary order:\n%s", out)
	}
}
