package report

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formvalid/pkg/engine"
)

// htmlTemplate is the default fragment layout. Messages are sanitized before
// they reach the template, so rendering them unescaped is safe.
const htmlTemplate = `<div class="formvalid-report {% if valid %}formvalid-valid{% else %}formvalid-invalid{% endif %}">
{% if valid %}  <p class="formvalid-summary">All fields are valid.</p>
{% else %}  <p class="formvalid-summary">{{ count }} validation error{{ plural }}:</p>
  <ul class="formvalid-errors">
{% for failure in failures %}    <li data-field="{{ failure.Field }}" data-rule="{{ failure.Rule }}">
      <span class="formvalid-field">{{ failure.Field }}</span> {{ failure.Message|safe }}
    </li>
{% endfor %}  </ul>
{% endif %}</div>
`

var (
	htmlOnce sync.Once
	htmlTpl  *pongo2.Template

	policyOnce sync.Once
	policy     *bluemonday.Policy
)

type htmlFailure struct {
	Field   string
	Rule    string
	Message string
}

// HTML renders the result as an HTML fragment. Field order follows the
// flattened error list, which is already deterministic.
func HTML(result engine.FormResult) ([]byte, error) {
	htmlOnce.Do(func() {
		htmlTpl = pongo2.Must(pongo2.FromString(htmlTemplate))
	})

	failures := make([]htmlFailure, 0, len(result.Errors))
	for _, failure := range result.Errors {
		failures = append(failures, htmlFailure{
			Field:   sanitize(failure.Field),
			Rule:    sanitize(failure.Rule),
			Message: sanitize(failure.Message),
		})
	}

	plural := "s"
	if len(failures) == 1 {
		plural = ""
	}

	out, err := htmlTpl.Execute(pongo2.Context{
		"valid":    result.Valid,
		"count":    len(failures),
		"plural":   plural,
		"failures": failures,
	})
	if err != nil {
		return nil, fmt.Errorf("report: render html: %w", err)
	}
	return []byte(out), nil
}

// Summary renders a compact per-field listing, one entry per configured
// field, for logs and diagnostics.
func Summary(result engine.FormResult) string {
	names := make([]string, 0, len(result.Fields))
	for name := range result.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		field := result.Fields[name]
		status := "ok"
		if !field.Valid {
			status = fmt.Sprintf("%d error(s)", len(field.Errors))
		}
		fmt.Fprintf(&b, "%s\t%s\n", name, status)
	}
	return b.String()
}

// sanitize strips markup from configured messages; overrides are caller
// input, not trusted template output.
func sanitize(raw string) string {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(policy.Sanitize(raw))
}
