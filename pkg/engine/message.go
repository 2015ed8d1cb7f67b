package engine

import (
	"strings"

	"github.com/goliatone/go-formvalid/pkg/rules"
)

// fallbackMessage is used when a message is requested for a rule the registry
// does not know.
const fallbackMessage = "Invalid value"

// formatMessage substitutes {key} placeholders in template with the text form
// of the corresponding param value. Params that are nil or render to the
// empty string are skipped; placeholders without a matching param are left
// literal so a half-configured template stays visibly half-configured.
func formatMessage(template string, params rules.Params) string {
	if template == "" || len(params) == 0 {
		return template
	}
	out := template
	for key, value := range params {
		if value == nil {
			continue
		}
		text := rules.Text(value)
		if text == "" {
			continue
		}
		out = strings.ReplaceAll(out, "{"+key+"}", text)
	}
	return out
}

// FormatMessage renders the default message template registered for ruleName
// with the given params. Unknown rules yield the generic fallback.
func (e *Engine) FormatMessage(ruleName string, params rules.Params) string {
	template, ok := e.registry.Template(ruleName)
	if !ok {
		template = fallbackMessage
	}
	return formatMessage(template, params)
}
