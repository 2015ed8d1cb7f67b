package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formvalid/pkg/engine"
)

// Text renders the result as one line per failure, or an all-clear line.
func Text(result engine.FormResult) string {
	if result.Valid {
		return fmt.Sprintf("valid: %d field(s) checked\n", len(result.Fields))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "invalid: %d error(s)\n", len(result.Errors))
	for _, failure := range result.Errors {
		fmt.Fprintf(&b, "  %s: %s [%s]\n", failure.Field, failure.Message, failure.Rule)
	}
	return b.String()
}

// JSON renders the result as indented JSON.
func JSON(result engine.FormResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshal result: %w", err)
	}
	return data, nil
}
