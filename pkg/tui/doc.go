// Package tui runs an interactive terminal form session: one prompt per
// configured field, validated in realtime as the user answers, with a final
// whole-form pass over the collected answers before they are accepted. The
// survey-backed driver sits behind the PromptDriver interface so sessions can
// be tested without a terminal.
package tui
