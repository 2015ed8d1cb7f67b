// Package testsupport holds fixture and golden-file helpers shared by the
// package test suites.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formvalid/pkg/engine"
)

// Context returns a background context for contract tests.
func Context() context.Context {
	return context.Background()
}

// LoadFieldConfigs reads a JSON fixture into an engine configuration map.
func LoadFieldConfigs(path string) (map[string]engine.FieldConfig, error) {
	if path == "" {
		return nil, errors.New("testsupport: config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read config: %w", err)
	}
	var out map[string]engine.FieldConfig
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal config: %w", err)
	}
	return out, nil
}

// MustLoadFieldConfigs loads a JSON fixture, failing the test on error.
func MustLoadFieldConfigs(t *testing.T, path string) map[string]engine.FieldConfig {
	t.Helper()

	configs, err := LoadFieldConfigs(path)
	if err != nil {
		t.Fatalf("load field configs: %v", err)
	}
	return configs
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
