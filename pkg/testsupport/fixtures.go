// Package testsupport holds helpers shared by package tests: fixture loading,
// form construction and golden-file comparison. Set UPDATE_GOLDENS=1 to
// rewrite goldens from current output.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
)

// LoadFieldSet reads a JSON or YAML field set fixture.
func LoadFieldSet(t *testing.T, path string) model.FieldSet {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read field set: %v", err)
	}
	set, err := model.LoadFieldSet(data, path)
	if err != nil {
		t.Fatalf("load field set: %v", err)
	}
	return set
}

// NewForm binds a field set, using its optional list field, and fails the
// test on error. Extra options are applied after the list field.
func NewForm(t *testing.T, set model.FieldSet, opts ...engine.Option) *engine.Form {
	t.Helper()

	all := append([]engine.Option{engine.WithOptionalListField(set.OptionalListField)}, opts...)
	form, err := engine.New(set.Fields, all...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
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

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. It
// reports whether the file was written, in which case the test should stop.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
