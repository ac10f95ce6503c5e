// Package normalize maps carrier-native records onto the canonical model.
// Every transform is pure and deterministic: the same input record always
// yields the same canonical output, which is what makes request-fingerprint
// caching and idempotent event replay safe.
package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// FieldError is one failed validation on one field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validation failure codes.
const (
	CodeMissing    = "missing"
	CodeBadFormat  = "bad_format"
	CodeBadEnum    = "bad_enum"
	CodeBadRange   = "bad_range"
	CodeCrossField = "cross_field"
)

// ValidationError aggregates every field that failed, never just the first.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s (%s)", f.Field, f.Message, f.Code)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Warning flags a suspicious but tolerated value in a normalized record.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errs collects field failures during a normalization pass.
type errs struct {
	fields []FieldError
}

func (e *errs) add(field, code, message string) {
	e.fields = append(e.fields, FieldError{Field: field, Code: code, Message: message})
}

// err returns the aggregated ValidationError, or nil when clean. Fields are
// sorted by name so the error list is deterministic regardless of map
// iteration order upstream.
func (e *errs) err() error {
	if len(e.fields) == 0 {
		return nil
	}
	sort.SliceStable(e.fields, func(i, j int) bool { return e.fields[i].Field < e.fields[j].Field })
	return &ValidationError{Fields: e.fields}
}
