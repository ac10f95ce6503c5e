package normalize

import (
	"fmt"
	"time"
)

// Record is a loosely-typed carrier-native payload, usually decoded JSON.
type Record map[string]any

// reader pulls typed values out of a Record, collecting failures instead of
// stopping at the first one.
type reader struct {
	rec  Record
	errs *errs
}

func newReader(rec Record) *reader {
	return &reader{rec: rec, errs: &errs{}}
}

func (r *reader) str(field string, required bool) string {
	v, ok := r.rec[field]
	if !ok || v == nil {
		if required {
			r.errs.add(field, CodeMissing, "field is required")
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.errs.add(field, CodeBadFormat, fmt.Sprintf("expected string, got %T", v))
		return ""
	}
	return s
}

// num accepts float64 (decoded JSON numbers) and int for hand-built records.
func (r *reader) num(field string, required bool) float64 {
	v, ok := r.rec[field]
	if !ok || v == nil {
		if required {
			r.errs.add(field, CodeMissing, "field is required")
		}
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		r.errs.add(field, CodeBadFormat, fmt.Sprintf("expected number, got %T", v))
		return 0
	}
}

// date parses RFC 3339 or plain YYYY-MM-DD dates, always in UTC.
func (r *reader) date(field string, required bool) time.Time {
	s := r.str(field, required)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		r.errs.add(field, CodeBadFormat, "expected RFC 3339 or YYYY-MM-DD date")
		return time.Time{}
	}
	return t.UTC()
}

// numMap reads a nested object of numeric values, e.g. coverage limits.
// Returns nil when the field is absent.
func (r *reader) numMap(field string) map[string]float64 {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		r.errs.add(field, CodeBadFormat, fmt.Sprintf("expected object, got %T", v))
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, val := range raw {
		switch n := val.(type) {
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		default:
			r.errs.add(field+"."+k, CodeBadFormat, fmt.Sprintf("expected number, got %T", val))
		}
	}
	return out
}
