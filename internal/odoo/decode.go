package odoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// record is one search_read row: field name to wire value. Unset relational
// and char fields arrive as false, which every accessor below treats as the
// zero value.
type record map[string]any

func (r record) int64(field string) int64 {
	switch v := r[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func (r record) str(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

func (r record) dec(field string) decimal.Decimal {
	switch v := r[field].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		return decimal.Zero
	}
}

// ref decodes a many2one value: [id, display_name] when set, false when not.
func (r record) ref(field string) Ref {
	pair, ok := r[field].([]any)
	if !ok || len(pair) == 0 {
		return Ref{}
	}
	out := Ref{ID: toInt64(pair[0])}
	if len(pair) > 1 {
		if name, ok := pair[1].(string); ok {
			out.Name = name
		}
	}
	return out
}

// datetime decodes an Odoo datetime or date field.
func (r record) datetime(field string) time.Time {
	s := r.str(field)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
