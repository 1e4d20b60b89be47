package odoo

import "time"

// dateTimeLayout is the wire format of Odoo datetime fields.
const dateTimeLayout = "2006-01-02 15:04:05"

// Condition is a single domain leaf: field, operator, value.
type Condition struct {
	Field string
	Op    string
	Value any
}

// Domain is a conjunction of conditions, Odoo's default combinator. The
// builder covers the operators the stock queries need; it does not model
// the prefix-notation disjunctions the full domain language allows.
type Domain []Condition

// Eq matches records whose field equals value. Dotted paths traverse
// relations ("location_id.usage").
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: "=", Value: value}
}

// NotEq matches records whose field differs from value. NotEq(field, false)
// is the Odoo idiom for "relation is set".
func NotEq(field string, value any) Condition {
	return Condition{Field: field, Op: "!=", Value: value}
}

// In matches records whose field is one of values.
func In(field string, values ...string) Condition {
	wire := make([]any, len(values))
	for i, v := range values {
		wire[i] = v
	}
	return Condition{Field: field, Op: "in", Value: wire}
}

// Before matches records whose date field is strictly earlier than t.
func Before(field string, t time.Time) Condition {
	return Condition{Field: field, Op: "<", Value: t.Format(dateTimeLayout)}
}

// Wire serializes the domain to the nested-list form execute_kw expects:
// [["state","in",[...]],["date","<","2024-01-01 00:00:00"]].
func (d Domain) Wire() []any {
	out := make([]any, len(d))
	for i, c := range d {
		out[i] = []any{c.Field, c.Op, c.Value}
	}
	return out
}
