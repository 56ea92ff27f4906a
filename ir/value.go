package ir

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind tags a Value.
type ValueKind int

const (
	NullValue ValueKind = iota
	BoolValue
	NumberValue
	StringValue
	ArrayValue
	ObjectValue
	RawValue
)

// Value is a literal or metadata value.
// Numbers keep their exact decimal form so they re-emit as written.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number decimal.Decimal
	Str    string
	Items  []Value
	Fields map[string]Value
}

func Null() Value                    { return Value{Kind: NullValue} }
func Bool(b bool) Value              { return Value{Kind: BoolValue, Bool: b} }
func Number(d decimal.Decimal) Value { return Value{Kind: NumberValue, Number: d} }
func String(s string) Value          { return Value{Kind: StringValue, Str: s} }
func Raw(code string) Value          { return Value{Kind: RawValue, Str: code} }
func Array(items ...Value) Value     { return Value{Kind: ArrayValue, Items: items} }

func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}

	return Value{Kind: ObjectValue, Fields: fields}
}

// Int is a convenience constructor for integral numbers.
func Int(n int64) Value {
	return Number(decimal.NewFromInt(n))
}

// AsString returns the string payload for string and raw values.
func (v Value) AsString() (string, bool) {
	if v.Kind == StringValue || v.Kind == RawValue {
		return v.Str, true
	}

	return "", false
}

// Get returns a field of an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != ObjectValue {
		return Value{}, false
	}

	f, ok := v.Fields[key]

	return f, ok
}

// Interface converts the value into plain Go values (map[string]any, []any, ...).
func (v Value) Interface() any {
	switch v.Kind {
	case BoolValue:
		return v.Bool
	case NumberValue:
		if v.Number.IsInteger() {
			return v.Number.IntPart()
		}

		f, _ := v.Number.Float64()

		return f
	case StringValue, RawValue:
		return v.Str
	case ArrayValue:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Interface()
		}

		return out
	case ObjectValue:
		out := make(map[string]any, len(v.Fields))
		for k, f := range v.Fields {
			out[k] = f.Interface()
		}

		return out
	default:
		return nil
	}
}

// JS renders the value as a JavaScript literal. Object keys are sorted for stable output.
func (v Value) JS() string {
	switch v.Kind {
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case NumberValue:
		return v.Number.String()
	case StringValue:
		return QuoteJS(v.Str)
	case RawValue:
		return v.Str
	case ArrayValue:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.JS()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case ObjectValue:
		if len(v.Fields) == 0 {
			return "{}"
		}

		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = PropertyKey(k) + ": " + v.Fields[k].JS()
		}

		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return "null"
	}
}

// QuoteJS quotes s as a single-quoted JavaScript string literal.
func QuoteJS(s string) string {
	var sb strings.Builder

	sb.WriteByte('\'')

	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028':
			sb.WriteString(`\u2028`)
		case '\u2029':
			sb.WriteString(`\u2029`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('\'')

	return sb.String()
}

// PropertyKey renders an object key, quoting it when it is not a plain identifier.
func PropertyKey(k string) string {
	if isIdentifier(k) {
		return k
	}

	return QuoteJS(k)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		letter := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f
		if i == 0 && !letter {
			return false
		}

		if !letter && (r < '0' || r > '9') {
			return false
		}
	}

	return true
}
