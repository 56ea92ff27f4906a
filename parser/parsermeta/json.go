package parsermeta

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// JSON parses `<metadata lang="json">` blocks.
type JSON struct{}

func (JSON) ParseMetadata(src string, _ scanner.Position, _ string) (map[string]ir.Value, error) {
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", scanner.ErrParse, err.Error())
	}

	root, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrExpectedMapping
	}

	return FromAny(root).Fields, nil
}

// FromAny converts decoded JSON/YAML data into an ir.Value.
func FromAny(v any) ir.Value {
	switch v := v.(type) {
	case nil:
		return ir.Null()
	case bool:
		return ir.Bool(v)
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return ir.Number(d)
		}

		return ir.String(v.String())
	case float64:
		return ir.Number(decimal.NewFromFloat(v))
	case int:
		return ir.Int(int64(v))
	case int64:
		return ir.Int(v)
	case string:
		return ir.String(v)
	case []any:
		items := make([]ir.Value, len(v))
		for i, item := range v {
			items[i] = FromAny(item)
		}

		return ir.Array(items...)
	case map[string]any:
		fields := make(map[string]ir.Value, len(v))
		for k, item := range v {
			fields[k] = FromAny(item)
		}

		return ir.Object(fields)
	default:
		return ir.String(fmt.Sprint(v))
	}
}
