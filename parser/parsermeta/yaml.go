// Package parsermeta holds the metadata sub-parsers (YAML, JSON, XML) and the
// markdown custom block renderer.
package parsermeta

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// YAML parses `<metadata lang="yaml">` blocks. It is the default metadata language.
type YAML struct{}

func (YAML) ParseMetadata(src string, start scanner.Position, _ string) (map[string]ir.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", scanner.ErrParse, err.Error())
	}

	// An empty document has no content node.
	if len(doc.Content) == 0 {
		return map[string]ir.Value{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d", ErrExpectedMapping, start.Line+root.Line-1)
	}

	v, err := yamlNodeToValue(root)
	if err != nil {
		return nil, err
	}

	return v.Fields, nil
}

func yamlNodeToValue(node *yaml.Node) (ir.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return yamlScalar(node), nil
	case yaml.MappingNode:
		fields := make(map[string]ir.Value, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := yamlNodeToValue(node.Content[i+1])
			if err != nil {
				return ir.Value{}, err
			}

			fields[node.Content[i].Value] = v
		}

		return ir.Object(fields), nil
	case yaml.SequenceNode:
		items := make([]ir.Value, len(node.Content))

		for i, child := range node.Content {
			v, err := yamlNodeToValue(child)
			if err != nil {
				return ir.Value{}, err
			}

			items[i] = v
		}

		return ir.Array(items...), nil
	case yaml.AliasNode:
		return yamlNodeToValue(node.Alias)
	default:
		return ir.Value{}, fmt.Errorf("%w: kind %d", ErrUnsupportedNode, node.Kind)
	}
}

func yamlScalar(node *yaml.Node) ir.Value {
	switch node.ShortTag() {
	case "!!null":
		return ir.Null()
	case "!!bool":
		return ir.Bool(strings.EqualFold(node.Value, "true"))
	case "!!int", "!!float":
		if d, err := decimal.NewFromString(node.Value); err == nil {
			return ir.Number(d)
		}
	}

	return ir.String(node.Value)
}
