package parsermeta

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// XML parses `<metadata lang="xml">` blocks. Children of the root element become keys.
// An element with attributes or child elements becomes an object, repeated
// sibling tags become an array and a leaf element becomes its trimmed text.
type XML struct{}

func (XML) ParseMetadata(src string, _ scanner.Position, _ string) (map[string]ir.Value, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		return nil, fmt.Errorf("%w: %s", scanner.ErrParse, err.Error())
	}

	root := doc.Root()
	if root == nil {
		return nil, ErrNoRootElement
	}

	return xmlChildren(root), nil
}

func xmlChildren(el *etree.Element) map[string]ir.Value {
	fields := map[string]ir.Value{}

	for _, attr := range el.Attr {
		fields[attr.Key] = ir.String(attr.Value)
	}

	for _, child := range el.ChildElements() {
		v := xmlElementValue(child)

		prev, exists := fields[child.Tag]

		switch {
		case !exists:
			fields[child.Tag] = v
		case prev.Kind == ir.ArrayValue:
			prev.Items = append(prev.Items, v)
			fields[child.Tag] = prev
		default:
			fields[child.Tag] = ir.Array(prev, v)
		}
	}

	return fields
}

func xmlElementValue(el *etree.Element) ir.Value {
	if len(el.ChildElements()) == 0 && len(el.Attr) == 0 {
		return ir.String(strings.TrimSpace(el.Text()))
	}

	return ir.Object(xmlChildren(el))
}
