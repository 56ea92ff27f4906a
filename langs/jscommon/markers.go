package jscommon

import (
	"strconv"
	"strings"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// MarkerAttribute is written by server rendering and looked up by hydration.
const MarkerAttribute = "data-hxo-id"

// Walk visits the template depth-first, pre-order. Every visited node gets the
// next index starting at 0, and every element is descended into, static or
// not. leave, when set, runs after an element's children.
func Walk(nodes []ir.TemplateNode, enter func(n ir.TemplateNode, index int), leave func(n ir.TemplateNode)) {
	index := 0
	walk(nodes, &index, enter, leave)
}

func walk(nodes []ir.TemplateNode, index *int, enter func(ir.TemplateNode, int), leave func(ir.TemplateNode)) {
	for _, n := range nodes {
		enter(n, *index)
		*index++

		el, ok := n.(*ir.Element)
		if !ok {
			continue
		}

		walk(el.Children, index, enter, leave)

		if leave != nil {
			leave(n)
		}
	}
}

// Marked reports whether n carries a marker: non-static elements and
// interpolations.
func Marked(n ir.TemplateNode) bool {
	switch n := n.(type) {
	case *ir.Element:
		return !n.IsStatic
	case *ir.Interpolation:
		return true
	default:
		return false
	}
}

// MarkerSelector returns the CSS selector of the node marked index.
func MarkerSelector(index int) string {
	return "[" + MarkerAttribute + `="` + strconv.Itoa(index) + `"]`
}

// DirectiveExpr returns the expression a directive binds: the parsed value,
// or the raw value as opaque code when it could not be parsed. It is nil for
// a directive without a value.
func DirectiveExpr(a *ir.Attribute) ir.Expression {
	if a.Expr != nil {
		return a.Expr
	}

	return codeExpr(a.ValueString(), a.Loc)
}

// InterpolationExpr is DirectiveExpr for interpolations.
func InterpolationExpr(n *ir.Interpolation) ir.Expression {
	if n.Expr != nil {
		return n.Expr
	}

	return codeExpr(n.Code, n.Loc)
}

func codeExpr(code string, loc scanner.Span) ir.Expression {
	code = strings.TrimSpace(code)

	switch {
	case code == "":
		return nil
	case isPlainName(code):
		return &ir.Identifier{Name: code, Loc: loc}
	default:
		return &ir.OtherExpr{Raw: code, Loc: loc}
	}
}

// IsHandlerReference reports whether an event value names a function to call
// rather than code to run.
func IsHandlerReference(e ir.Expression) bool {
	switch e.(type) {
	case *ir.Identifier, *ir.Member:
		return true
	default:
		return false
	}
}
