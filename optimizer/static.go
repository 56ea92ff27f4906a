package optimizer

import "github.com/shibukawa/hxo/ir"

// StaticClassifier computes Element.IsStatic bottom-up.
// An element is static when none of its attributes is dynamic and every child
// is text, a comment or a static element.
type StaticClassifier struct{}

func (s *StaticClassifier) Name() string { return "StaticClassifier" }

func (s *StaticClassifier) Process(ctx *Context) {
	for _, n := range ctx.Module.Template {
		classify(n)
	}
}

// classify returns whether n may be part of a static subtree.
func classify(n ir.TemplateNode) bool {
	switch n := n.(type) {
	case *ir.Element:
		static := true

		for _, a := range n.Attributes {
			if a.IsDynamic {
				static = false
			}
		}

		for _, c := range n.Children {
			// children are classified even after the parent is known dynamic
			if !classify(c) {
				static = false
			}
		}

		n.IsStatic = static

		return static
	case *ir.Text, *ir.Comment:
		return true
	default:
		return false
	}
}
