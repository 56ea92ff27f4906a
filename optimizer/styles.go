package optimizer

import "github.com/shibukawa/hxo/ir"

// StyleCollector feeds class names to the style engine and stores the final
// CSS in Module.CSS. Sources, in order: literal class attributes, string
// literals of :class bindings, string arguments of the style-registration
// call in the script, then each style block.
type StyleCollector struct{}

func (s *StyleCollector) Name() string { return "StyleCollector" }

func (s *StyleCollector) Process(ctx *Context) {
	m := ctx.Module

	ir.WalkTemplate(m.Template, func(n ir.TemplateNode) bool {
		el, ok := n.(*ir.Element)
		if !ok {
			return true
		}

		for _, a := range el.Attributes {
			switch {
			case a.Name == "class" && a.Value != nil:
				ctx.Styles.AddClasses(*a.Value)
			case a.IsBinding() && a.Argument() == "class":
				classLiterals(a.Expr, ctx)
			}
		}

		return true
	})

	if m.Script != nil {
		ir.WalkStatements(m.Script.Body, func(e ir.Expression) bool {
			call, ok := e.(*ir.Call)
			if !ok {
				return true
			}

			if id, ok := call.Callee.(*ir.Identifier); ok && id.Name == ctx.StyleCall {
				for _, arg := range call.Args {
					if text, ok := stringLiteral(arg); ok {
						ctx.Styles.AddClasses(text)
					}
				}
			}

			return true
		})
	}

	for _, style := range m.Styles {
		ctx.Styles.AddRaw(style.Code)
	}

	m.CSS = ctx.Styles.CSS()
}

// classLiterals collects the statically known class names of a :class value:
// strings, array items, object keys and both branches of a conditional.
func classLiterals(e ir.Expression, ctx *Context) {
	switch e := e.(type) {
	case *ir.Literal:
		if text, ok := stringLiteral(e); ok {
			ctx.Styles.AddClasses(text)
		}
	case *ir.ArrayLiteral:
		for _, item := range e.Elements {
			classLiterals(item, ctx)
		}
	case *ir.ObjectLiteral:
		for _, p := range e.Properties {
			if p.Key != "" {
				ctx.Styles.AddClasses(p.Key)
			}
		}
	case *ir.Conditional:
		classLiterals(e.Consequent, ctx)
		classLiterals(e.Alternate, ctx)
	case *ir.Binary:
		classLiterals(e.Left, ctx)
		classLiterals(e.Right, ctx)
	}
}
