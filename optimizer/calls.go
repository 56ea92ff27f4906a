package optimizer

import "github.com/shibukawa/hxo/ir"

// CallCounter records how often each identifier is called in the script
// and the template, in Module.CallCounts.
type CallCounter struct{}

func (c *CallCounter) Name() string { return "CallCounter" }

func (c *CallCounter) Process(ctx *Context) {
	counts := map[string]int{}

	count := func(e ir.Expression) bool {
		if call, ok := e.(*ir.Call); ok {
			if id, ok := call.Callee.(*ir.Identifier); ok {
				counts[id.Name]++
			}
		}

		return true
	}

	if ctx.Module.Script != nil {
		ir.WalkStatements(ctx.Module.Script.Body, count)
	}

	ir.WalkTemplate(ctx.Module.Template, func(n ir.TemplateNode) bool {
		switch n := n.(type) {
		case *ir.Element:
			for _, a := range n.Attributes {
				ir.WalkExpression(a.Expr, count)
			}
		case *ir.Interpolation:
			ir.WalkExpression(n.Expr, count)
		}

		return true
	})

	ctx.Module.CallCounts = counts
}
