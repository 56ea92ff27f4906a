package optimizer

import "github.com/shibukawa/hxo/ir"

// TranslateCall is the translation helper recognized in scripts and templates.
const TranslateCall = "$t"

// I18nProcessor replaces `$t("key")` with the translated string literal when
// the key is known. Unknown keys and any other call shape are left alone.
type I18nProcessor struct{}

func (p *I18nProcessor) Name() string { return "I18nProcessor" }

func (p *I18nProcessor) Process(ctx *Context) {
	if len(ctx.Messages) == 0 {
		return
	}

	translate := func(e ir.Expression) ir.Expression {
		return substitute(e, ctx.Messages)
	}

	if ctx.Module.Script != nil {
		ir.RewriteStatements(ctx.Module.Script.Body, translate)
	}

	ir.WalkTemplate(ctx.Module.Template, func(n ir.TemplateNode) bool {
		switch n := n.(type) {
		case *ir.Element:
			for _, a := range n.Attributes {
				if a.Expr == nil {
					continue
				}

				a.Expr = ir.RewriteExpression(a.Expr, translate)

				if s, ok := stringLiteral(a.Expr); ok {
					quoted := ir.QuoteJS(s)
					a.Value = &quoted
				}
			}
		case *ir.Interpolation:
			if n.Expr == nil {
				return true
			}

			n.Expr = ir.RewriteExpression(n.Expr, translate)

			if s, ok := stringLiteral(n.Expr); ok {
				n.Code = ir.QuoteJS(s)
			}
		}

		return true
	})
}

func substitute(e ir.Expression, messages map[string]string) ir.Expression {
	call, ok := e.(*ir.Call)
	if !ok || len(call.Args) != 1 {
		return e
	}

	if id, ok := call.Callee.(*ir.Identifier); !ok || id.Name != TranslateCall {
		return e
	}

	key, ok := stringLiteral(call.Args[0])
	if !ok {
		return e
	}

	text, ok := messages[key]
	if !ok {
		return e
	}

	return &ir.Literal{Value: ir.String(text), Loc: call.Loc}
}

func stringLiteral(e ir.Expression) (string, bool) {
	lit, ok := e.(*ir.Literal)
	if !ok || lit.Value.Kind != ir.StringValue {
		return "", false
	}

	return lit.Value.Str, true
}
