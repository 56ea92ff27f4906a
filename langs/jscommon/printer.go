// Package jscommon prints ir expressions and statements as JavaScript for the
// JS, SSR and hydration backends.
package jscommon

import (
	"strings"

	"github.com/shibukawa/hxo/codewriter"
	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/parser/parserexpr"
)

// Hyperscript is the runtime function element literals are lowered to.
const Hyperscript = "h"

// Printing precedences. Binary operators are shifted up by one above
// assignment so the conditional operator gets its own level.
const (
	precAssign = 1
	precCond   = 2
	precUnary  = 14
	precPost   = 15
	precMember = 16
	precAtom   = 17
)

func binaryPrecedence(op string) int {
	p := parserexpr.Precedence(op)
	if p > precAssign {
		p++
	}

	return p
}

// Printer writes JavaScript to a codewriter, recording a mapping for every
// identifier, literal and statement that carries a span.
//
// With Context set, free identifiers are read from that object: reactive
// bindings become `ctx.x()` (or `ctx.x` when called), everything else `ctx.x`.
// Globals, names in Skip and names bound inside the expression stay as written.
type Printer struct {
	Context string
	Meta    *ir.ScriptMeta
	Skip    map[string]bool

	w     *codewriter.Writer
	scope Scope
	used  map[string]bool
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w *codewriter.Writer) *Printer {
	return &Printer{w: w, used: map[string]bool{}}
}

// Used reports whether a runtime helper such as Hyperscript was referenced.
func (p *Printer) Used(name string) bool {
	return p.used[name]
}

// Writer returns the underlying writer.
func (p *Printer) Writer() *codewriter.Writer {
	return p.w
}

// Resolve returns the text an identifier prints as.
func (p *Printer) Resolve(name string, callee bool) string {
	if p.Context == "" || p.scope.Lookup(name) || Globals[name] || p.Skip[name] {
		return name
	}

	if p.Meta.IsReactive(name) && !callee {
		return p.Context + "." + name + "()"
	}

	return p.Context + "." + name
}

// Expression prints e.
func (p *Printer) Expression(e ir.Expression) {
	p.expr(e, precAssign)
}

// Fork returns a printer with the same settings writing to w. Helper usage
// is shared with the parent.
func (p *Printer) Fork(w *codewriter.Writer) *Printer {
	return &Printer{Context: p.Context, Meta: p.Meta, Skip: p.Skip, w: w, scope: p.scope, used: p.used}
}

// Sprint prints e to a string with the printer's settings.
func (p *Printer) Sprint(e ir.Expression) string {
	sub := p.Fork(codewriter.New())
	sub.Expression(e)

	return sub.w.String()
}

func precedence(e ir.Expression) int {
	switch e := e.(type) {
	case *ir.Binary:
		return binaryPrecedence(e.Op)
	case *ir.Conditional:
		return precCond
	case *ir.ArrowFunction, *ir.OtherExpr:
		return precAssign
	case *ir.Unary:
		switch {
		case e.Op == "...":
			return precAssign
		case e.Postfix:
			return precPost
		default:
			return precUnary
		}
	case *ir.Call, *ir.Member:
		return precMember
	default:
		return precAtom
	}
}

func (p *Printer) expr(e ir.Expression, min int) {
	if e == nil {
		return
	}

	if precedence(e) < min {
		p.w.Write("(")
		p.expr(e, precAssign)
		p.w.Write(")")

		return
	}

	switch e := e.(type) {
	case *ir.Identifier:
		p.w.WriteSpan(p.Resolve(e.Name, false), e.Loc)
	case *ir.Literal:
		p.w.WriteSpan(e.Value.JS(), e.Loc)
	case *ir.OtherExpr:
		p.w.WriteSpan(e.Raw, e.Loc)
	case *ir.Unary:
		p.unary(e)
	case *ir.Binary:
		p.binary(e)
	case *ir.Conditional:
		p.expr(e.Test, precCond+1)
		p.w.Write(" ? ")
		p.expr(e.Consequent, precAssign)
		p.w.Write(" : ")
		p.expr(e.Alternate, precAssign)
	case *ir.Call:
		p.callee(e.Callee)
		p.w.Write("(")
		p.list(e.Args)
		p.w.Write(")")
	case *ir.Member:
		p.member(e)
	case *ir.ArrayLiteral:
		p.w.Write("[")
		p.list(e.Elements)
		p.w.Write("]")
	case *ir.ObjectLiteral:
		p.object(e)
	case *ir.ArrowFunction:
		p.arrow(e)
	case *ir.ElementLiteral:
		p.element(e)
	case *ir.TemplateLiteral:
		p.template(e)
	}
}

func (p *Printer) template(e *ir.TemplateLiteral) {
	p.w.WriteSpan("`", e.Loc)

	for i, quasi := range e.Quasis {
		p.w.Write(quasi)

		if i < len(e.Expressions) {
			p.w.Write("${")
			p.expr(e.Expressions[i], precAssign)
			p.w.Write("}")
		}
	}

	p.w.Write("`")
}

func (p *Printer) list(items []ir.Expression) {
	for i, item := range items {
		if i > 0 {
			p.w.Write(", ")
		}

		p.expr(item, precAssign)
	}
}

// Callee prints e in call position: reactive identifiers are not invoked.
func (p *Printer) Callee(e ir.Expression) {
	p.callee(e)
}

func (p *Printer) callee(e ir.Expression) {
	if id, ok := e.(*ir.Identifier); ok {
		p.w.WriteSpan(p.Resolve(id.Name, true), id.Loc)
		return
	}

	p.expr(e, precMember)
}

var wordOperators = map[string]bool{"typeof": true, "void": true, "await": true, "delete": true, "new": true}

func (p *Printer) unary(e *ir.Unary) {
	if e.Postfix {
		p.expr(e.Argument, precPost)
		p.w.WriteSpan(e.Op, e.Loc)

		return
	}

	p.w.WriteSpan(e.Op, e.Loc)

	switch {
	case wordOperators[e.Op]:
		p.w.Write(" ")
	case e.Op == "-" || e.Op == "+":
		// keep `- -a` from turning into a decrement
		if inner, ok := e.Argument.(*ir.Unary); ok && !inner.Postfix && inner.Op[0] == e.Op[0] {
			p.w.Write(" ")
		}
	}

	switch {
	case e.Op == "...":
		p.expr(e.Argument, precAssign)
	case e.Op == "new":
		p.expr(e.Argument, precMember)
	default:
		p.expr(e.Argument, precUnary)
	}
}

func isNullish(op string) bool { return op == "??" }

func isLogical(op string) bool { return op == "||" || op == "&&" }

func (p *Printer) binary(e *ir.Binary) {
	prec := binaryPrecedence(e.Op)

	leftMin, rightMin := prec, prec+1

	switch {
	case parserexpr.IsAssignment(e.Op):
		leftMin, rightMin = precMember, precAssign
	case e.Op == "**":
		// the base of ** cannot be a bare unary expression
		leftMin, rightMin = precPost, prec
	}

	p.operand(e.Left, e.Op, leftMin)
	p.w.Write(" " + e.Op + " ")
	p.operand(e.Right, e.Op, rightMin)
}

// operand prints a binary operand; `??` may not be mixed with `||` or `&&` unparenthesized.
func (p *Printer) operand(e ir.Expression, op string, min int) {
	if inner, ok := e.(*ir.Binary); ok {
		if (isNullish(op) && isLogical(inner.Op)) || (isLogical(op) && isNullish(inner.Op)) {
			p.w.Write("(")
			p.expr(e, precAssign)
			p.w.Write(")")

			return
		}
	}

	p.expr(e, min)
}

func (p *Printer) member(e *ir.Member) {
	p.expr(e.Object, precMember)

	if e.Optional {
		p.w.Write("?.")
	} else if !e.Computed {
		p.w.Write(".")
	}

	if !e.Computed {
		p.w.Write(e.Property)
		return
	}

	p.w.Write("[")

	if e.Index != nil {
		p.expr(e.Index, precAssign)
	} else {
		p.w.Write(e.Property)
	}

	p.w.Write("]")
}

func (p *Printer) object(e *ir.ObjectLiteral) {
	if len(e.Properties) == 0 {
		p.w.Write("{}")
		return
	}

	p.w.Write("{ ")

	for i, prop := range e.Properties {
		if i > 0 {
			p.w.Write(", ")
		}

		if prop.Key == "" {
			p.expr(prop.Value, precAssign)
			continue
		}

		if id, ok := prop.Value.(*ir.Identifier); ok && id.Name == prop.Key && p.Resolve(id.Name, false) == id.Name {
			p.w.WriteSpan(id.Name, id.Loc)
			continue
		}

		p.w.Write(ir.PropertyKey(prop.Key) + ": ")
		p.expr(prop.Value, precAssign)
	}

	p.w.Write(" }")
}

func (p *Printer) arrow(e *ir.ArrowFunction) {
	if e.Async {
		p.w.Write("async ")
	}

	if len(e.Params) == 1 && isPlainName(e.Params[0]) {
		p.w.Write(e.Params[0])
	} else {
		p.w.Write("(" + strings.Join(e.Params, ", ") + ")")
	}

	p.w.Write(" => ")

	p.scope.Push(ParamNames(e.Params)...)
	defer p.scope.Pop()

	if e.Body == nil {
		p.Block(e.Block)
		return
	}

	if _, isObject := e.Body.(*ir.ObjectLiteral); isObject {
		p.w.Write("(")
		p.expr(e.Body, precAssign)
		p.w.Write(")")

		return
	}

	p.expr(e.Body, precAssign)
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 && !isIdentStart(r) || i > 0 && !isIdentPart(r) {
			return false
		}
	}

	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r >= '0' && r <= '9'
}

// element lowers an element literal to h('tag', props, [children]).
// Capitalized tags refer to components and print as identifiers.
func (p *Printer) element(e *ir.ElementLiteral) {
	p.used[Hyperscript] = true

	p.w.WriteSpan(Hyperscript, e.Loc)
	p.w.Write("(")

	if isComponentTag(e.Tag) {
		p.w.Write(p.Resolve(e.Tag, true))
	} else {
		p.w.Write(ir.QuoteJS(e.Tag))
	}

	p.w.Write(", ")

	if len(e.Attributes) == 0 {
		p.w.Write("null")
	} else {
		p.w.Write("{ ")

		for i, a := range e.Attributes {
			if i > 0 {
				p.w.Write(", ")
			}

			p.w.WriteSpan(ir.PropertyKey(a.Name), a.Loc)
			p.w.Write(": ")

			if a.Value == nil {
				p.w.Write("true")
			} else {
				p.expr(a.Value, precAssign)
			}
		}

		p.w.Write(" }")
	}

	if len(e.Children) > 0 {
		p.w.Write(", [")
		p.list(e.Children)
		p.w.Write("]")
	}

	p.w.Write(")")
}

func isComponentTag(tag string) bool {
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

// Statements prints each statement on its own line.
func (p *Printer) Statements(stmts []ir.Statement) {
	for _, s := range stmts {
		p.Statement(s)
		p.w.Newline()
	}
}

// Block prints `{`, the statements one level deeper and `}` with its own
// scope for declarations.
func (p *Printer) Block(stmts []ir.Statement) {
	p.scope.Push()
	defer p.scope.Pop()

	p.w.Block("", func(*codewriter.Writer) {
		p.Statements(stmts)
	})
}

// Statement prints one statement without a trailing newline.
func (p *Printer) Statement(s ir.Statement) {
	switch s := s.(type) {
	case *ir.ExpressionStmt:
		p.expr(s.Expr, precAssign)
		p.w.Write(";")
	case *ir.VariableDecl:
		p.bindLocal(s.BoundNames()...)
		p.w.WriteSpan(s.Kind, s.Loc)
		p.w.Write(" " + s.Pattern)

		if s.Init != nil {
			p.w.Write(" = ")
			p.expr(s.Init, precAssign)
		}

		p.w.Write(";")
	case *ir.FunctionDecl:
		p.Function(s)
	case *ir.Import:
		p.w.WriteSpan(ImportText(s), s.Loc)
	case *ir.Export:
		p.w.WriteSpan("export ", s.Loc)

		if s.Default {
			p.w.Write("default ")
		}

		p.Statement(s.Declaration)
	case *ir.ExportAll:
		p.w.WriteSpan("export * from "+ir.QuoteJS(s.Source)+";", s.Loc)
	case *ir.ExportNamed:
		text := "export { " + strings.Join(s.Specifiers, ", ") + " }"
		if s.Source != "" {
			text += " from " + ir.QuoteJS(s.Source)
		}

		p.w.WriteSpan(text+";", s.Loc)
	case *ir.OtherStmt:
		p.w.WriteSpan(s.Raw, s.Loc)
	}
}

// Function prints a function declaration.
func (p *Printer) Function(f *ir.FunctionDecl) {
	p.bindLocal(f.Name)

	if f.Async {
		p.w.WriteSpan("async ", f.Loc)
		p.w.Write("function ")
	} else {
		p.w.WriteSpan("function ", f.Loc)
	}

	p.w.Write(f.Name + "(" + strings.Join(f.Params, ", ") + ") ")

	p.scope.Push(ParamNames(f.Params)...)
	defer p.scope.Pop()

	p.Block(f.Body)
}

// bindLocal records declarations made inside an expression body. Top-level
// script declarations are not locals, so nothing is bound outside a scope.
func (p *Printer) bindLocal(names ...string) {
	if len(p.scope.layers) > 0 {
		p.scope.Bind(names...)
	}
}

// ImportText renders an import statement.
func ImportText(s *ir.Import) string {
	var clauses []string

	if s.Default != "" {
		clauses = append(clauses, s.Default)
	}

	if s.Namespace != "" {
		clauses = append(clauses, "* as "+s.Namespace)
	}

	if len(s.Specifiers) > 0 {
		clauses = append(clauses, "{ "+strings.Join(s.Specifiers, ", ")+" }")
	}

	if len(clauses) == 0 {
		return "import " + ir.QuoteJS(s.Source) + ";"
	}

	return "import " + strings.Join(clauses, ", ") + " from " + ir.QuoteJS(s.Source) + ";"
}
