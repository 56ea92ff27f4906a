package parserexpr

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// UnaryPrecedence is the binding power of prefix operators.
const UnaryPrecedence = 13

const memberPrecedence = 14

// The conditional operator sits between assignment and `||`; it is parsed
// whenever the caller accepts anything looser than `||`.
const conditionalPrecedence = 2

const exponentPrecedence = 12

var binaryPrecedence = map[string]int{
	"=": 1, "+=": 1, "-=": 1, "*=": 1, "/=": 1, "%=": 1, "**=": 1,
	"&=": 1, "|=": 1, "^=": 1, "<<=": 1, ">>=": 1, ">>>=": 1, "&&=": 1, "||=": 1, "??=": 1,
	"||": 2, "??": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "in": 8, "instanceof": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": exponentPrecedence,
	"?":  conditionalPrecedence,
	".": memberPrecedence, "?.": memberPrecedence, "(": memberPrecedence, "[": memberPrecedence, "=>": memberPrecedence,
	"++": memberPrecedence, "--": memberPrecedence,
}

// Longest first so that "===" wins over "==" and "=".
var operators = []string{
	">>>=",
	"===", "!==", ">>>", "**=", "<<=", ">>=", "&&=", "||=", "??=",
	"==", "!=", "<=", ">=", "&&", "||", "??", "?.", "=>", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"++", "--", "**", "<<", ">>",
	"+", "-", "*", "/", "%", "&", "|", "^", ".", "(", "[", "=", "<", ">", "?",
}

// Binary operators spelled as words; they must not run into an identifier.
var wordBinaryOperators = []string{"instanceof", "in"}

var wordOperators = []string{"typeof", "void", "await", "delete", "new"}

// Precedence returns the binding power of a binary operator, 0 when op is not one.
func Precedence(op string) int {
	return binaryPrecedence[op]
}

// IsAssignment reports whether op is right-associative assignment.
func IsAssignment(op string) bool {
	return Precedence(op) == 1
}

func (p *parser) expression(minPrecedence int) (ir.Expression, error) {
	p.skipTrivia()

	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		m := p.c.Mark()
		p.skipTrivia()

		op := p.peekOperator()

		prec := binaryPrecedence[op]
		if op == "?" && minPrecedence < conditionalPrecedence {
			prec = minPrecedence + 1
		}

		if op == "" || prec <= minPrecedence {
			p.c.Reset(m)
			return left, nil
		}

		left, err = p.infix(left, op, prec)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) peekOperator() string {
	for _, op := range wordBinaryOperators {
		if p.keyword(op) {
			return op
		}
	}

	for _, op := range operators {
		if p.c.HasPrefix(op) {
			return op
		}
	}

	return ""
}

// prefix is the null denotation: literals, identifiers, groups and prefix operators.
func (p *parser) prefix() (ir.Expression, error) {
	start := p.c.Position()
	r := p.c.Peek()

	switch {
	case p.c.HasPrefix("..."):
		p.c.ConsumeN(3)

		arg, err := p.expression(1)
		if err != nil {
			return nil, err
		}

		return &ir.Unary{Op: "...", Argument: arg, Loc: p.c.SpanFrom(start)}, nil
	case p.c.HasPrefix("++"), p.c.HasPrefix("--"):
		op := p.c.Rest()[:2]
		p.c.ConsumeN(2)

		return p.unary(op, start, UnaryPrecedence)
	case r == '!' || r == '-' || r == '+' || r == '~':
		p.c.Next()
		return p.unary(string(r), start, UnaryPrecedence)
	case unicode.IsDigit(r):
		return p.number()
	case r == '"' || r == '\'':
		s, err := p.c.QuotedString()
		if err != nil {
			return nil, err
		}

		return &ir.Literal{Value: ir.String(s), Loc: p.c.SpanFrom(start)}, nil
	case r == '`':
		return p.templateLiteral()
	case r == '(':
		if arrow, ok, err := p.parenArrow(start, false); ok || err != nil {
			return arrow, err
		}

		p.c.Next()

		e, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		p.skipTrivia()

		if err := p.c.Expect(')'); err != nil {
			return nil, err
		}

		return e, nil
	case r == '[':
		return p.array()
	case r == '{':
		return p.object()
	case r == '<':
		if !unicode.IsLetter(p.c.PeekN(1)) {
			return nil, scanner.UnexpectedChar(r, p.c.SpanAtCurrent())
		}

		return p.element()
	case scanner.IsIdentStart(r):
		return p.identifierOrKeyword(start)
	}

	return nil, scanner.UnexpectedChar(r, p.c.SpanAtCurrent())
}

func (p *parser) unary(op string, start scanner.Position, prec int) (ir.Expression, error) {
	arg, err := p.expression(prec)
	if err != nil {
		return nil, err
	}

	return &ir.Unary{Op: op, Argument: arg, Loc: p.c.SpanFrom(start)}, nil
}

// identifierOrKeyword handles keywords that start an expression, then plain identifiers.
func (p *parser) identifierOrKeyword(start scanner.Position) (ir.Expression, error) {
	switch {
	case p.keyword("true"):
		p.c.ConsumeN(4)
		return &ir.Literal{Value: ir.Bool(true), Loc: p.c.SpanFrom(start)}, nil
	case p.keyword("false"):
		p.c.ConsumeN(5)
		return &ir.Literal{Value: ir.Bool(false), Loc: p.c.SpanFrom(start)}, nil
	case p.keyword("null"):
		p.c.ConsumeN(4)
		return &ir.Literal{Value: ir.Null(), Loc: p.c.SpanFrom(start)}, nil
	case p.keyword("async"):
		m := p.c.Mark()
		p.c.ConsumeN(5)
		p.skipTrivia()

		if p.c.Peek() == '(' {
			if arrow, ok, err := p.parenArrow(start, true); ok || err != nil {
				return arrow, err
			}
		}

		p.c.Reset(m)
	}

	for _, op := range wordOperators {
		if p.keyword(op) {
			p.c.ConsumeN(len(op))

			prec := UnaryPrecedence
			if op == "new" {
				prec = memberPrecedence - 1
			}

			return p.unary(op, start, prec)
		}
	}

	name, err := p.c.Ident()
	if err != nil {
		return nil, err
	}

	return &ir.Identifier{Name: name, Loc: p.c.SpanFrom(start)}, nil
}

// number scans a numeric literal. Digits, `_` separators, fractions and
// exponents are decimal; 0x/0o/0b prefixes are integers.
func (p *parser) number() (ir.Expression, error) {
	start := p.c.Position()
	from := p.c.Offset()

	if p.c.Peek() == '0' && strings.ContainsRune("xXoObB", p.c.PeekN(1)) {
		p.c.ConsumeN(2)
		p.c.ConsumeWhile(isHexDigit)

		raw := p.c.Slice(from)

		n, err := strconv.ParseInt(strings.ReplaceAll(raw, "_", ""), 0, 64)
		if err != nil {
			return nil, scanner.ParseFloat(raw, p.c.SpanFrom(start))
		}

		return &ir.Literal{Value: ir.Int(n), Loc: p.c.SpanFrom(start)}, nil
	}

	for {
		r := p.c.Peek()

		switch {
		case unicode.IsDigit(r) || r == '_':
			p.c.Next()
		case r == '.' && unicode.IsDigit(p.c.PeekN(1)):
			p.c.Next()
		case (r == 'e' || r == 'E') && (unicode.IsDigit(p.c.PeekN(1)) || isSign(p.c.PeekN(1)) && unicode.IsDigit(p.c.PeekN(2))):
			p.c.ConsumeN(2)
		default:
			raw := p.c.Slice(from)

			d, err := decimal.NewFromString(strings.ReplaceAll(raw, "_", ""))
			if err != nil {
				return nil, scanner.ParseFloat(raw, p.c.SpanFrom(start))
			}

			return &ir.Literal{Value: ir.Number(d), Loc: p.c.SpanFrom(start)}, nil
		}
	}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || r == '_' || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isSign(r rune) bool {
	return r == '+' || r == '-'
}

// parenArrow tries `(a, b) => body`. ok is false, with the cursor restored,
// when the group is not an arrow parameter list.
func (p *parser) parenArrow(start scanner.Position, async bool) (ir.Expression, bool, error) {
	m := p.c.Mark()
	p.c.Next()

	var params []string

	for {
		p.skipTrivia()

		if p.c.Consume(")") {
			break
		}

		rest := p.c.Consume("...")

		name, err := p.c.Ident()
		if err != nil {
			p.c.Reset(m)
			return nil, false, nil
		}

		if rest {
			name = "..." + name
		}

		params = append(params, name)

		p.skipTrivia()

		if !p.c.Consume(",") && p.c.Peek() != ')' {
			p.c.Reset(m)
			return nil, false, nil
		}
	}

	p.skipTrivia()

	if !p.c.Consume("=>") {
		p.c.Reset(m)
		return nil, false, nil
	}

	arrow, err := p.arrowBody(params, start, async)

	return arrow, true, err
}

func (p *parser) arrowBody(params []string, start scanner.Position, async bool) (ir.Expression, error) {
	p.skipTrivia()

	arrow := &ir.ArrowFunction{Async: async, Params: params}

	if p.c.Peek() == '{' {
		block, err := p.block()
		if err != nil {
			return nil, err
		}

		arrow.Block = block
	} else {
		body, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		arrow.Body = body
	}

	arrow.Loc = p.c.SpanFrom(start)

	return arrow, nil
}

// infix is the left denotation for op, already identified at the cursor.
func (p *parser) infix(left ir.Expression, op string, prec int) (ir.Expression, error) {
	start := left.Span().Start

	switch op {
	case ".", "?.":
		p.c.ConsumeN(len(op))
		p.skipTrivia()

		name, err := p.c.Ident()
		if err != nil {
			return nil, err
		}

		return &ir.Member{Object: left, Property: name, Optional: op == "?.", Loc: p.c.SpanFrom(start)}, nil
	case "?":
		return p.conditional(left)
	case "[":
		p.c.Next()

		index, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		p.skipTrivia()

		if err := p.c.Expect(']'); err != nil {
			return nil, err
		}

		return &ir.Member{Object: left, Property: propertyText(index), Computed: true, Index: index, Loc: p.c.SpanFrom(start)}, nil
	case "(":
		p.c.Next()

		args, err := p.list(')')
		if err != nil {
			return nil, err
		}

		return &ir.Call{Callee: left, Args: args, Loc: p.c.SpanFrom(start)}, nil
	case "=>":
		id, ok := left.(*ir.Identifier)
		if !ok {
			return nil, scanner.NewParseError("invalid arrow function parameters", left.Span())
		}

		p.c.ConsumeN(2)

		return p.arrowBody([]string{id.Name}, start, false)
	case "++", "--":
		p.c.ConsumeN(2)
		return &ir.Unary{Op: op, Argument: left, Postfix: true, Loc: p.c.SpanFrom(start)}, nil
	}

	p.c.ConsumeN(len(op))

	next := prec
	if IsAssignment(op) || op == "**" {
		next = prec - 1
	}

	right, err := p.expression(next)
	if err != nil {
		return nil, err
	}

	return &ir.Binary{Left: left, Op: op, Right: right, Loc: p.c.SpanFrom(start)}, nil
}

// templateLiteral parses a backquoted string. The text between substitutions
// is kept raw, escapes included.
func (p *parser) templateLiteral() (ir.Expression, error) {
	start := p.c.Position()
	p.c.Next()

	tl := &ir.TemplateLiteral{}
	from := p.c.Offset()

	for {
		switch {
		case p.c.EOF():
			return nil, p.c.Expect('`')
		case p.c.Peek() == '\\':
			p.c.ConsumeN(2)
		case p.c.Peek() == '`':
			tl.Quasis = append(tl.Quasis, p.c.Slice(from))
			p.c.Next()
			tl.Loc = p.c.SpanFrom(start)

			return tl, nil
		case p.c.HasPrefix("${"):
			tl.Quasis = append(tl.Quasis, p.c.Slice(from))
			p.c.ConsumeN(2)

			e, err := p.expression(0)
			if err != nil {
				return nil, err
			}

			p.skipTrivia()

			if err := p.c.Expect('}'); err != nil {
				return nil, err
			}

			tl.Expressions = append(tl.Expressions, e)
			from = p.c.Offset()
		default:
			p.c.Next()
		}
	}
}

func (p *parser) conditional(test ir.Expression) (ir.Expression, error) {
	p.c.Next()

	consequent, err := p.expression(0)
	if err != nil {
		return nil, err
	}

	p.skipTrivia()

	if err := p.c.Expect(':'); err != nil {
		return nil, err
	}

	alternate, err := p.expression(conditionalPrecedence - 1)
	if err != nil {
		return nil, err
	}

	return &ir.Conditional{Test: test, Consequent: consequent, Alternate: alternate, Loc: p.c.SpanFrom(test.Span().Start)}, nil
}

func propertyText(e ir.Expression) string {
	switch n := e.(type) {
	case *ir.Identifier:
		return n.Name
	case *ir.Literal:
		if s, ok := n.Value.AsString(); ok {
			return s
		}

		return n.Value.JS()
	}

	return ""
}

// list parses comma separated expressions up to the closing rune.
func (p *parser) list(closer rune) ([]ir.Expression, error) {
	var items []ir.Expression

	for {
		p.skipTrivia()

		if p.c.Consume(string(closer)) {
			return items, nil
		}

		e, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		items = append(items, e)

		p.skipTrivia()

		if p.c.Consume(",") {
			continue
		}

		if p.c.Peek() != closer {
			return nil, scanner.ExpectedOneOf([]string{",", string(closer)}, string(p.c.Peek()), p.c.SpanAtCurrent())
		}
	}
}

func (p *parser) array() (ir.Expression, error) {
	start := p.c.Position()
	p.c.Next()

	items, err := p.list(']')
	if err != nil {
		return nil, err
	}

	return &ir.ArrayLiteral{Elements: items, Loc: p.c.SpanFrom(start)}, nil
}

func (p *parser) object() (ir.Expression, error) {
	start := p.c.Position()
	p.c.Next()

	obj := &ir.ObjectLiteral{}

	for {
		p.skipTrivia()

		if p.c.Consume("}") {
			obj.Loc = p.c.SpanFrom(start)
			return obj, nil
		}

		prop, err := p.property()
		if err != nil {
			return nil, err
		}

		obj.Properties = append(obj.Properties, prop)

		p.skipTrivia()

		if p.c.Consume(",") {
			continue
		}

		if p.c.Peek() != '}' {
			return nil, scanner.ExpectedOneOf([]string{",", "}"}, string(p.c.Peek()), p.c.SpanAtCurrent())
		}
	}
}

func (p *parser) property() (ir.Property, error) {
	start := p.c.Position()
	r := p.c.Peek()

	var (
		key   string
		ident bool
		err   error
	)

	switch {
	case p.c.HasPrefix("..."):
		p.c.ConsumeN(3)

		arg, err := p.expression(1)
		if err != nil {
			return ir.Property{}, err
		}

		return ir.Property{Value: &ir.Unary{Op: "...", Argument: arg, Loc: p.c.SpanFrom(start)}}, nil
	case r == '"' || r == '\'':
		key, err = p.c.QuotedString()
	case unicode.IsDigit(r):
		key = p.c.ConsumeWhile(unicode.IsDigit)
	case r == '[':
		return ir.Property{}, scanner.NotImplemented("computed object keys", p.c.SpanAtCurrent())
	default:
		key, err = p.c.Ident()
		ident = true
	}

	if err != nil {
		return ir.Property{}, err
	}

	p.skipTrivia()

	switch {
	case p.c.Consume(":"):
		value, err := p.expression(0)
		if err != nil {
			return ir.Property{}, err
		}

		return ir.Property{Key: key, Value: value}, nil
	case p.c.Peek() == '(':
		return ir.Property{}, scanner.NotImplemented("object methods", p.c.SpanAtCurrent())
	case ident:
		return ir.Property{Key: key, Value: &ir.Identifier{Name: key, Loc: p.c.SpanFrom(start)}}, nil
	}

	return ir.Property{}, scanner.ExpectedChar(':', p.c.Peek(), p.c.SpanAtCurrent())
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == ':'
}

// element parses an element literal: <tag attr="v" attr={expr}>text{expr}<child/></tag>.
func (p *parser) element() (ir.Expression, error) {
	start := p.c.Position()
	p.c.Next()

	el := &ir.ElementLiteral{Tag: p.c.ConsumeWhile(isTagRune)}

	for {
		p.c.SkipWhitespace()

		if p.c.EOF() || p.c.Peek() == '>' || p.c.HasPrefix("/>") {
			break
		}

		attr, err := p.elementAttribute()
		if err != nil {
			return nil, err
		}

		el.Attributes = append(el.Attributes, attr)
	}

	if p.c.Consume("/>") {
		el.Loc = p.c.SpanFrom(start)
		return el, nil
	}

	if err := p.c.Expect('>'); err != nil {
		return nil, err
	}

	for !p.c.EOF() && !p.c.HasPrefix("</") {
		childStart := p.c.Position()

		switch p.c.Peek() {
		case '{':
			p.c.Next()

			e, err := p.expression(0)
			if err != nil {
				return nil, err
			}

			p.skipTrivia()

			if err := p.c.Expect('}'); err != nil {
				return nil, err
			}

			el.Children = append(el.Children, e)
		case '<':
			child, err := p.element()
			if err != nil {
				return nil, err
			}

			el.Children = append(el.Children, child)
		default:
			text := p.c.ConsumeWhile(func(r rune) bool { return r != '<' && r != '{' })
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				el.Children = append(el.Children, &ir.Literal{Value: ir.String(trimmed), Loc: p.c.SpanFrom(childStart)})
			}
		}
	}

	if err := p.c.ExpectString("</"); err != nil {
		return nil, err
	}

	closeStart := p.c.Position()

	if closing := p.c.ConsumeWhile(isTagRune); closing != el.Tag {
		return nil, scanner.ExpectedClosingTag(el.Tag, closing, p.c.SpanFrom(closeStart))
	}

	p.c.SkipWhitespace()

	if err := p.c.Expect('>'); err != nil {
		return nil, err
	}

	el.Loc = p.c.SpanFrom(start)

	return el, nil
}

func (p *parser) elementAttribute() (ir.ElementAttribute, error) {
	start := p.c.Position()

	name := p.c.ConsumeWhile(func(r rune) bool {
		return !unicode.IsSpace(r) && r != '=' && r != '>' && r != '/'
	})
	if name == "" {
		return ir.ElementAttribute{}, scanner.UnexpectedChar(p.c.Peek(), p.c.SpanAtCurrent())
	}

	attr := ir.ElementAttribute{Name: name}

	p.c.SkipWhitespace()

	if p.c.Consume("=") {
		p.c.SkipWhitespace()

		valueStart := p.c.Position()

		switch p.c.Peek() {
		case '{':
			p.c.Next()

			e, err := p.expression(0)
			if err != nil {
				return attr, err
			}

			p.skipTrivia()

			if err := p.c.Expect('}'); err != nil {
				return attr, err
			}

			attr.Value = e
		default:
			s, err := p.c.AttributeValue()
			if err != nil {
				return attr, err
			}

			attr.Value = &ir.Literal{Value: ir.String(s), Loc: p.c.SpanFrom(valueStart)}
		}
	}

	attr.Loc = p.c.SpanFrom(start)

	return attr, nil
}
