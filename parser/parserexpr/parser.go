// Package parserexpr parses component script and template expressions into
// the ir statement and expression trees.
//
// The grammar is a pragmatic subset: declarations, imports and exports are
// modeled precisely, expressions use precedence climbing and anything else is
// captured verbatim as ir.OtherStmt so a script never fails on constructs the
// compiler does not need to understand.
package parserexpr

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// Parser implements the script sub-parser for the registry.
type Parser struct{}

// ParseScript parses a script block starting at start in the component source.
func (Parser) ParseScript(src string, start scanner.Position, _ string) (*ir.Program, error) {
	return ParseProgramAt(src, start)
}

// ParseProgram parses src as a sequence of statements.
func ParseProgram(src string) (*ir.Program, error) {
	return ParseProgramAt(src, scanner.Position{})
}

// ParseProgramAt parses src whose first rune is located at start.
func ParseProgramAt(src string, start scanner.Position) (*ir.Program, error) {
	p := &parser{c: scanner.NewAt(src, start)}
	return p.program()
}

// ParseExpression parses src as a single expression. Trailing input is an error.
func ParseExpression(src string) (ir.Expression, error) {
	return ParseExpressionAt(src, scanner.Position{})
}

// ParseExpressionAt parses a single expression whose first rune is located at start.
func ParseExpressionAt(src string, start scanner.Position) (ir.Expression, error) {
	p := &parser{c: scanner.NewAt(src, start)}

	p.skipTrivia()

	e, err := p.expression(0)
	if err != nil {
		return nil, err
	}

	p.skipTrivia()

	if !p.c.EOF() {
		return nil, scanner.TrailingContent(p.c.SpanAtCurrent())
	}

	return e, nil
}

type parser struct {
	c *scanner.Cursor
}

// Words that always start an opaque statement.
var opaqueKeywords = []string{
	"if", "for", "while", "do", "switch", "try", "return", "throw",
	"class", "break", "continue", "debugger", "with",
}

func (p *parser) program() (*ir.Program, error) {
	start := p.c.Position()

	var body []ir.Statement

	for {
		p.skipTrivia()

		if p.c.EOF() {
			break
		}

		stmt, err := p.topLevelStatement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	return &ir.Program{Body: body, Loc: p.c.SpanFrom(start)}, nil
}

func (p *parser) topLevelStatement() (ir.Statement, error) {
	switch {
	case p.keyword("import") && !p.peekAfter("import", '('):
		return p.importStatement()
	case p.keyword("export"):
		return p.exportStatement()
	}

	return p.statement()
}

// statement parses declarations, expression statements and opaque statements.
func (p *parser) statement() (ir.Statement, error) {
	switch {
	case p.keyword("const"), p.keyword("let"), p.keyword("var"):
		return p.variableDecl()
	case p.keyword("function"), p.keyword("async") && p.peekAfter("async", 'f'):
		return p.functionDecl()
	}

	for _, kw := range opaqueKeywords {
		if p.keyword(kw) {
			return p.opaqueStatement()
		}
	}

	r := p.c.Peek()
	if looksLikeExpression(r) {
		start := p.c.Position()

		e, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		p.endStatement()

		return &ir.ExpressionStmt{Expr: e, Loc: p.c.SpanFrom(start)}, nil
	}

	return p.opaqueStatement()
}

func looksLikeExpression(r rune) bool {
	return scanner.IsIdentStart(r) || unicode.IsDigit(r) || strings.ContainsRune("([{\"'`<!-+", r)
}

// opaqueStatement captures text up to `;` or a balanced brace group.
// A closed group followed by else/catch/finally keeps the capture going.
func (p *parser) opaqueStatement() (ir.Statement, error) {
	start := p.c.Position()
	from := p.c.Offset()
	depth := 0

loop:
	for !p.c.EOF() {
		switch r := p.c.Peek(); r {
		case '"', '\'', '`':
			p.skipStringLiteral(r)
			continue
		case '/':
			if p.c.HasPrefix("//") || p.c.HasPrefix("/*") {
				p.skipTrivia()
				continue
			}
		case '{', '(', '[':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				break loop
			}

			depth--

			if depth == 0 {
				p.c.Next()

				m := p.c.Mark()
				p.skipTrivia()

				if p.keyword("else") || p.keyword("catch") || p.keyword("finally") {
					continue
				}

				p.c.Reset(m)

				break loop
			}
		case ';':
			if depth == 0 {
				p.c.Next()
				break loop
			}
		}

		p.c.Next()
	}

	if p.c.Offset() == from {
		return nil, scanner.UnexpectedChar(p.c.Peek(), p.c.SpanAtCurrent())
	}

	return &ir.OtherStmt{Raw: strings.TrimSpace(p.c.Slice(from)), Loc: p.c.SpanFrom(start)}, nil
}

func (p *parser) endStatement() {
	m := p.c.Mark()
	p.skipTrivia()

	if !p.c.Consume(";") {
		p.c.Reset(m)
	}
}

func (p *parser) importStatement() (ir.Statement, error) {
	start := p.c.Position()
	p.c.Consume("import")
	p.skipTrivia()

	stmt := &ir.Import{}

	if r := p.c.Peek(); r == '"' || r == '\'' {
		src, err := p.c.QuotedString()
		if err != nil {
			return nil, err
		}

		stmt.Source = src
		p.endStatement()
		stmt.Loc = p.c.SpanFrom(start)

		return stmt, nil
	}

	for {
		p.skipTrivia()

		switch {
		case p.c.Peek() == '{':
			specs, err := p.specifierList()
			if err != nil {
				return nil, err
			}

			stmt.Specifiers = specs
		case p.c.Consume("*"):
			p.skipTrivia()

			if err := p.c.ExpectString("as"); err != nil {
				return nil, err
			}

			p.skipTrivia()

			name, err := p.c.Ident()
			if err != nil {
				return nil, err
			}

			stmt.Namespace = name
		default:
			name, err := p.c.Ident()
			if err != nil {
				return nil, err
			}

			stmt.Default = name
		}

		p.skipTrivia()

		if !p.c.Consume(",") {
			break
		}
	}

	if err := p.c.ExpectString("from"); err != nil {
		return nil, err
	}

	p.skipTrivia()

	src, err := p.c.QuotedString()
	if err != nil {
		return nil, err
	}

	stmt.Source = src
	p.endStatement()
	stmt.Loc = p.c.SpanFrom(start)

	return stmt, nil
}

// specifierList parses `{ a, b as c }` keeping each entry as written.
func (p *parser) specifierList() ([]string, error) {
	if err := p.c.Expect('{'); err != nil {
		return nil, err
	}

	var specs []string

	for {
		p.skipTrivia()

		if p.c.Consume("}") {
			return specs, nil
		}

		name, err := p.c.Ident()
		if err != nil {
			return nil, err
		}

		p.skipTrivia()

		if p.keyword("as") {
			p.c.Consume("as")
			p.skipTrivia()

			alias, err := p.c.Ident()
			if err != nil {
				return nil, err
			}

			name += " as " + alias
			p.skipTrivia()
		}

		specs = append(specs, name)

		if p.c.Consume(",") {
			continue
		}

		p.skipTrivia()

		if p.c.Peek() != '}' {
			return nil, scanner.ExpectedOneOf([]string{",", "}"}, string(p.c.Peek()), p.c.SpanAtCurrent())
		}
	}
}

func (p *parser) exportStatement() (ir.Statement, error) {
	start := p.c.Position()
	p.c.Consume("export")
	p.skipTrivia()

	switch {
	case p.keyword("default"):
		p.c.Consume("default")
		p.skipTrivia()

		var (
			decl ir.Statement
			err  error
		)

		if p.keyword("function") || p.keyword("async") && p.peekAfter("async", 'f') {
			decl, err = p.functionDecl()
		} else {
			exprStart := p.c.Position()

			var e ir.Expression

			e, err = p.expression(0)
			if err == nil {
				p.endStatement()
				decl = &ir.ExpressionStmt{Expr: e, Loc: p.c.SpanFrom(exprStart)}
			}
		}

		if err != nil {
			return nil, err
		}

		return &ir.Export{Declaration: decl, Default: true, Loc: p.c.SpanFrom(start)}, nil
	case p.c.Consume("*"):
		p.skipTrivia()

		if err := p.c.ExpectString("from"); err != nil {
			return nil, err
		}

		p.skipTrivia()

		src, err := p.c.QuotedString()
		if err != nil {
			return nil, err
		}

		p.endStatement()

		return &ir.ExportAll{Source: src, Loc: p.c.SpanFrom(start)}, nil
	case p.c.Peek() == '{':
		specs, err := p.specifierList()
		if err != nil {
			return nil, err
		}

		stmt := &ir.ExportNamed{Specifiers: specs}

		m := p.c.Mark()
		p.skipTrivia()

		if p.keyword("from") {
			p.c.Consume("from")
			p.skipTrivia()

			src, err := p.c.QuotedString()
			if err != nil {
				return nil, err
			}

			stmt.Source = src
		} else {
			p.c.Reset(m)
		}

		p.endStatement()
		stmt.Loc = p.c.SpanFrom(start)

		return stmt, nil
	case p.keyword("const"), p.keyword("let"), p.keyword("var"):
		decl, err := p.variableDecl()
		if err != nil {
			return nil, err
		}

		return &ir.Export{Declaration: decl, Loc: p.c.SpanFrom(start)}, nil
	case p.keyword("function"), p.keyword("async") && p.peekAfter("async", 'f'):
		decl, err := p.functionDecl()
		if err != nil {
			return nil, err
		}

		return &ir.Export{Declaration: decl, Loc: p.c.SpanFrom(start)}, nil
	default:
		return nil, scanner.ExpectedOneOf([]string{"default", "*", "{", "const", "let", "var", "function"}, p.word(), p.c.SpanAtCurrent())
	}
}

func (p *parser) variableDecl() (ir.Statement, error) {
	start := p.c.Position()
	kind := p.word()
	p.c.Consume(kind)
	p.skipTrivia()

	var pattern string

	switch p.c.Peek() {
	case '[', '{':
		from := p.c.Offset()
		if err := p.balanced(); err != nil {
			return nil, err
		}

		pattern = p.c.Slice(from)
	default:
		name, err := p.c.Ident()
		if err != nil {
			return nil, err
		}

		pattern = name
	}

	decl := &ir.VariableDecl{Kind: kind, Pattern: pattern}

	m := p.c.Mark()
	p.skipTrivia()

	if p.c.Peek() == '=' && p.c.PeekN(1) != '=' {
		p.c.Next()
		p.skipTrivia()

		init, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		decl.Init = init
	} else {
		p.c.Reset(m)
	}

	p.endStatement()
	decl.Loc = p.c.SpanFrom(start)

	return decl, nil
}

func (p *parser) functionDecl() (ir.Statement, error) {
	start := p.c.Position()
	decl := &ir.FunctionDecl{}

	if p.keyword("async") {
		p.c.Consume("async")
		p.skipTrivia()

		decl.Async = true
	}

	if err := p.c.ExpectString("function"); err != nil {
		return nil, err
	}

	p.skipTrivia()
	p.c.Consume("*")
	p.skipTrivia()

	if scanner.IsIdentStart(p.c.Peek()) {
		decl.Name, _ = p.c.Ident()
		p.skipTrivia()
	}

	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}

	decl.Params = params
	p.skipTrivia()

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	decl.Body = body
	decl.Loc = p.c.SpanFrom(start)

	return decl, nil
}

// parameterList parses `(a, b = 1, ...rest)` keeping each parameter as written.
func (p *parser) parameterList() ([]string, error) {
	if err := p.c.Expect('('); err != nil {
		return nil, err
	}

	var params []string

	for {
		p.skipTrivia()

		if p.c.Consume(")") {
			return params, nil
		}

		if p.c.EOF() {
			return nil, scanner.ExpectedChar(')', 0, p.c.SpanAtCurrent())
		}

		from := p.c.Offset()
		depth := 0

		for !p.c.EOF() {
			r := p.c.Peek()
			if depth == 0 && (r == ',' || r == ')') {
				break
			}

			switch r {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			case '"', '\'', '`':
				p.skipStringLiteral(r)
				continue
			}

			p.c.Next()
		}

		params = append(params, strings.TrimSpace(p.c.Slice(from)))
		p.c.Consume(",")
	}
}

// block parses `{ statements }`.
func (p *parser) block() ([]ir.Statement, error) {
	if err := p.c.Expect('{'); err != nil {
		return nil, err
	}

	var body []ir.Statement

	for {
		p.skipTrivia()

		if p.c.Consume("}") {
			return body, nil
		}

		if p.c.EOF() {
			return nil, scanner.ExpectedChar('}', 0, p.c.SpanAtCurrent())
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}
}

// balanced consumes a bracket group starting at the current rune.
func (p *parser) balanced() error {
	open := p.c.Peek()
	start := p.c.SpanAtCurrent()
	depth := 0

	for !p.c.EOF() {
		r := p.c.Peek()

		switch r {
		case '"', '\'', '`':
			p.skipStringLiteral(r)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}

		p.c.Next()

		if depth == 0 {
			return nil
		}
	}

	return scanner.ExpectedChar(closing(open), 0, start)
}

func closing(r rune) rune {
	switch r {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

// skipStringLiteral consumes a quoted or template string without interpreting it.
func (p *parser) skipStringLiteral(quote rune) {
	p.c.Next()

	for !p.c.EOF() {
		r := p.c.Next()
		if r == '\\' {
			p.c.Next()
			continue
		}

		if r == quote {
			return
		}
	}
}

// skipTrivia skips whitespace and comments.
func (p *parser) skipTrivia() {
	for {
		p.c.SkipWhitespace()

		switch {
		case p.c.HasPrefix("//"):
			p.c.ConsumeWhile(func(r rune) bool { return r != '\n' })
		case p.c.HasPrefix("/*"):
			p.c.ConsumeN(2)

			for !p.c.EOF() && !p.c.HasPrefix("*/") {
				p.c.Next()
			}

			p.c.Consume("*/")
		default:
			return
		}
	}
}

// keyword reports whether the input starts with kw as a whole word.
func (p *parser) keyword(kw string) bool {
	if !p.c.HasPrefix(kw) {
		return false
	}

	rest := p.c.Rest()[len(kw):]
	if rest == "" {
		return true
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return !scanner.IsIdentPart(r)
}

// peekAfter reports whether the first non-space rune after word is r.
func (p *parser) peekAfter(word string, r rune) bool {
	rest := strings.TrimLeft(p.c.Rest()[len(word):], " \t\r\n")
	return rest != "" && rune(rest[0]) == r
}

// word returns the identifier at the cursor without consuming it.
func (p *parser) word() string {
	rest := p.c.Rest()
	end := strings.IndexFunc(rest, func(r rune) bool { return !scanner.IsIdentPart(r) })

	if end < 0 {
		return rest
	}

	return rest[:end]
}
