package parsertmpl

import (
	"strings"
	"unicode"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/parser/parserexpr"
	"github.com/shibukawa/hxo/scanner"
)

// Pug parses `<template lang="pug">` blocks: one node per line, nesting by
// indentation.
//
//	ul#menu.nav(:class="mode")
//	  li(@click="open(home)") {{ home.label }}
//	  li= footer
//	  | plain text
//	  // rendered comment
//	  //- dropped comment
type Pug struct{}

func (Pug) ParseTemplate(src string, start scanner.Position) ([]ir.TemplateNode, error) {
	return ParsePugAt(src, start)
}

// ParsePug parses a pug fragment.
func ParsePug(src string) ([]ir.TemplateNode, error) {
	return ParsePugAt(src, scanner.Position{})
}

// ParsePugAt parses a pug fragment whose first rune is located at start.
func ParsePugAt(src string, start scanner.Position) ([]ir.TemplateNode, error) {
	p := &pugParser{c: scanner.NewAt(src, start)}

	for !p.c.EOF() {
		indent := len(p.c.ConsumeWhile(func(r rune) bool { return r == ' ' || r == '\t' }))

		if !atLineEnd(p.c) {
			if err := p.line(indent); err != nil {
				return nil, err
			}
		}

		p.c.ConsumeWhile(func(r rune) bool { return r != '\n' })
		p.c.Consume("\n")
	}

	return p.roots, nil
}

type pugFrame struct {
	indent int
	el     *ir.Element
}

type pugParser struct {
	c     *scanner.Cursor
	roots []ir.TemplateNode
	stack []pugFrame
}

func atLineEnd(c *scanner.Cursor) bool {
	return c.EOF() || c.Peek() == '\n' || c.HasPrefix("\r\n")
}

func isPugNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// add attaches nodes to the nearest open element indented less than indent.
func (p *pugParser) add(indent int, nodes ...ir.TemplateNode) {
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].indent >= indent {
		p.stack = p.stack[:len(p.stack)-1]
	}

	if len(p.stack) == 0 {
		p.roots = append(p.roots, nodes...)
		return
	}

	parent := p.stack[len(p.stack)-1].el
	parent.Children = append(parent.Children, nodes...)
}

func (p *pugParser) line(indent int) error {
	switch {
	case p.c.HasPrefix("//-"):
		return nil
	case p.c.HasPrefix("//"):
		start := p.c.Position()
		p.c.ConsumeN(2)
		content := strings.TrimRight(p.restOfLine(), "\r")
		p.add(indent, &ir.Comment{Content: content, Loc: p.c.SpanFrom(start)})

		return nil
	case p.c.HasPrefix("|"):
		p.c.Next()
		p.c.Consume(" ")

		nodes, err := p.inline()
		if err != nil {
			return err
		}

		p.add(indent, nodes...)

		return nil
	case p.c.Peek() == '#' || p.c.Peek() == '.' || unicode.IsLetter(p.c.Peek()):
		el, err := p.element()
		if err != nil {
			return err
		}

		p.add(indent, el)
		p.stack = append(p.stack, pugFrame{indent: indent, el: el})

		return nil
	default:
		nodes, err := p.inline()
		if err != nil {
			return err
		}

		p.add(indent, nodes...)

		return nil
	}
}

func (p *pugParser) restOfLine() string {
	return p.c.ConsumeWhile(func(r rune) bool { return r != '\n' })
}

// inline parses the rest of the line as template markup.
func (p *pugParser) inline() ([]ir.TemplateNode, error) {
	start := p.c.Position()

	text := strings.TrimRight(p.restOfLine(), "\r")
	if text == "" {
		return nil, nil
	}

	return ParseAt(text, start)
}

func (p *pugParser) element() (*ir.Element, error) {
	start := p.c.Position()

	tag := p.c.ConsumeWhile(isPugNameRune)
	if tag == "" {
		tag = "div"
	}

	el := &ir.Element{Tag: tag}

	var (
		classes  []string
		classPos scanner.Position
	)

	for p.c.Peek() == '#' || p.c.Peek() == '.' {
		shorthandStart := p.c.Position()
		sigil := p.c.Next()

		name := p.c.ConsumeWhile(isPugNameRune)
		if name == "" {
			return nil, scanner.UnexpectedChar(p.c.Peek(), p.c.SpanAtCurrent())
		}

		if sigil == '#' {
			el.Attributes = append(el.Attributes, ir.NewAttribute("id", &name, p.c.SpanFrom(shorthandStart)))
			continue
		}

		if classes == nil {
			classPos = shorthandStart
		}

		classes = append(classes, name)
	}

	if classes != nil {
		value := strings.Join(classes, " ")
		el.Attributes = append(el.Attributes, ir.NewAttribute("class", &value, scanner.Span{Start: classPos, End: p.c.Position()}))
	}

	if p.c.Peek() == '(' {
		attrs, err := p.attributes()
		if err != nil {
			return nil, err
		}

		el.Attributes = append(el.Attributes, attrs...)
	}

	switch {
	case p.c.Peek() == '=':
		p.c.Next()

		n, err := p.bufferedCode()
		if err != nil {
			return nil, err
		}

		if n != nil {
			el.Children = append(el.Children, n)
		}
	case p.c.Peek() == ' ' || p.c.Peek() == '\t':
		p.c.Next()

		children, err := p.inline()
		if err != nil {
			return nil, err
		}

		el.Children = append(el.Children, children...)
	case !atLineEnd(p.c):
		return nil, scanner.UnexpectedChar(p.c.Peek(), p.c.SpanAtCurrent())
	}

	el.Loc = p.c.SpanFrom(start)

	return el, nil
}

// bufferedCode turns `tag= expr` into an interpolation of expr.
func (p *pugParser) bufferedCode() (ir.TemplateNode, error) {
	p.c.ConsumeWhile(func(r rune) bool { return r == ' ' || r == '\t' })

	start := p.c.Position()

	code := strings.TrimRightFunc(p.restOfLine(), unicode.IsSpace)
	if code == "" {
		return nil, nil
	}

	n := &ir.Interpolation{Code: code, Loc: p.c.SpanFrom(start)}

	if e, err := parserexpr.ParseExpressionAt(code, start); err == nil {
		n.Expr = e
	}

	return n, nil
}

// attributes parses `(name=value, other)`. Commas between attributes are optional.
func (p *pugParser) attributes() ([]*ir.Attribute, error) {
	p.c.Next()

	var attrs []*ir.Attribute

	for {
		p.c.ConsumeWhile(func(r rune) bool { return r == ' ' || r == '\t' || r == ',' })

		if atLineEnd(p.c) {
			return nil, p.c.Expect(')')
		}

		if p.c.Consume(")") {
			return attrs, nil
		}

		attr, err := p.attribute()
		if err != nil {
			return nil, err
		}

		attrs = append(attrs, attr)
	}
}

func (p *pugParser) attribute() (*ir.Attribute, error) {
	start := p.c.Position()

	name := p.c.ConsumeWhile(func(r rune) bool {
		return !unicode.IsSpace(r) && r != '=' && r != ')' && r != ','
	})
	if name == "" {
		return nil, scanner.UnexpectedChar(p.c.Peek(), p.c.SpanAtCurrent())
	}

	if !p.c.Consume("=") {
		return ir.NewAttribute(name, nil, p.c.SpanFrom(start)), nil
	}

	var (
		value      string
		valueStart scanner.Position
	)

	switch p.c.Peek() {
	case '"', '\'':
		valueStart = p.c.Position()
		valueStart.Column++
		valueStart.Offset++

		v, err := p.c.AttributeValue()
		if err != nil {
			return nil, err
		}

		value = v
	default:
		valueStart = p.c.Position()
		value = p.c.ConsumeWhile(func(r rune) bool {
			return !unicode.IsSpace(r) && r != ',' && r != ')'
		})
	}

	attr := ir.NewAttribute(name, &value, p.c.SpanFrom(start))

	if attr.IsDirective && strings.TrimSpace(value) != "" {
		if e, err := parserexpr.ParseExpressionAt(value, valueStart); err == nil {
			attr.Expr = e
		}
	}

	return attr, nil
}
