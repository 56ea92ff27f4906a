// Package parsertmpl parses component template markup into ir template nodes.
// Interpolations and directive attribute values are handed to parserexpr.
package parsertmpl

import (
	"strings"
	"unicode"

	"golang.org/x/net/html/atom"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/parser/parserexpr"
	"github.com/shibukawa/hxo/scanner"
)

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// IsVoidElement reports whether tag never has children or a closing tag.
func IsVoidElement(tag string) bool {
	return voidElements[atom.Lookup([]byte(strings.ToLower(tag)))]
}

// rawTextElements keep their body as a single text node.
var rawTextElements = map[string]bool{"script": true, "style": true}

// Parser implements the template sub-parser for the registry.
type Parser struct{}

func (Parser) ParseTemplate(src string, start scanner.Position) ([]ir.TemplateNode, error) {
	return ParseAt(src, start)
}

// Parse parses a template fragment.
func Parse(src string) ([]ir.TemplateNode, error) {
	return ParseAt(src, scanner.Position{})
}

// ParseAt parses a template fragment whose first rune is located at start.
func ParseAt(src string, start scanner.Position) ([]ir.TemplateNode, error) {
	p := &parser{c: scanner.NewAt(src, start)}

	nodes, err := p.nodes()
	if err != nil {
		return nil, err
	}

	if !p.c.EOF() {
		return nil, scanner.TrailingContent(p.c.SpanAtCurrent())
	}

	return nodes, nil
}

type parser struct {
	c *scanner.Cursor
}

// nodes parses siblings until end of input or a closing tag, which is left unconsumed.
func (p *parser) nodes() ([]ir.TemplateNode, error) {
	var nodes []ir.TemplateNode

	for !p.c.EOF() {
		var (
			node ir.TemplateNode
			err  error
		)

		switch {
		case p.c.HasPrefix("{{"):
			node, err = p.interpolation()
		case p.c.HasPrefix("<!--"):
			node, err = p.comment()
		case p.c.HasPrefix("</"):
			return nodes, nil
		case p.c.Peek() == '<' && unicode.IsLetter(p.c.PeekN(1)):
			node, err = p.element()
		default:
			node = p.text()
		}

		if err != nil {
			return nil, err
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

func (p *parser) interpolation() (ir.TemplateNode, error) {
	start := p.c.Position()
	p.c.ConsumeN(2)
	p.c.SkipWhitespace()

	codeStart := p.c.Position()
	code := strings.TrimRightFunc(p.c.ConsumeUntil("}}"), unicode.IsSpace)

	if err := p.c.ExpectString("}}"); err != nil {
		return nil, err
	}

	node := &ir.Interpolation{Code: code, Loc: p.c.SpanFrom(start)}

	if e, err := parserexpr.ParseExpressionAt(code, codeStart); err == nil {
		node.Expr = e
	}

	return node, nil
}

func (p *parser) comment() (ir.TemplateNode, error) {
	start := p.c.Position()
	p.c.ConsumeN(4)

	content := p.c.ConsumeUntil("-->")

	if err := p.c.ExpectString("-->"); err != nil {
		return nil, err
	}

	return &ir.Comment{Content: content, Loc: p.c.SpanFrom(start)}, nil
}

// text accumulates characters until the next interpolation, comment or tag.
func (p *parser) text() ir.TemplateNode {
	start := p.c.Position()
	from := p.c.Offset()

	p.c.Next()

	for !p.c.EOF() && !p.atMarker() {
		p.c.Next()
	}

	return &ir.Text{Content: p.c.Slice(from), Loc: p.c.SpanFrom(start)}
}

func (p *parser) atMarker() bool {
	if p.c.HasPrefix("{{") || p.c.HasPrefix("</") || p.c.HasPrefix("<!--") {
		return true
	}

	return p.c.Peek() == '<' && unicode.IsLetter(p.c.PeekN(1))
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == ':'
}

func (p *parser) element() (ir.TemplateNode, error) {
	start := p.c.Position()
	p.c.Next()

	el := &ir.Element{Tag: p.c.ConsumeWhile(isTagRune)}

	for {
		p.c.SkipWhitespace()

		if p.c.EOF() {
			return nil, scanner.ExpectedClosingTag(el.Tag, "EOF", p.c.SpanFrom(start))
		}

		if p.c.Peek() == '>' || p.c.HasPrefix("/>") {
			break
		}

		attr, err := p.attribute()
		if err != nil {
			return nil, err
		}

		el.Attributes = append(el.Attributes, attr)
	}

	if p.c.Consume("/>") {
		el.Loc = p.c.SpanFrom(start)
		return el, nil
	}

	p.c.Next()

	if IsVoidElement(el.Tag) {
		el.Loc = p.c.SpanFrom(start)
		return el, nil
	}

	if rawTextElements[strings.ToLower(el.Tag)] {
		bodyStart := p.c.Position()
		body := p.c.ConsumeUntil("</" + el.Tag)

		if body != "" {
			el.Children = []ir.TemplateNode{&ir.Text{Content: body, Loc: p.c.SpanFrom(bodyStart)}}
		}
	} else {
		children, err := p.nodes()
		if err != nil {
			return nil, err
		}

		el.Children = children
	}

	if err := p.closingTag(el.Tag, start); err != nil {
		return nil, err
	}

	el.Loc = p.c.SpanFrom(start)

	return el, nil
}

func (p *parser) closingTag(tag string, start scanner.Position) error {
	if p.c.EOF() {
		return scanner.ExpectedClosingTag(tag, "EOF", p.c.SpanFrom(start))
	}

	closeStart := p.c.Position()

	if err := p.c.ExpectString("</"); err != nil {
		return err
	}

	name := p.c.ConsumeWhile(isTagRune)
	p.c.SkipWhitespace()

	if !strings.EqualFold(name, tag) {
		return scanner.ExpectedClosingTag(tag, name, p.c.SpanFrom(closeStart))
	}

	return p.c.Expect('>')
}

func (p *parser) attribute() (*ir.Attribute, error) {
	start := p.c.Position()

	name := p.c.ConsumeWhile(func(r rune) bool {
		return !unicode.IsSpace(r) && r != '=' && r != '>' && r != '/'
	})
	if name == "" {
		return nil, scanner.UnexpectedChar(p.c.Peek(), p.c.SpanAtCurrent())
	}

	m := p.c.Mark()
	p.c.SkipWhitespace()

	if !p.c.Consume("=") {
		p.c.Reset(m)
		return ir.NewAttribute(name, nil, p.c.SpanFrom(start)), nil
	}

	p.c.SkipWhitespace()

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
			return !unicode.IsSpace(r) && r != '>' && !(r == '/' && p.c.PeekN(1) == '>')
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
