package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shibukawa/hxo/analyzer"
	"github.com/shibukawa/hxo/i18n"
	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// Parse splits src into blocks and builds a Module named name.
// Template and script failures are fatal; style, metadata, i18n and custom
// block failures drop the block.
func Parse(name, src string, registry *Registry) (*ir.Module, error) {
	return ParseWithOptions(name, src, registry, DefaultOptions)
}

// ParseWithOptions is Parse with a hook for dropped blocks.
func ParseWithOptions(name, src string, registry *Registry, opts Options) (*ir.Module, error) {
	s := &splitter{
		c:        scanner.New(src),
		registry: registry,
		opts:     opts,
		module:   ir.NewModule(name),
	}

	if err := s.run(); err != nil {
		return nil, err
	}

	if s.module.Script != nil {
		s.module.ScriptMeta = analyzer.Analyze(s.module.Script)
	}

	return s.module, nil
}

type splitter struct {
	c        *scanner.Cursor
	registry *Registry
	opts     Options
	module   *ir.Module
}

// block is one top-level tag with its raw content.
type block struct {
	name    string
	attrs   map[string]string
	content string
	start   scanner.Position // first rune of content
	loc     scanner.Span     // content span
}

func (b *block) lang(def string) string {
	if l, ok := b.attrs["lang"]; ok && l != "" {
		return strings.ToLower(l)
	}

	return def
}

func (s *splitter) run() error {
	for {
		s.c.SkipWhitespace()

		if s.c.EOF() {
			return nil
		}

		switch {
		case s.c.HasPrefix("<!--"):
			start := s.c.Position()
			s.c.ConsumeN(4)
			s.c.ConsumeUntil("-->")

			if !s.c.Consume("-->") {
				return scanner.ExpectedString("-->", "EOF", s.c.SpanFrom(start))
			}
		case s.c.Peek() == '<' && unicode.IsLetter(s.c.PeekN(1)):
			b, err := s.block()
			if err != nil {
				return err
			}

			if err := s.dispatch(b); err != nil {
				return err
			}
		default:
			// stray text between blocks
			s.c.Next()
		}
	}
}

func isBlockNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}

func (s *splitter) block() (*block, error) {
	open := s.c.Position()
	s.c.Next()

	b := &block{
		name:  s.c.ConsumeWhile(isBlockNameRune),
		attrs: map[string]string{},
	}

	for {
		s.c.SkipWhitespace()

		if s.c.EOF() {
			return nil, scanner.ExpectedClosingTag(b.name, "EOF", s.c.SpanFrom(open))
		}

		if s.c.Consume("/>") {
			b.start = s.c.Position()
			b.loc = s.c.SpanFrom(b.start)

			return b, nil
		}

		if s.c.Consume(">") {
			break
		}

		if err := s.tagAttribute(b.attrs); err != nil {
			return nil, err
		}
	}

	b.start = s.c.Position()
	from := s.c.Offset()

	if err := s.skipToClose(b.name); err != nil {
		return nil, err
	}

	b.content = s.c.Slice(from)
	b.loc = s.c.SpanFrom(b.start)

	s.c.ConsumeN(len("</" + b.name))
	s.c.SkipWhitespace()

	if err := s.c.Expect('>'); err != nil {
		return nil, err
	}

	return b, nil
}

// skipToClose stops before the closing tag of name, honoring nested
// same-name tags such as <template> inside <template>.
func (s *splitter) skipToClose(name string) error {
	start := s.c.Position()
	depth := 0

	for !s.c.EOF() {
		switch {
		case s.c.HasPrefix("</" + name):
			if !isBlockNameRune(s.c.PeekN(len(name) + 2)) {
				if depth == 0 {
					return nil
				}
				depth--
			}
		case s.c.HasPrefix("<" + name):
			if !isBlockNameRune(s.c.PeekN(len(name) + 1)) {
				depth++
			}
		}

		s.c.Next()
	}

	return scanner.ExpectedClosingTag(name, "EOF", s.c.SpanFrom(start))
}

func (s *splitter) tagAttribute(attrs map[string]string) error {
	name := s.c.ConsumeWhile(func(r rune) bool {
		return !unicode.IsSpace(r) && r != '=' && r != '>' && r != '/'
	})
	if name == "" {
		return scanner.UnexpectedChar(s.c.Peek(), s.c.SpanAtCurrent())
	}

	m := s.c.Mark()
	s.c.SkipWhitespace()

	if !s.c.Consume("=") {
		s.c.Reset(m)
		attrs[name] = ""

		return nil
	}

	s.c.SkipWhitespace()

	if r := s.c.Peek(); r == '"' || r == '\'' {
		v, err := s.c.AttributeValue()
		if err != nil {
			return err
		}

		attrs[name] = v

		return nil
	}

	attrs[name] = s.c.ConsumeWhile(func(r rune) bool {
		return !unicode.IsSpace(r) && r != '>' && r != '/'
	})

	return nil
}

func (s *splitter) dispatch(b *block) error {
	switch b.name {
	case "template":
		return s.template(b)
	case "script":
		return s.script(b)
	case "style":
		s.style(b)
	case "metadata":
		s.metadata(b)
	case "i18n":
		s.i18n(b)
	default:
		s.custom(b)
	}

	return nil
}

func (s *splitter) template(b *block) error {
	lang := b.lang(DefaultTemplateLang)

	p, ok := s.registry.Template(lang)
	if !ok {
		return fmt.Errorf("%w: template lang %q", ErrParserNotRegistered, lang)
	}

	nodes, err := p.ParseTemplate(b.content, b.start)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemplateParse, err)
	}

	s.module.Template = append(s.module.Template, nodes...)

	return nil
}

func (s *splitter) script(b *block) error {
	lang := b.lang(DefaultScriptLang)

	p, ok := s.registry.Script(lang)
	if !ok {
		return fmt.Errorf("%w: script lang %q", ErrParserNotRegistered, lang)
	}

	prog, err := p.ParseScript(b.content, b.start, lang)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScriptParse, err)
	}

	if s.module.Script == nil {
		s.module.Script = prog
	} else {
		s.module.Script.Body = append(s.module.Script.Body, prog.Body...)
		s.module.Script.Loc.End = prog.Loc.End
	}

	return nil
}

func (s *splitter) style(b *block) {
	lang := b.lang(DefaultStyleLang)

	p, ok := s.registry.Style(lang)
	if !ok {
		s.opts.skip(b.name, lang, ErrParserNotRegistered)
		return
	}

	code, err := p.ParseStyle(b.content, b.start, lang)
	if err != nil {
		s.opts.skip(b.name, lang, err)
		return
	}

	_, scoped := b.attrs["scoped"]

	s.module.Styles = append(s.module.Styles, ir.StyleBlock{
		Code:   code,
		Lang:   lang,
		Scoped: scoped,
		Loc:    b.loc,
	})
}

func (s *splitter) parseData(b *block) (map[string]ir.Value, bool) {
	lang := b.lang(DefaultMetadataLang)

	p, ok := s.registry.Metadata(lang)
	if !ok {
		s.opts.skip(b.name, lang, ErrParserNotRegistered)
		return nil, false
	}

	values, err := p.ParseMetadata(b.content, b.start, lang)
	if err != nil {
		s.opts.skip(b.name, lang, err)
		return nil, false
	}

	return values, true
}

func (s *splitter) metadata(b *block) {
	values, ok := s.parseData(b)
	if !ok {
		return
	}

	for k, v := range values {
		s.module.Metadata[k] = v
	}
}

// i18n accepts either a single locale (locale attribute) or a map of locales.
func (s *splitter) i18n(b *block) {
	values, ok := s.parseData(b)
	if !ok {
		return
	}

	var table i18n.Table
	if locale, ok := b.attrs["locale"]; ok && locale != "" {
		table = i18n.FromLocaleValues(locale, values)
	} else {
		table = i18n.FromValues(values)
	}

	if s.module.I18n == nil {
		s.module.I18n = map[string]map[string]string{}
	}

	table.MergeInto(s.module.I18n)
}

func (s *splitter) custom(b *block) {
	cb := ir.CustomBlock{
		Name:       b.name,
		Attributes: b.attrs,
		Content:    b.content,
		Loc:        b.loc,
	}

	if lang, ok := b.attrs["lang"]; ok {
		if r, ok := s.registry.CustomBlock(strings.ToLower(lang)); ok {
			html, err := r.RenderBlock(b.content, lang)
			if err != nil {
				s.opts.skip(b.name, lang, err)
			} else {
				cb.HTML = html
			}
		}
	}

	s.module.CustomBlocks = append(s.module.CustomBlocks, cb)
}
