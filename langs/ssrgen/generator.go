// Package ssrgen generates a server render function that builds the
// component's HTML by string concatenation.
package ssrgen

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/shibukawa/hxo/codewriter"
	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/langs/jscommon"
	"github.com/shibukawa/hxo/parser/parsertmpl"
)

// DefaultRuntimePath is the package prefix runtime imports are taken from.
const DefaultRuntimePath = "@hxo"

// escapeHelper is the local name of the runtime's escapeHtml.
const escapeHelper = "_esc"

// rawTextElements keep their text unescaped.
var rawTextElements = map[string]bool{"script": true, "style": true}

// Generator generates the SSR render module
type Generator struct {
	RuntimePath string
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithRuntimePath sets the runtime package prefix
func WithRuntimePath(path string) Option {
	return func(g *Generator) {
		g.RuntimePath = path
	}
}

// New creates a new Generator
func New(opts ...Option) *Generator {
	g := &Generator{RuntimePath: DefaultRuntimePath}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns the render module for m.
func (g *Generator) Generate(m *ir.Module) (string, error) {
	gen := newGeneration(m)

	body := codewriter.New()
	gen.module(body)

	out := codewriter.New()

	if gen.escape {
		out.Import([]string{"escapeHtml as " + escapeHelper}, g.RuntimePath+"/core")
		out.Newline()
	}

	out.Append(body)

	return out.String(), nil
}

// WriteTo generates m and writes the code to w.
func (g *Generator) WriteTo(w io.Writer, m *ir.Module) error {
	code, err := g.Generate(m)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, code)

	return err
}

// Indices returns the marker indices the render function emits, in order.
func Indices(m *ir.Module) []int {
	gen := newGeneration(m)
	gen.module(codewriter.New())

	return gen.indices
}

type generation struct {
	m       *ir.Module
	w       *codewriter.Writer
	p       *jscommon.Printer
	escape  bool
	raw     int
	indices []int
}

func newGeneration(m *ir.Module) *generation {
	return &generation{m: m}
}

func (gen *generation) module(w *codewriter.Writer) {
	gen.w = w
	gen.p = jscommon.NewPrinter(w)
	gen.p.Context = "ctx"
	gen.p.Meta = gen.m.ScriptMeta
	gen.p.Skip = importedNames(gen.m)

	w.Block("export function render(ctx)", func(w *codewriter.Writer) {
		w.WriteLine("let html = '';")
		jscommon.Walk(gen.m.Template, gen.enter, gen.leave)
		w.WriteLine("return html;")
	})
	w.Newline()
}

func importedNames(m *ir.Module) map[string]bool {
	names := map[string]bool{}

	if m.Script == nil {
		return names
	}

	for _, s := range m.Script.Body {
		if imp, ok := s.(*ir.Import); ok {
			for _, n := range imp.Names() {
				names[n] = true
			}
		}
	}

	return names
}

// piece is either literal HTML or an expression whose value is escaped.
type piece struct {
	html string
	expr ir.Expression
}

type line []piece

func (l line) text(s string) line {
	if n := len(l); n > 0 && l[n-1].expr == nil {
		l[n-1].html += s
		return l
	}

	return append(l, piece{html: s})
}

func (l line) value(e ir.Expression) line {
	return append(l, piece{expr: e})
}

func (gen *generation) emit(l line, n ir.TemplateNode) {
	gen.w.WriteSpan("html += ", n.Span())

	for i, pc := range l {
		if i > 0 {
			gen.w.Write(" + ")
		}

		if pc.expr == nil {
			gen.w.Write(ir.QuoteJS(pc.html))
			continue
		}

		gen.escape = true
		gen.w.Write(escapeHelper + "(")
		gen.p.Expression(pc.expr)
		gen.w.Write(")")
	}

	gen.w.WriteLine(";")
}

func marker(index int) string {
	return " " + jscommon.MarkerAttribute + `="` + strconv.Itoa(index) + `"`
}

func (gen *generation) enter(n ir.TemplateNode, index int) {
	if jscommon.Marked(n) {
		gen.indices = append(gen.indices, index)
	}

	switch n := n.(type) {
	case *ir.Element:
		gen.emit(gen.openTag(n, index), n)

		if rawTextElements[strings.ToLower(n.Tag)] {
			gen.raw++
		}
	case *ir.Text:
		text := n.Content
		if gen.raw == 0 {
			text = html.EscapeString(text)
		}

		gen.emit(line{}.text(text), n)
	case *ir.Interpolation:
		l := line{}.text("<span" + marker(index) + ">")

		switch e := jscommon.InterpolationExpr(n).(type) {
		case nil:
		case *ir.Literal:
			l = l.text(html.EscapeString(literalText(e.Value)))
		default:
			l = l.value(e)
		}

		gen.emit(l.text("</span>"), n)
	case *ir.Comment:
		gen.emit(line{}.text("<!--"+n.Content+"-->"), n)
	}
}

func literalText(v ir.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}

	return v.JS()
}

// openTag renders the start tag. Event directives have no HTML form and
// are left to hydration.
func (gen *generation) openTag(el *ir.Element, index int) line {
	l := line{}.text("<" + el.Tag)

	if !el.IsStatic {
		l = l.text(marker(index))
	}

	for _, a := range el.Attributes {
		switch {
		case a.IsEvent():
		case a.IsBinding():
			e := jscommon.DirectiveExpr(a)
			if e == nil {
				continue
			}

			l = l.text(" " + a.Argument() + `="`).value(e).text(`"`)
		case a.IsDirective:
		case a.Value == nil:
			l = l.text(" " + a.Name)
		default:
			l = l.text(" " + a.Name + `="` + html.EscapeString(*a.Value) + `"`)
		}
	}

	return l.text(">")
}

func (gen *generation) leave(n ir.TemplateNode) {
	el := n.(*ir.Element)

	if parsertmpl.IsVoidElement(el.Tag) {
		return
	}

	if rawTextElements[strings.ToLower(el.Tag)] {
		gen.raw--
	}

	gen.emit(line{}.text("</"+el.Tag+">"), n)
}
