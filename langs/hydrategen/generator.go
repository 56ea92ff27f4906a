// Package hydrategen generates the client glue that binds events and reactive
// updates to server-rendered HTML without recreating nodes.
package hydrategen

import (
	"io"
	"strconv"

	"github.com/shibukawa/hxo/codewriter"
	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/langs/jscommon"
)

// DefaultRuntimePath is the package prefix runtime imports are taken from.
const DefaultRuntimePath = "@hxo"

const createEffect = "createEffect"

// Generator generates the hydrate module
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

// Generate returns the hydrate module for m.
func (g *Generator) Generate(m *ir.Module) (string, error) {
	gen := &generation{m: m}

	body := codewriter.New()
	gen.module(body)

	out := codewriter.New()

	if gen.effects {
		out.Import([]string{createEffect}, g.RuntimePath+"/core")
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

// Indices returns the marker indices the hydrate function looks up, in order.
func Indices(m *ir.Module) []int {
	gen := &generation{m: m}
	gen.module(codewriter.New())

	return gen.indices
}

type generation struct {
	m       *ir.Module
	w       *codewriter.Writer
	p       *jscommon.Printer
	effects bool
	indices []int
}

func (gen *generation) module(w *codewriter.Writer) {
	gen.w = w
	gen.p = jscommon.NewPrinter(w)
	gen.p.Context = "ctx"
	gen.p.Meta = gen.m.ScriptMeta
	gen.p.Skip = importedNames(gen.m)

	w.Block("export function hydrate(root, ctx)", func(w *codewriter.Writer) {
		jscommon.Walk(gen.m.Template, gen.visit, nil)
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

// visit looks up every marked node; static nodes get no behavior.
func (gen *generation) visit(n ir.TemplateNode, index int) {
	if !jscommon.Marked(n) {
		return
	}

	gen.indices = append(gen.indices, index)

	switch n := n.(type) {
	case *ir.Element:
		gen.element(n, "el"+strconv.Itoa(index), index)
	case *ir.Interpolation:
		gen.text(n, "text"+strconv.Itoa(index), index)
	}
}

func (gen *generation) lookup(name string, index int, n ir.TemplateNode) {
	gen.w.WriteSpan("const "+name, n.Span())
	gen.w.WriteLine(" = root.querySelector('" + jscommon.MarkerSelector(index) + "');")
}

func (gen *generation) element(el *ir.Element, name string, index int) {
	gen.lookup(name, index, el)

	for _, a := range el.Attributes {
		switch {
		case a.IsEvent():
			gen.listener(name, a)
		case a.IsBinding():
			e := jscommon.DirectiveExpr(a)
			if e == nil {
				continue
			}

			if _, constant := e.(*ir.Literal); constant {
				continue
			}

			gen.effect(func(w *codewriter.Writer) {
				w.WriteSpan(name+".setAttribute(", a.Loc)
				w.Write(ir.QuoteJS(a.Argument()) + ", ")
				gen.p.Expression(e)
				w.WriteLine(");")
			})
		}
	}
}

// listener registers an event directive. References are called with the
// event; other expressions run as a statement with $event in scope.
func (gen *generation) listener(name string, a *ir.Attribute) {
	e := jscommon.DirectiveExpr(a)
	if e == nil {
		return
	}

	w := gen.w
	w.WriteSpan(name+".addEventListener(", a.Loc)
	w.Write(ir.QuoteJS(jscommon.EventName(a.Argument())) + ", ")

	_, arrow := e.(*ir.ArrowFunction)

	switch {
	case jscommon.IsHandlerReference(e):
		w.Write("(e) => ")
		gen.p.Callee(e)
		w.Write("(e)")
	case arrow:
		gen.p.Expression(e)
	default:
		w.Write("($event) => { ")
		gen.p.Expression(e)
		w.Write("; }")
	}

	w.WriteLine(");")
}

func (gen *generation) text(n *ir.Interpolation, name string, index int) {
	gen.lookup(name, index, n)

	e := jscommon.InterpolationExpr(n)
	if e == nil {
		return
	}

	if _, constant := e.(*ir.Literal); constant {
		return
	}

	gen.effect(func(w *codewriter.Writer) {
		w.Write(name + ".textContent = ")
		gen.p.Expression(e)
		w.WriteLine(";")
	})
}

func (gen *generation) effect(body func(w *codewriter.Writer)) {
	gen.effects = true
	gen.w.Block(createEffect+"(() =>", body)
	gen.w.WriteLine(");")
}
