// Package jsgen generates the client module of a component: a default export
// with name, setup and render, plus the runtime imports it needs.
package jsgen

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shibukawa/hxo/codewriter"
	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/langs/jscommon"
	"github.com/shibukawa/hxo/sourcemap"
)

// DefaultRuntimePath is the package prefix runtime imports are taken from.
const DefaultRuntimePath = "@hxo"

// Runtime symbols.
const (
	fragment        = "Fragment"
	useI18n         = "useI18n"
	createTextVNode = "createTextVNode"
	translate       = "$t"
)

// coreHelpers are imported from the core runtime when the script calls them
// without importing them itself.
var coreHelpers = map[string]bool{"createSignal": true, "createComputed": true, "createEffect": true}

// Generator generates client JavaScript from an optimized module
type Generator struct {
	RuntimePath   string
	SourceName    string
	SourceContent string
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithRuntimePath sets the runtime package prefix
func WithRuntimePath(path string) Option {
	return func(g *Generator) {
		g.RuntimePath = path
	}
}

// WithSourceName sets the source file name recorded in the source map
func WithSourceName(name string) Option {
	return func(g *Generator) {
		g.SourceName = name
	}
}

// WithSourceContent embeds the component source into the source map
func WithSourceContent(src string) Option {
	return func(g *Generator) {
		g.SourceContent = src
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

// Output is the generated module and its source map.
type Output struct {
	Code      string
	SourceMap *sourcemap.SourceMap
}

// Generate renders m. The body is generated first so that only the runtime
// symbols it referenced are imported.
func (g *Generator) Generate(m *ir.Module) (*Output, error) {
	gen := newGeneration(m)

	body := codewriter.New()
	gen.module(body)

	out := codewriter.New()

	core := gen.imports(gen.core)
	dom := gen.imports(gen.dom)

	if len(core) > 0 {
		out.Import(core, g.RuntimePath+"/core")
	}

	if len(dom) > 0 {
		out.Import(dom, g.RuntimePath+"/dom")
	}

	if len(core)+len(dom) > 0 {
		out.Newline()
	}

	out.Append(body)

	source := g.SourceName
	if source == "" {
		source = m.Name
	}

	b := sourcemap.NewBuilder()
	b.AddFromWriter(out.Mappings(), source)

	if g.SourceContent != "" {
		b.SetSourceContent(source, g.SourceContent)
	}

	return &Output{Code: out.String(), SourceMap: b.Finish()}, nil
}

// WriteTo generates m and writes the code to w.
func (g *Generator) WriteTo(w io.Writer, m *ir.Module) error {
	out, err := g.Generate(m)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out.Code)

	return err
}

type hoisted struct {
	name string
	w    *codewriter.Writer
}

// generation is the state of one Generate call.
type generation struct {
	m        *ir.Module
	core     map[string]bool
	dom      map[string]bool
	imported map[string]bool
	hoisted  []hoisted
	base     *jscommon.Printer
}

func newGeneration(m *ir.Module) *generation {
	gen := &generation{
		m:        m,
		core:     map[string]bool{},
		dom:      map[string]bool{},
		imported: map[string]bool{},
		base:     jscommon.NewPrinter(codewriter.New()),
	}

	if m.Script != nil {
		for _, s := range m.Script.Body {
			if imp, ok := s.(*ir.Import); ok {
				for _, name := range imp.Names() {
					gen.imported[name] = true
				}
			}
		}
	}

	gen.base.Meta = m.ScriptMeta
	gen.base.Skip = gen.imported

	return gen
}

// imports returns the sorted symbols of set the script does not bind itself.
func (gen *generation) imports(set map[string]bool) []string {
	var names []string

	for name := range set {
		if !gen.imported[name] {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

func (gen *generation) source(w *codewriter.Writer) *jscommon.Printer {
	return gen.base.Fork(w)
}

func (gen *generation) context(w *codewriter.Writer) *jscommon.Printer {
	p := gen.base.Fork(w)
	p.Context = "ctx"

	return p
}

func (gen *generation) module(w *codewriter.Writer) {
	if gen.topLevel(w) {
		w.Newline()
	}

	render := codewriter.New()
	render.Indent()
	gen.render(render)

	for _, h := range gen.hoisted {
		w.Write("const " + h.name + " = /*#__PURE__*/ ")
		w.Append(h.w)
		w.WriteLine(";")
	}

	if len(gen.hoisted) > 0 {
		w.Newline()
	}

	gen.scanHelpers()

	w.WriteLine("export default {")
	w.Indent()
	w.WriteLine("name: " + ir.QuoteJS(gen.m.Name) + ",")

	if len(gen.m.I18n) > 0 {
		w.WriteLine("i18n: " + i18nValue(gen.m.I18n).JS() + ",")
	}

	w.Block("setup(props, { i18n })", gen.setup)
	w.WriteLine(",")
	w.Dedent()
	w.Append(render)
	w.WriteLine(",")
	w.WriteLine("};")

	if gen.base.Used(jscommon.Hyperscript) {
		gen.dom[jscommon.Hyperscript] = true
	}
}

// topLevel writes the script statements that must live at module scope.
func (gen *generation) topLevel(w *codewriter.Writer) bool {
	if gen.m.Script == nil {
		return false
	}

	p := gen.source(w)
	wrote := false

	for _, s := range gen.m.Script.Body {
		switch s := s.(type) {
		case *ir.Import, *ir.ExportAll:
		case *ir.ExportNamed:
			if s.Source == "" {
				continue
			}
		default:
			continue
		}

		p.Statement(s)
		w.Newline()

		wrote = true
	}

	return wrote
}

func (gen *generation) scanHelpers() {
	if gen.m.Script == nil {
		return
	}

	ir.WalkStatements(gen.m.Script.Body, func(e ir.Expression) bool {
		if call, ok := e.(*ir.Call); ok {
			if id, ok := call.Callee.(*ir.Identifier); ok && coreHelpers[id.Name] {
				gen.core[id.Name] = true
			}
		}

		return true
	})
}

func i18nValue(table map[string]map[string]string) ir.Value {
	locales := make(map[string]ir.Value, len(table))

	for locale, messages := range table {
		fields := make(map[string]ir.Value, len(messages))
		for k, v := range messages {
			fields[k] = ir.String(v)
		}

		locales[locale] = ir.Object(fields)
	}

	return ir.Object(locales)
}

func (gen *generation) setup(w *codewriter.Writer) {
	var names []string

	if len(gen.m.I18n) > 0 {
		gen.core[useI18n] = true
		w.WriteLine("const { t: " + translate + " } = " + useI18n + "(i18n);")
	}

	if gen.m.Script != nil {
		p := gen.source(w)

		for _, s := range gen.m.Script.Body {
			if export, ok := s.(*ir.Export); ok {
				s = export.Declaration
			}

			switch s := s.(type) {
			case *ir.Import, *ir.ExportAll, *ir.ExportNamed:
				continue
			case *ir.VariableDecl:
				names = appendUnique(names, s.BoundNames()...)
			case *ir.FunctionDecl:
				names = appendUnique(names, s.Name)
			}

			p.Statement(s)
			w.Newline()
		}
	}

	if len(gen.m.I18n) > 0 {
		names = appendUnique(names, translate)
	}

	if len(names) == 0 {
		w.WriteLine("return {};")
		return
	}

	w.WriteLine("return { " + strings.Join(names, ", ") + " };")
}

func appendUnique(list []string, names ...string) []string {
	for _, n := range names {
		found := false

		for _, existing := range list {
			if existing == n {
				found = true
				break
			}
		}

		if !found && n != "" {
			list = append(list, n)
		}
	}

	return list
}

// renderable drops comments and whitespace-only text, which produce no vnodes.
func renderable(nodes []ir.TemplateNode) []ir.TemplateNode {
	var out []ir.TemplateNode

	for _, n := range nodes {
		switch n := n.(type) {
		case *ir.Comment:
			continue
		case *ir.Text:
			if strings.TrimSpace(n.Content) == "" {
				continue
			}
		}

		out = append(out, n)
	}

	return out
}

func (gen *generation) render(w *codewriter.Writer) {
	w.Block("render(ctx)", func(w *codewriter.Writer) {
		roots := renderable(gen.m.Template)

		switch len(roots) {
		case 0:
			w.WriteLine("return null;")
		case 1:
			w.Write("return ")
			gen.child(w, roots[0])
			w.WriteLine(";")
		default:
			gen.core[fragment] = true
			gen.dom[jscommon.Hyperscript] = true

			w.WriteLine("return " + jscommon.Hyperscript + "(" + fragment + ", null, [")
			w.Indent()

			for _, n := range roots {
				gen.child(w, n)
				w.WriteLine(",")
			}

			w.Dedent()
			w.WriteLine("]);")
		}
	})
}

// child writes n, hoisting static elements into module-level constants.
// A static element's static children are hoisted before the element itself.
func (gen *generation) child(w *codewriter.Writer, n ir.TemplateNode) {
	el, ok := n.(*ir.Element)
	if !ok || !el.IsStatic {
		gen.node(w, n)
		return
	}

	hw := codewriter.New()
	gen.element(hw, el)

	name := "_hoisted_" + strconv.Itoa(len(gen.hoisted)+1)
	gen.hoisted = append(gen.hoisted, hoisted{name: name, w: hw})

	w.WriteSpan(name, el.Loc)
}

func (gen *generation) node(w *codewriter.Writer, n ir.TemplateNode) {
	switch n := n.(type) {
	case *ir.Element:
		gen.element(w, n)
	case *ir.Text:
		gen.dom[createTextVNode] = true
		w.WriteSpan(createTextVNode+"(", n.Loc)
		w.Write(ir.QuoteJS(n.Content) + ")")
	case *ir.Interpolation:
		gen.dom[createTextVNode] = true
		w.WriteSpan(createTextVNode+"(", n.Loc)

		if e := jscommon.InterpolationExpr(n); e != nil {
			gen.context(w).Expression(e)
		} else {
			w.Write("''")
		}

		w.Write(")")
	}
}

func isComponent(tag string) bool {
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

func (gen *generation) element(w *codewriter.Writer, el *ir.Element) {
	gen.dom[jscommon.Hyperscript] = true

	w.WriteSpan(jscommon.Hyperscript, el.Loc)
	w.Write("(")

	if isComponent(el.Tag) {
		w.Write(gen.context(w).Resolve(el.Tag, true))
	} else {
		w.Write(ir.QuoteJS(el.Tag))
	}

	w.Write(", ")
	gen.props(w, el.Attributes)

	children := renderable(el.Children)
	if len(children) == 0 {
		w.Write(")")
		return
	}

	w.WriteLine(", [")
	w.Indent()

	for _, c := range children {
		gen.child(w, c)
		w.WriteLine(",")
	}

	w.Dedent()
	w.Write("])")
}

func (gen *generation) props(w *codewriter.Writer, attrs []*ir.Attribute) {
	if len(attrs) == 0 {
		w.Write("null")
		return
	}

	p := gen.context(w)

	w.Write("{ ")

	for i, a := range attrs {
		if i > 0 {
			w.Write(", ")
		}

		switch {
		case a.IsEvent():
			w.WriteSpan(ir.QuoteJS(jscommon.EventProp(a.Argument())), a.Loc)
			w.Write(": ")
			gen.handler(p, a)
		case a.IsDirective:
			w.WriteSpan(ir.QuoteJS(a.Argument()), a.Loc)
			w.Write(": ")

			switch e := jscommon.DirectiveExpr(a); {
			case e != nil:
				p.Expression(e)
			case a.Value == nil:
				w.Write("true")
			default:
				w.Write(a.ValueString())
			}
		default:
			w.WriteSpan(ir.QuoteJS(a.Name), a.Loc)
			w.Write(": ")

			if a.Value == nil {
				w.Write("true")
			} else {
				w.Write(ir.QuoteJS(*a.Value))
			}
		}
	}

	w.Write(" }")
}

// handler writes an event value. Function references and arrows are passed
// through; any other expression runs inside a `$event =>` wrapper.
func (gen *generation) handler(p *jscommon.Printer, a *ir.Attribute) {
	e := jscommon.DirectiveExpr(a)

	switch e.(type) {
	case nil:
		p.Writer().Write("null")
	case *ir.Identifier, *ir.Member:
		p.Callee(e)
	case *ir.ArrowFunction:
		p.Expression(e)
	default:
		p.Expression(&ir.ArrowFunction{Params: []string{"$event"}, Body: e, Loc: e.Span()})
	}
}
