// Package dtsgen generates TypeScript declarations for a component: its props,
// its emitted events and the render context instance.
package dtsgen

import (
	"io"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/hxo/codewriter"
	"github.com/shibukawa/hxo/ir"
)

// DefaultRuntimePath is the package prefix runtime imports are taken from.
const DefaultRuntimePath = "@hxo"

// Generator generates the declaration module
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

// Generate returns the .d.ts text for m.
func (g *Generator) Generate(m *ir.Module) (string, error) {
	var props, emits, reactive []string

	if meta := m.ScriptMeta; meta != nil {
		props = meta.Props
		emits = meta.Emits
		reactive = sortedKeys(meta.Signals, meta.Computed)
	}

	base := TypeName(m.Name)
	propsType := base + "Props"
	emitsType := base + "Emits"

	w := codewriter.New()
	w.Import([]string{"VNode"}, g.RuntimePath+"/core")
	w.Newline()

	w.Block("export interface "+propsType, func(w *codewriter.Writer) {
		if len(props) == 0 {
			w.WriteLine("[key: string]: any;")
			return
		}

		for _, p := range props {
			w.WriteLine(ir.PropertyKey(p) + "?: any;")
		}
	})
	w.Newline()
	w.Newline()

	if len(emits) > 0 {
		w.Block("export interface "+emitsType, func(w *codewriter.Writer) {
			for _, e := range emits {
				w.WriteLine("(e: " + ir.QuoteJS(e) + ", ...args: any[]): void;")
			}
		})
		w.Newline()
		w.Newline()
	}

	w.Block("export interface ComponentInstance", func(w *codewriter.Writer) {
		// signals and computed values are read through accessors
		for _, name := range reactive {
			w.WriteLine(ir.PropertyKey(name) + ": () => any;")
		}

		for _, p := range props {
			w.WriteLine(ir.PropertyKey(p) + ": any;")
		}

		w.WriteLine("$props: " + propsType + ";")

		if len(emits) > 0 {
			w.WriteLine("$emit: " + emitsType + ";")
		}
	})
	w.Newline()
	w.Newline()

	w.WriteLine("declare const component: {")
	w.Indent()
	w.WriteLine("name: " + ir.QuoteJS(m.Name) + ";")
	w.WriteLine("setup(props: " + propsType + "): ComponentInstance;")
	w.WriteLine("render(ctx: ComponentInstance): VNode;")
	w.Dedent()
	w.WriteLine("};")
	w.Newline()
	w.WriteLine("export default component;")

	return w.String(), nil
}

// WriteTo generates m and writes the declarations to w.
func (g *Generator) WriteTo(w io.Writer, m *ir.Module) error {
	code, err := g.Generate(m)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, code)

	return err
}

// TypeName turns a component name into a type identifier: todo-list → TodoList.
func TypeName(name string) string {
	caser := cases.Title(language.English, cases.NoLower)

	var sb strings.Builder

	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$'
	}) {
		sb.WriteString(caser.String(part))
	}

	if sb.Len() == 0 {
		return "Component"
	}

	if s := sb.String(); unicode.IsDigit(rune(s[0])) {
		return "Component" + s
	}

	return sb.String()
}

func sortedKeys(sets ...map[string]bool) []string {
	var keys []string

	for _, set := range sets {
		for k := range set {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	return keys
}
