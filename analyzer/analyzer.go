// Package analyzer finds the reactive bindings, props and emits a component
// script declares.
package analyzer

import (
	"strings"

	"github.com/shibukawa/hxo/ir"
)

// Well-known runtime entry points.
const (
	CreateSignal   = "createSignal"
	CreateComputed = "createComputed"
	DefineProps    = "defineProps"
	DefineEmits    = "defineEmits"
)

// Analyze inspects the top-level statements of prog.
// Imported aliases such as `createSignal as signal` are followed.
func Analyze(prog *ir.Program) *ir.ScriptMeta {
	meta := &ir.ScriptMeta{
		Signals:  map[string]bool{},
		Computed: map[string]bool{},
	}

	if prog == nil {
		return meta
	}

	a := &analysis{meta: meta, aliases: map[string]string{}}

	for _, stmt := range prog.Body {
		if imp, ok := stmt.(*ir.Import); ok {
			a.collectAliases(imp)
		}
	}

	for _, stmt := range prog.Body {
		a.statement(stmt)
	}

	return meta
}

type analysis struct {
	meta    *ir.ScriptMeta
	aliases map[string]string // local name -> runtime name
}

func (a *analysis) collectAliases(imp *ir.Import) {
	for _, spec := range imp.Specifiers {
		imported, local, found := strings.Cut(spec, " as ")
		if !found {
			continue
		}

		a.aliases[strings.TrimSpace(local)] = strings.TrimSpace(imported)
	}
}

// callee returns the runtime name of a direct call, or "".
func (a *analysis) callee(e ir.Expression) (string, *ir.Call) {
	call, ok := e.(*ir.Call)
	if !ok {
		return "", nil
	}

	id, ok := call.Callee.(*ir.Identifier)
	if !ok {
		return "", nil
	}

	if name, ok := a.aliases[id.Name]; ok {
		return name, call
	}

	return id.Name, call
}

func (a *analysis) statement(stmt ir.Statement) {
	switch s := stmt.(type) {
	case *ir.Export:
		if s.Declaration != nil {
			a.statement(s.Declaration)
		}
	case *ir.ExpressionStmt:
		name, call := a.callee(s.Expr)
		a.define(name, call)
	case *ir.VariableDecl:
		a.variable(s)
	}
}

func (a *analysis) variable(decl *ir.VariableDecl) {
	name, call := a.callee(decl.Init)
	if call == nil {
		return
	}

	names := decl.BoundNames()
	if len(names) == 0 {
		return
	}

	switch name {
	case CreateSignal:
		// [value, setValue] = createSignal(x) makes value the signal getter.
		a.meta.Signals[names[0]] = true
	case CreateComputed:
		a.meta.Computed[names[0]] = true
	default:
		a.define(name, call)
	}
}

func (a *analysis) define(name string, call *ir.Call) {
	if call == nil || len(call.Args) == 0 {
		return
	}

	switch name {
	case DefineProps:
		a.meta.Props = appendUnique(a.meta.Props, declaredNames(call.Args[0])...)
	case DefineEmits:
		a.meta.Emits = appendUnique(a.meta.Emits, declaredNames(call.Args[0])...)
	}
}

// declaredNames reads `['a', 'b']` or `{ a: ..., b: ... }`.
func declaredNames(e ir.Expression) []string {
	var names []string

	switch e := e.(type) {
	case *ir.ArrayLiteral:
		for _, item := range e.Elements {
			if lit, ok := item.(*ir.Literal); ok {
				if s, ok := lit.Value.AsString(); ok {
					names = append(names, s)
				}
			}
		}
	case *ir.ObjectLiteral:
		for _, p := range e.Properties {
			if p.Key != "" {
				names = append(names, p.Key)
			}
		}
	}

	return names
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

		if !found {
			list = append(list, n)
		}
	}

	return list
}
