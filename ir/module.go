package ir

import "github.com/shibukawa/hxo/scanner"

// StyleBlock is the CSS produced by a style sub-parser.
type StyleBlock struct {
	Code   string
	Lang   string
	Scoped bool
	Loc    scanner.Span
}

// CustomBlock is any top-level block that is not template/script/style/metadata.
// HTML holds rendered output when a renderer is registered for the block language.
type CustomBlock struct {
	Name       string
	Attributes map[string]string
	Content    string
	HTML       string
	Loc        scanner.Span
}

// ScriptMeta is the result of script analysis.
type ScriptMeta struct {
	Signals  map[string]bool
	Computed map[string]bool
	Props    []string
	Emits    []string
}

// IsReactive reports whether name is a signal or computed binding.
func (m *ScriptMeta) IsReactive(name string) bool {
	if m == nil {
		return false
	}

	return m.Signals[name] || m.Computed[name]
}

// Module is the unit passed from parsing through optimization to generation.
// A Module owns every node reachable from it.
type Module struct {
	Name         string
	Metadata     map[string]Value
	Script       *Program
	ScriptMeta   *ScriptMeta
	Template     []TemplateNode
	Styles       []StyleBlock
	I18n         map[string]map[string]string
	CustomBlocks []CustomBlock

	// Filled by the optimizer.
	ScopeID    string
	CSS        string
	CallCounts map[string]int
}

// NewModule returns an empty module named name.
func NewModule(name string) *Module {
	return &Module{
		Name:     name,
		Metadata: map[string]Value{},
	}
}

// HasScopedStyle reports whether any style block is scoped.
func (m *Module) HasScopedStyle() bool {
	for _, s := range m.Styles {
		if s.Scoped {
			return true
		}
	}

	return false
}
