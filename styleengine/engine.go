// Package styleengine turns utility class names into CSS rules and collects
// them together with raw style block code.
package styleengine

import (
	"strings"
	"unicode"
)

// Declaration is one `property: value` pair.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a single-class CSS rule.
type Rule struct {
	Class        string
	Declarations []Declaration
}

// Selector returns the escaped class selector, e.g. `.w-1\/2`.
func (r Rule) Selector() string {
	return "." + EscapeClass(r.Class)
}

// CSS renders the rule on one line.
func (r Rule) CSS() string {
	var b strings.Builder

	b.WriteString(r.Selector())
	b.WriteString(" {")

	for _, d := range r.Declarations {
		b.WriteString(" ")
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteString(";")
	}

	b.WriteString(" }")

	return b.String()
}

// Resolver maps a class name to a rule.
type Resolver interface {
	Resolve(class string) (Rule, bool)
}

// Engine accumulates resolved rules and raw CSS. Not safe for concurrent use.
type Engine struct {
	resolver Resolver
	rules    []Rule
	seen     map[string]bool
	raw      []string
}

// New returns an engine backed by resolver; nil selects the built-in utilities.
func New(resolver Resolver) *Engine {
	if resolver == nil {
		resolver = NewUtilityResolver()
	}

	return &Engine{resolver: resolver, seen: map[string]bool{}}
}

// AddClasses resolves every whitespace separated class in text.
// Unknown classes are skipped and duplicates are kept once, in first-seen order.
func (e *Engine) AddClasses(text string) {
	for _, class := range strings.Fields(text) {
		e.AddClass(class)
	}
}

// AddClass resolves a single class name.
func (e *Engine) AddClass(class string) {
	if e.seen[class] {
		return
	}

	rule, ok := e.resolver.Resolve(class)
	if !ok {
		return
	}

	e.seen[class] = true
	e.rules = append(e.rules, rule)
}

// AddRaw appends style block code verbatim.
func (e *Engine) AddRaw(css string) {
	if css = strings.TrimSpace(css); css != "" {
		e.raw = append(e.raw, css)
	}
}

// Rules returns the resolved rules in first-seen order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// CSS returns the resolved rules followed by the raw blocks.
func (e *Engine) CSS() string {
	parts := make([]string, 0, len(e.rules)+len(e.raw))

	for _, r := range e.rules {
		parts = append(parts, r.CSS())
	}

	parts = append(parts, e.raw...)

	if len(parts) == 0 {
		return ""
	}

	return strings.Join(parts, "\n") + "\n"
}

// EscapeClass escapes characters that are not valid in a bare class selector.
func EscapeClass(class string) string {
	var b strings.Builder

	for i, r := range class {
		switch {
		case r == '-' || r == '_' || r >= 0x80:
			b.WriteRune(r)
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r) && i > 0:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteString(`\3`)
			b.WriteRune(r)
			b.WriteString(" ")
		default:
			b.WriteRune('\\')
			b.WriteRune(r)
		}
	}

	return b.String()
}
