package ir

import (
	"strings"

	"github.com/shibukawa/hxo/scanner"
)

// TemplateNode is a closed sum of template tree nodes.
type TemplateNode interface {
	Span() scanner.Span
	templateNode()
}

// Element is a markup element. IsStatic is only meaningful after the optimizer ran.
type Element struct {
	Tag        string
	Attributes []*Attribute
	Children   []TemplateNode
	IsStatic   bool
	Loc        scanner.Span
}

type Text struct {
	Content string
	Loc     scanner.Span
}

// Interpolation is a `{{ code }}` splice. Expr is nil when the code could not be parsed.
type Interpolation struct {
	Code string
	Expr Expression
	Loc  scanner.Span
}

type Comment struct {
	Content string
	Loc     scanner.Span
}

func (n *Element) Span() scanner.Span       { return n.Loc }
func (n *Text) Span() scanner.Span          { return n.Loc }
func (n *Interpolation) Span() scanner.Span { return n.Loc }
func (n *Comment) Span() scanner.Span       { return n.Loc }

func (*Element) templateNode()       {}
func (*Text) templateNode()          {}
func (*Interpolation) templateNode() {}
func (*Comment) templateNode()       {}

// Attribute on a template element. Value is nil for bare attributes.
// IsDirective and IsDynamic are decided by NewAttribute and never revisited.
type Attribute struct {
	Name        string
	Value       *string
	Expr        Expression
	IsDirective bool
	IsDynamic   bool
	Loc         scanner.Span
}

// Attribute sigils.
const (
	EventSigil      = "@"
	BindSigil       = ":"
	DirectivePrefix = "v-"
)

// NewAttribute builds an attribute and classifies it.
func NewAttribute(name string, value *string, span scanner.Span) *Attribute {
	directive := IsDirectiveName(name)

	return &Attribute{
		Name:        name,
		Value:       value,
		IsDirective: directive,
		IsDynamic:   directive || name == "class" || name == "style",
		Loc:         span,
	}
}

// IsDirectiveName reports whether an attribute name carries a directive sigil.
func IsDirectiveName(name string) bool {
	return strings.HasPrefix(name, EventSigil) || strings.HasPrefix(name, BindSigil) || strings.HasPrefix(name, DirectivePrefix)
}

// IsEvent reports whether the attribute is an event binding (@click, v-on:click).
func (a *Attribute) IsEvent() bool {
	return strings.HasPrefix(a.Name, EventSigil) || strings.HasPrefix(a.Name, DirectivePrefix+"on:")
}

// IsBinding reports whether the attribute binds a property (:title, v-bind:title).
func (a *Attribute) IsBinding() bool {
	return strings.HasPrefix(a.Name, BindSigil) || strings.HasPrefix(a.Name, DirectivePrefix+"bind:")
}

// Argument returns the attribute name without its sigil or directive prefix.
func (a *Attribute) Argument() string {
	switch {
	case strings.HasPrefix(a.Name, DirectivePrefix+"on:"):
		return strings.TrimPrefix(a.Name, DirectivePrefix+"on:")
	case strings.HasPrefix(a.Name, DirectivePrefix+"bind:"):
		return strings.TrimPrefix(a.Name, DirectivePrefix+"bind:")
	case strings.HasPrefix(a.Name, EventSigil):
		return strings.TrimPrefix(a.Name, EventSigil)
	case strings.HasPrefix(a.Name, BindSigil):
		return strings.TrimPrefix(a.Name, BindSigil)
	default:
		return a.Name
	}
}

// ValueString returns the raw value or "".
func (a *Attribute) ValueString() string {
	if a.Value == nil {
		return ""
	}

	return *a.Value
}

func (a *Attribute) Span() scanner.Span { return a.Loc }

// WalkTemplate visits nodes depth-first, pre-order. Returning false from fn
// skips the node's children.
func WalkTemplate(nodes []TemplateNode, fn func(TemplateNode) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}

		if el, ok := n.(*Element); ok {
			WalkTemplate(el.Children, fn)
		}
	}
}
