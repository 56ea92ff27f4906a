package ir

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/shibukawa/hxo/scanner"
)

func strp(s string) *string { return &s }

func TestNewAttributeClassification(t *testing.T) {
	tests := []struct {
		name      string
		directive bool
		dynamic   bool
	}{
		{"@click", true, true},
		{":title", true, true},
		{"v-if", true, true},
		{"v-on:submit", true, true},
		{"class", false, true},
		{"style", false, true},
		{"id", false, false},
		{"data-h-1234abcd", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAttribute(tt.name, strp("x"), scanner.UnknownSpan())
			assert.Equal(t, tt.directive, a.IsDirective)
			assert.Equal(t, tt.dynamic, a.IsDynamic)
		})
	}
}

func TestAttributeArgument(t *testing.T) {
	assert.Equal(t, "click", NewAttribute("@click", nil, scanner.UnknownSpan()).Argument())
	assert.Equal(t, "submit", NewAttribute("v-on:submit", nil, scanner.UnknownSpan()).Argument())
	assert.Equal(t, "title", NewAttribute(":title", nil, scanner.UnknownSpan()).Argument())
	assert.Equal(t, "href", NewAttribute("v-bind:href", nil, scanner.UnknownSpan()).Argument())
	assert.True(t, NewAttribute("v-on:submit", nil, scanner.UnknownSpan()).IsEvent())
	assert.False(t, NewAttribute("v-if", nil, scanner.UnknownSpan()).IsBinding())
}

func TestBoundNames(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"count", []string{"count"}},
		{"[count, setCount]", []string{"count", "setCount"}},
		{"{ a, b: c }", []string{"a", "c"}},
		{"[first, ...rest]", []string{"first", "rest"}},
		{"{ x = 1 }", []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			d := &VariableDecl{Kind: "const", Pattern: tt.pattern}
			assert.Equal(t, tt.want, d.BoundNames())
		})
	}
}

func TestValueJS(t *testing.T) {
	v := Object(map[string]Value{
		"title":   String("it's"),
		"count":   Number(decimal.RequireFromString("1.50")),
		"tags":    Array(String("a"), Bool(true), Null()),
		"my-prop": Int(3),
	})

	assert.Equal(t, `{ count: 1.5, 'my-prop': 3, tags: ['a', true, null], title: 'it\'s' }`, v.JS())
	assert.Equal(t, `'a\nb '`, QuoteJS("a\nb "))
}

func TestValueInterface(t *testing.T) {
	v := Object(map[string]Value{"n": Int(2), "f": Number(decimal.RequireFromString("0.5"))})
	assert.Equal(t, map[string]any{"n": int64(2), "f": 0.5}, v.Interface().(map[string]any))
}

func TestWalkTemplateSkipsChildren(t *testing.T) {
	inner := &Text{Content: "x"}
	tree := []TemplateNode{
		&Element{Tag: "div", Children: []TemplateNode{
			&Element{Tag: "p", Children: []TemplateNode{inner}},
		}},
		&Comment{Content: "c"},
	}

	var seen []string

	WalkTemplate(tree, func(n TemplateNode) bool {
		switch n := n.(type) {
		case *Element:
			seen = append(seen, n.Tag)
			return n.Tag != "p"
		case *Text:
			seen = append(seen, "text")
		case *Comment:
			seen = append(seen, "comment")
		}

		return true
	})

	assert.Equal(t, []string{"div", "p", "comment"}, seen)
}

func TestRewriteExpressionBottomUp(t *testing.T) {
	call := &Call{
		Callee: &Identifier{Name: "f"},
		Args:   []Expression{&Identifier{Name: "a"}, &Binary{Left: &Identifier{Name: "a"}, Op: "+", Right: &Identifier{Name: "b"}}},
	}

	out := RewriteExpression(call, func(e Expression) Expression {
		if id, ok := e.(*Identifier); ok && id.Name == "a" {
			return &Literal{Value: Int(1)}
		}

		return e
	})

	var literals int

	WalkExpression(out, func(e Expression) bool {
		if _, ok := e.(*Literal); ok {
			literals++
		}

		return true
	})

	assert.Equal(t, 2, literals)
}

func TestScriptMetaIsReactive(t *testing.T) {
	var nilMeta *ScriptMeta
	assert.False(t, nilMeta.IsReactive("a"))

	m := &ScriptMeta{Signals: map[string]bool{"a": true}, Computed: map[string]bool{"b": true}}
	assert.True(t, m.IsReactive("a"))
	assert.True(t, m.IsReactive("b"))
	assert.False(t, m.IsReactive("setA"))
}
