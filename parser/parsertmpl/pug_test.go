package parsertmpl

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
	"github.com/shibukawa/hxo/testhelper"
)

func TestParsePugText(t *testing.T) {
	nodes, err := ParsePug("p Hello")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(nodes))

	p := nodes[0].(*ir.Element)
	assert.Equal(t, "p", p.Tag)
	assert.Equal(t, "Hello", p.Children[0].(*ir.Text).Content)
}

func TestParsePugTree(t *testing.T) {
	nodes, err := ParsePug(`ul#menu.nav.main(:class="mode", role=list)
  li.item(@click="open(home)") {{ home.label }}
  li= footer
  li
    | Plain
    a(href='/x') more
  // kept
  //- dropped

p done
`)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(nodes))

	ul := nodes[0].(*ir.Element)
	assert.Equal(t, "ul", ul.Tag)
	assert.Equal(t, 4, len(ul.Attributes))
	assert.Equal(t, "menu", ul.Attributes[0].ValueString())
	assert.Equal(t, "class", ul.Attributes[1].Name)
	assert.Equal(t, "nav main", ul.Attributes[1].ValueString())
	assert.Equal(t, "mode", ul.Attributes[2].Expr.(*ir.Identifier).Name)
	assert.Equal(t, "list", ul.Attributes[3].ValueString())
	assert.Equal(t, 4, len(ul.Children))

	first := ul.Children[0].(*ir.Element)
	assert.Equal(t, "item", first.Attributes[0].ValueString())
	assert.True(t, first.Attributes[1].IsEvent())
	assert.NotZero(t, first.Attributes[1].Expr)
	assert.Equal(t, "home.label", first.Children[0].(*ir.Interpolation).Code)

	second := ul.Children[1].(*ir.Element)
	assert.Equal(t, "footer", second.Children[0].(*ir.Interpolation).Expr.(*ir.Identifier).Name)

	third := ul.Children[2].(*ir.Element)
	assert.Equal(t, 2, len(third.Children))
	assert.Equal(t, "Plain", third.Children[0].(*ir.Text).Content)

	link := third.Children[1].(*ir.Element)
	assert.Equal(t, "a", link.Tag)
	assert.Equal(t, "/x", link.Attributes[0].ValueString())
	assert.Equal(t, "more", link.Children[0].(*ir.Text).Content)

	assert.Equal(t, " kept", ul.Children[3].(*ir.Comment).Content)

	p := nodes[1].(*ir.Element)
	assert.Equal(t, "done", p.Children[0].(*ir.Text).Content)
}

func TestParsePugShorthandDefaultsToDiv(t *testing.T) {
	nodes, err := ParsePug(".card\n  <b>{{ title }}</b>")
	assert.NoError(t, err)

	card := nodes[0].(*ir.Element)
	assert.Equal(t, "div", card.Tag)
	assert.Equal(t, "card", card.Attributes[0].ValueString())
	assert.Equal(t, "b", card.Children[0].(*ir.Element).Tag)
}

func TestParsePugSpans(t *testing.T) {
	nodes, err := ParsePugAt("div\n  span= x", scanner.Position{Line: 5, Column: 1, Offset: 40})
	assert.NoError(t, err)

	span := nodes[0].(*ir.Element).Children[0].(*ir.Element)
	assert.Equal(t, scanner.Position{Line: 6, Column: 3, Offset: 46}, span.Span().Start)
	assert.Equal(t, scanner.Position{Line: 6, Column: 9, Offset: 52}, span.Children[0].(*ir.Interpolation).Expr.Span().Start)
}

func TestParsePugErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unclosed attribute list" + testhelper.GetCaller(t), "a(href='x'\np", scanner.ErrExpectedChar},
		{"empty class shorthand" + testhelper.GetCaller(t), "div.(x)", scanner.ErrUnexpectedChar},
		{"junk after attributes" + testhelper.GetCaller(t), "p(a=1)x", scanner.ErrUnexpectedChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePug(tt.src)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
