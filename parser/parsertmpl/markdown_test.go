package parsertmpl

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

func TestMarkdownTemplate(t *testing.T) {
	src := "# Hello {{ name }}\n\nSome **bold** & <Counter :step=\"2\" /> text with {{ a * b }}.\n"

	nodes, err := NewMarkdown().ParseTemplate(src, scanner.Position{Line: 3, Column: 1, Offset: 20})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(nodes))

	h1 := nodes[0].(*ir.Element)
	assert.Equal(t, "h1", h1.Tag)
	assert.Equal(t, "Hello ", h1.Children[0].(*ir.Text).Content)
	assert.Equal(t, "name", h1.Children[1].(*ir.Interpolation).Expr.(*ir.Identifier).Name)
	assert.Equal(t, 3, h1.Span().Start.Line)

	p := nodes[1].(*ir.Element)
	assert.Equal(t, "p", p.Tag)
	assert.Equal(t, 7, len(p.Children))
	assert.Equal(t, "strong", p.Children[1].(*ir.Element).Tag)
	assert.Equal(t, " & ", p.Children[2].(*ir.Text).Content)

	counter := p.Children[3].(*ir.Element)
	assert.Equal(t, "Counter", counter.Tag)
	assert.True(t, counter.Attributes[0].IsBinding())
	assert.NotZero(t, counter.Attributes[0].Expr)

	assert.Equal(t, "a * b", p.Children[5].(*ir.Interpolation).Code)
}

func TestMarkdownRenderKeepsInterpolations(t *testing.T) {
	out, err := NewMarkdown().Render("{{ a*b }} x {{ c*d }}")
	assert.NoError(t, err)
	assert.Equal(t, "<p>{{ a*b }} x {{ c*d }}</p>\n", out)
}

func TestMarkdownUnescapesAttributes(t *testing.T) {
	nodes, err := NewMarkdown().ParseTemplate("[docs](https://x.dev/?a=1&b=2)", scanner.Position{})
	assert.NoError(t, err)

	link := nodes[0].(*ir.Element).Children[0].(*ir.Element)
	assert.Equal(t, "a", link.Tag)
	assert.Equal(t, "https://x.dev/?a=1&b=2", link.Attributes[0].ValueString())
	assert.Equal(t, "docs", link.Children[0].(*ir.Text).Content)
}
