package parsertmpl

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
	"github.com/shibukawa/hxo/testhelper"
)

func TestParseElementTree(t *testing.T) {
	nodes, err := Parse(`<div class="container"><h1>Hello</h1><p>{{ message }}</p><!-- note --></div>`)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(nodes))

	div := nodes[0].(*ir.Element)
	assert.Equal(t, "div", div.Tag)
	assert.Equal(t, 1, len(div.Attributes))
	assert.Equal(t, "container", div.Attributes[0].ValueString())
	assert.Equal(t, 3, len(div.Children))

	h1 := div.Children[0].(*ir.Element)
	assert.Equal(t, "Hello", h1.Children[0].(*ir.Text).Content)

	interp := div.Children[1].(*ir.Element).Children[0].(*ir.Interpolation)
	assert.Equal(t, "message", interp.Code)
	assert.Equal(t, "message", interp.Expr.(*ir.Identifier).Name)

	comment := div.Children[2].(*ir.Comment)
	assert.Equal(t, " note ", comment.Content)
}

func TestAttributeValuesAreVerbatim(t *testing.T) {
	nodes, err := Parse(`<input pattern="\d+\\.txt"><a title="C:\dir\" :href="base + '\\x'">x</a>`)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(nodes))

	input := nodes[0].(*ir.Element)
	assert.Equal(t, `\d+\\.txt`, input.Attributes[0].ValueString())

	link := nodes[1].(*ir.Element)
	assert.Equal(t, `C:\dir\`, link.Attributes[0].ValueString())

	href := link.Attributes[1].Expr.(*ir.Binary)
	assert.Equal(t, `\x`, href.Right.(*ir.Literal).Value.Str)
	// the expression span lines up with the raw source
	assert.Equal(t, 54, href.Span().Start.Column)
}

func TestAttributeClassification(t *testing.T) {
	nodes, err := Parse(`<button @click="inc" :disabled="busy" class="a b" id=main>+</button>`)
	assert.NoError(t, err)

	attrs := nodes[0].(*ir.Element).Attributes
	assert.Equal(t, 4, len(attrs))

	click := attrs[0]
	assert.True(t, click.IsDirective)
	assert.True(t, click.IsDynamic)
	assert.Equal(t, "inc", click.Expr.(*ir.Identifier).Name)

	assert.True(t, attrs[1].IsDirective)
	assert.Equal(t, "busy", attrs[1].Expr.(*ir.Identifier).Name)

	class := attrs[2]
	assert.False(t, class.IsDirective)
	assert.True(t, class.IsDynamic)
	assert.Zero(t, class.Expr)

	id := attrs[3]
	assert.Equal(t, "main", id.ValueString())
	assert.False(t, id.IsDynamic)
}

func TestBareAttribute(t *testing.T) {
	nodes, err := Parse(`<input disabled type="text">`)
	assert.NoError(t, err)

	input := nodes[0].(*ir.Element)
	assert.Equal(t, 2, len(input.Attributes))
	assert.Zero(t, input.Attributes[0].Value)
	assert.Equal(t, "text", input.Attributes[1].ValueString())
}

func TestVoidElementsDoNotTakeChildren(t *testing.T) {
	nodes, err := Parse(`<p>a<br>b<img src="x.png"></p>`)
	assert.NoError(t, err)

	p := nodes[0].(*ir.Element)
	assert.Equal(t, 4, len(p.Children))
	assert.Equal(t, "br", p.Children[1].(*ir.Element).Tag)
	assert.Equal(t, "b", p.Children[2].(*ir.Text).Content)
	assert.Zero(t, len(p.Children[3].(*ir.Element).Children))
}

func TestSelfClosing(t *testing.T) {
	nodes, err := Parse(`<Card title="x" /><span/>`)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(nodes))
	assert.Equal(t, "Card", nodes[0].(*ir.Element).Tag)
}

func TestRawTextElements(t *testing.T) {
	nodes, err := Parse(`<script>if (a < b) { x = "<div>" }</script>`)
	assert.NoError(t, err)

	script := nodes[0].(*ir.Element)
	assert.Equal(t, 1, len(script.Children))
	assert.Equal(t, `if (a < b) { x = "<div>" }`, script.Children[0].(*ir.Text).Content)
}

func TestLessThanInTextIsText(t *testing.T) {
	nodes, err := Parse(`<p>1 < 2</p>`)
	assert.NoError(t, err)
	assert.Equal(t, "1 < 2", nodes[0].(*ir.Element).Children[0].(*ir.Text).Content)
}

func TestUnparsableInterpolationKeepsCode(t *testing.T) {
	nodes, err := Parse(`{{ items.map(i => i.name).join(", ") }}{{ a b }}`)
	assert.NoError(t, err)

	first := nodes[0].(*ir.Interpolation)
	assert.NotZero(t, first.Expr)

	second := nodes[1].(*ir.Interpolation)
	assert.Equal(t, "a b", second.Code)
	assert.Zero(t, second.Expr)
}

func TestInterpolationSpans(t *testing.T) {
	nodes, err := ParseAt("<p>\n  {{ count }}</p>", scanner.Position{Line: 10, Column: 1, Offset: 100})
	assert.NoError(t, err)

	interp := nodes[0].(*ir.Element).Children[1].(*ir.Interpolation)
	assert.Equal(t, scanner.Position{Line: 11, Column: 3, Offset: 106}, interp.Span().Start)
	assert.Equal(t, scanner.Position{Line: 11, Column: 6, Offset: 109}, interp.Expr.Span().Start)
}

func TestTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"mismatched closing tag" + testhelper.GetCaller(t), "<div><span></div>", scanner.ErrExpectedClosingTag},
		{"missing closing tag" + testhelper.GetCaller(t), "<div><p>text</p>", scanner.ErrExpectedClosingTag},
		{"eof inside open tag" + testhelper.GetCaller(t), `<div class="a"`, scanner.ErrExpectedClosingTag},
		{"unterminated interpolation" + testhelper.GetCaller(t), "{{ a", scanner.ErrExpectedString},
		{"stray closing tag" + testhelper.GetCaller(t), "text</div>", scanner.ErrTrailingContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
