package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
	"github.com/shibukawa/hxo/testhelper"
)

func TestParseComponent(t *testing.T) {
	src := testhelper.TrimIndent(t, `
		<!-- counter component -->
		<template>
		  <div class="counter">
		    <template v-if="open"><span>{{ count }}</span></template>
		    <button @click="inc">+</button>
		  </div>
		</template>

		<script lang="ts">
		const [count, setCount] = createSignal(0);
		function inc() { setCount(count() + 1); }
		</script>

		<style scoped>
		.counter { color: red; }
		</style>

		<metadata lang="json">{"title": "Counter", "version": 2}</metadata>

		<i18n locale="en">
		greeting: Hello
		</i18n>

		<docs lang="md"># Usage</docs>
		<notes>plain</notes>
	`)

	m, err := Parse("Counter", src, NewDefaultRegistry())
	assert.NoError(t, err)

	assert.Equal(t, "Counter", m.Name)

	var elements []string
	ir.WalkTemplate(m.Template, func(n ir.TemplateNode) bool {
		if el, ok := n.(*ir.Element); ok {
			elements = append(elements, el.Tag)
		}
		return true
	})
	assert.Equal(t, []string{"div", "template", "span", "button"}, elements)

	assert.Equal(t, 2, len(m.Script.Body))
	assert.True(t, m.ScriptMeta.IsReactive("count"))

	assert.Equal(t, 1, len(m.Styles))
	assert.True(t, m.Styles[0].Scoped)
	assert.Equal(t, "css", m.Styles[0].Lang)
	assert.Equal(t, ".counter { color: red; }", m.Styles[0].Code)

	title, _ := m.Metadata["title"].AsString()
	assert.Equal(t, "Counter", title)
	assert.Equal(t, "2", m.Metadata["version"].JS())

	assert.Equal(t, map[string]map[string]string{"en": {"greeting": "Hello"}}, m.I18n)

	assert.Equal(t, 2, len(m.CustomBlocks))
	assert.Equal(t, "docs", m.CustomBlocks[0].Name)
	assert.True(t, strings.Contains(m.CustomBlocks[0].HTML, "<h1"))
	assert.Equal(t, "plain", m.CustomBlocks[1].Content)
	assert.Equal(t, "", m.CustomBlocks[1].HTML)
}

func TestBlockPositionsAreFileRelative(t *testing.T) {
	src := "<script>\nlet a = 1;\n</script>\n<template><p>{{ a }}</p></template>"

	m, err := Parse("Pos", src, NewDefaultRegistry())
	assert.NoError(t, err)

	decl := m.Script.Body[0].(*ir.VariableDecl)
	assert.Equal(t, 2, decl.Span().Start.Line)

	interp := m.Template[0].(*ir.Element).Children[0].(*ir.Interpolation)
	assert.Equal(t, scanner.Position{Line: 4, Column: 14, Offset: 43}, interp.Span().Start)
}

func TestFatalBlockFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown template lang", `<template lang="haml">%div</template>`, ErrParserNotRegistered},
		{"unknown script lang", `<script lang="coffee">a = 1</script>`, ErrParserNotRegistered},
		{"broken template", `<template><div></span></template>`, ErrTemplateParse},
		{"broken script", `<script>const a = ;</script>`, ErrScriptParse},
		{"unclosed block", `<template><div></div>`, scanner.ErrExpectedClosingTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("Broken", tt.src, NewDefaultRegistry())
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBrokenTemplateKeepsPosition(t *testing.T) {
	_, err := Parse("Broken", "\n\n<template><div></span></template>", NewDefaultRegistry())

	var perr *scanner.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Span.Start.Line)
}

func TestNonFatalBlocksAreSkipped(t *testing.T) {
	type skipped struct{ block, lang string }

	var got []skipped

	opts := Options{OnSkip: func(block, lang string, _ error) {
		got = append(got, skipped{block, lang})
	}}

	src := `<style lang="sass">a
  color: red</style>
<style>a { color: red; </style>
<metadata>[1, 2</metadata>
<metadata lang="toml">a = 1</metadata>
<metadata>title: ok</metadata>
<template><p>ok</p></template>`

	m, err := ParseWithOptions("Skip", src, NewDefaultRegistry(), opts)
	assert.NoError(t, err)

	assert.Zero(t, len(m.Styles))
	assert.Equal(t, 1, len(m.Metadata))
	assert.Equal(t, 1, len(m.Template))
	assert.Equal(t, []skipped{
		{"style", "sass"},
		{"style", "css"},
		{"metadata", "yaml"},
		{"metadata", "toml"},
	}, got)
}

func TestMetadataBlocksMerge(t *testing.T) {
	src := "<metadata>a: 1\nb: 2</metadata><metadata lang=\"yml\">b: 3</metadata>"

	m, err := Parse("Meta", src, NewDefaultRegistry())
	assert.NoError(t, err)
	assert.Equal(t, "1", m.Metadata["a"].JS())
	assert.Equal(t, "3", m.Metadata["b"].JS())
}

func TestI18nBlockWithLocales(t *testing.T) {
	src := testhelper.TrimIndent(t, `
		<i18n>
		en:
		  title: Todo
		ja:
		  title: やること
		</i18n>
	`)

	m, err := Parse("Todo", src, NewDefaultRegistry())
	assert.NoError(t, err)
	assert.Equal(t, "やること", m.I18n["ja"]["title"])
	assert.Equal(t, "Todo", m.I18n["en"]["title"])
}

func TestBlockAttributesAreVerbatim(t *testing.T) {
	m, err := Parse("Notes", `<notes path="C:\docs\" note='a\nb'>x</notes>`, NewDefaultRegistry())
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"path": `C:\docs\`, "note": `a\nb`}, m.CustomBlocks[0].Attributes)
}

func TestCustomRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := Parse("Empty", "<template><p/></template>", r)
	assert.True(t, errors.Is(err, ErrParserNotRegistered))

	m, err := Parse("Empty", "<notes>x</notes>", r)
	assert.NoError(t, err)
	assert.Zero(t, m.Script)
	assert.Zero(t, m.ScriptMeta)
	assert.Equal(t, 1, len(m.CustomBlocks))
}

func TestTemplateLanguages(t *testing.T) {
	tests := []struct {
		lang string
		body string
	}{
		{"pug", "\nsection\n  h1 Hello {{ who }}\n"},
		{"md", "# Hello {{ who }}"},
		{"markdown", "# Hello {{ who }}"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			src := `<template lang="` + tt.lang + `">` + tt.body + "</template>"

			m, err := Parse("Greeting", src, NewDefaultRegistry())
			assert.NoError(t, err)

			found := findElement(m.Template, "h1")
			assert.NotZero(t, found)
			assert.Equal(t, "Hello ", found.Children[0].(*ir.Text).Content)
			assert.Equal(t, "who", found.Children[1].(*ir.Interpolation).Code)
		})
	}
}

func findElement(nodes []ir.TemplateNode, tag string) *ir.Element {
	for _, n := range nodes {
		el, ok := n.(*ir.Element)
		if !ok {
			continue
		}

		if el.Tag == tag {
			return el
		}

		if found := findElement(el.Children, tag); found != nil {
			return found
		}
	}

	return nil
}
