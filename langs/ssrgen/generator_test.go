package ssrgen

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/optimizer"
	"github.com/shibukawa/hxo/parser"
	"github.com/shibukawa/hxo/testhelper"
)

func module(t *testing.T, src string) *ir.Module {
	t.Helper()

	m, err := parser.Parse("Test", src, parser.NewDefaultRegistry())
	assert.NoError(t, err)

	optimizer.New().Execute(m)

	return m
}

func TestRenderMarkersAndEscaping(t *testing.T) {
	m := module(t, `<template><div :title="label" @click="go"><span>x</span>{{ count }}<br></div></template>`)

	code, err := New().Generate(m)
	assert.NoError(t, err)

	expected := testhelper.TrimIndent(t, `
		import { escapeHtml as _esc } from '@hxo/core';

		export function render(ctx) {
			let html = '';
			html += '<div data-hxo-id="0" title="' + _esc(ctx.label) + '">';
			html += '<span>';
			html += 'x';
			html += '</span>';
			html += '<span data-hxo-id="3">' + _esc(ctx.count) + '</span>';
			html += '<br>';
			html += '</div>';
			return html;
		}
	`)

	assert.Equal(t, expected, code)
	assert.NotContains(t, code, "</br>")
	assert.Equal(t, []int{0, 3}, Indices(m))
}

func TestStaticElementHasNoMarker(t *testing.T) {
	m := module(t, `<template><p id="note">a < b & 'c'</p></template>`)

	code, err := New().Generate(m)
	assert.NoError(t, err)

	assert.Contains(t, code, `html += '<p id="note">';`)
	assert.Contains(t, code, `html += 'a &lt; b &amp; &#39;c&#39;';`)
	assert.Contains(t, code, `html += '</p>';`)
	assert.NotContains(t, code, "data-hxo-id")
	assert.NotContains(t, code, "import")
}

func TestSignalsAreReadThroughAccessors(t *testing.T) {
	m := module(t, `<template><p>{{ count * 2 }}</p></template>
<script>
const [count, setCount] = createSignal(0);
</script>`)

	code, err := New(WithRuntimePath("/rt")).Generate(m)
	assert.NoError(t, err)

	assert.Contains(t, code, "import { escapeHtml as _esc } from '/rt/core';")
	assert.Contains(t, code, `html += '<span data-hxo-id="1">' + _esc(ctx.count() * 2) + '</span>';`)
}

func TestTranslatedInterpolationIsInlined(t *testing.T) {
	m, err := parser.Parse("Test", `<template><h1>{{ $t('title') }}</h1></template>`, parser.NewDefaultRegistry())
	assert.NoError(t, err)

	optimizer.New(optimizer.WithMessages(map[string]string{"title": "<Hi>"})).Execute(m)

	code, err := New().Generate(m)
	assert.NoError(t, err)

	assert.Contains(t, code, `html += '<span data-hxo-id="1">&lt;Hi&gt;</span>';`)
	assert.NotContains(t, code, "_esc")
}

func TestRawTextAndComments(t *testing.T) {
	m := module(t, `<template><style>a > b {}</style><!-- note --></template>`)

	code, err := New().Generate(m)
	assert.NoError(t, err)

	assert.Contains(t, code, `html += 'a > b {}';`)
	assert.Contains(t, code, `html += '<!-- note -->';`)
}
