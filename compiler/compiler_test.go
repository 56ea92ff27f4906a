package compiler

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibukawa/hxo"
	"github.com/shibukawa/hxo/i18n"
	"github.com/shibukawa/hxo/parser"
	"github.com/shibukawa/hxo/scanner"
)

const cardSource = `<template>
  <div class="card">
    <h2>{{ $t('title') }}</h2>
    <button @click="inc" :disabled="busy">{{ count }}</button>
  </div>
</template>
<script>
import { createSignal } from '@hxo/core';
const [count, setCount] = createSignal(0);
const busy = false;
function inc() {
  setCount(count() + 1);
}
</script>
<style scoped>
.card { color: red; }
</style>
<i18n>
en:
  title: Hello
fr:
  title: Bonjour
</i18n>
`

func TestCompileAllTargets(t *testing.T) {
	c := New()

	result, err := c.Compile("components/Card.hxo", cardSource, CompileOptions{
		Targets: hxo.Targets,
		ScopeID: "data-h-test",
	})
	require.NoError(t, err)

	require.Equal(t, "Card", result.Module.Name)
	require.Contains(t, result.JS, "name: 'Card',")
	require.Contains(t, result.JS, "const { t: $t } = useI18n(i18n);")
	require.Contains(t, result.SSR, "export function render(ctx) {")
	require.Contains(t, result.Hydrate, "export function hydrate(root, ctx) {")
	require.Contains(t, result.Hydrate, "addEventListener('click'")
	require.Contains(t, result.CSS, ".card[data-h-test]")
	require.Contains(t, result.DTS, "export interface CardProps {")
	require.Contains(t, result.DTS, "  count: () => any;")

	require.NotNil(t, result.SourceMap)
	require.Equal(t, []string{"Card.hxo"}, result.SourceMap.Sources)
	require.Equal(t, []string{cardSource}, result.SourceMap.SourcesContent)
}

func TestCompileDefaultsToJS(t *testing.T) {
	result, err := New().Compile("Card.hxo", cardSource, CompileOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, result.JS)
	require.Empty(t, result.SSR)
	require.Empty(t, result.Hydrate)
	require.Empty(t, result.CSS)
	require.Empty(t, result.DTS)
	require.True(t, strings.Contains(result.JS, "from '@hxo/core'"))
}

func TestCompileLocaleSelection(t *testing.T) {
	tests := []struct {
		name string
		opts CompileOptions
		want string
	}{
		{
			name: "negotiated locale",
			opts: CompileOptions{Locale: "fr-CA"},
			want: "'Bonjour'",
		},
		{
			name: "fallback when nothing matches",
			opts: CompileOptions{Locale: "ja", Fallback: "en"},
			want: "'Hello'",
		},
		{
			name: "explicit messages win",
			opts: CompileOptions{Locale: "fr", Messages: map[string]string{"title": "Hallo"}},
			want: "'Hallo'",
		},
		{
			name: "catalog is overridden by the component",
			opts: CompileOptions{
				Locale:  "fr",
				Catalog: i18n.Table{"fr": {"title": "Salut"}, "de": {"title": "Hallo"}},
			},
			want: "'Bonjour'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Compile("Card.hxo", cardSource, tt.opts)
			require.NoError(t, err)
			require.Contains(t, result.JS, tt.want)
			require.NotContains(t, result.JS, "$t('title')")
		})
	}
}

func TestCompileWithoutLocaleKeepsRuntimeLookup(t *testing.T) {
	result, err := New().Compile("Card.hxo", cardSource, CompileOptions{})
	require.NoError(t, err)
	require.Contains(t, result.JS, "$t('title')")
}

func TestCompileProduction(t *testing.T) {
	result, err := New().Compile("Card.hxo", cardSource, CompileOptions{
		Targets:    []hxo.Target{hxo.TargetJS, hxo.TargetCSS},
		Production: true,
	})
	require.NoError(t, err)

	require.Empty(t, result.SourceMap.SourcesContent)
	require.NotContains(t, result.CSS, "\n")
	require.True(t, strings.HasPrefix(result.Module.ScopeID, "data-h-"))
}

func TestCompileRuntimePath(t *testing.T) {
	result, err := New().Compile("Card.hxo", cardSource, CompileOptions{
		Targets:     []hxo.Target{hxo.TargetJS, hxo.TargetSSR},
		RuntimePath: "/vendor/hxo",
	})
	require.NoError(t, err)

	require.Contains(t, result.JS, "from '/vendor/hxo/dom'")
	require.NotContains(t, result.JS, "'@hxo/dom'")
}

func TestCompileTemplateError(t *testing.T) {
	_, err := New().Compile("Broken.hxo", "<template>\n  <div><span></div>\n</template>", CompileOptions{})
	require.Error(t, err)
	require.True(t, errors.Is(err, parser.ErrTemplateParse))
	require.True(t, strings.HasPrefix(err.Error(), "Broken.hxo: "))

	var perr *scanner.ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, 2, perr.Span.Start.Line)
}

func TestSkipHandler(t *testing.T) {
	var skipped []string

	c := New(WithSkipHandler(func(name, block, lang string, err error) {
		skipped = append(skipped, name+":"+block+":"+lang)
	}))

	_, err := c.Compile("Card.hxo", "<template><p>x</p></template>\n<style lang=\"scss\">a { b: c }</style>", CompileOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"Card.hxo:style:scss"}, skipped)
}

func TestConcurrentCompile(t *testing.T) {
	c := New()

	want, err := c.Compile("Card.hxo", cardSource, CompileOptions{Targets: hxo.Targets})
	require.NoError(t, err)

	var wg sync.WaitGroup

	results := make([]*Result, 8)
	errs := make([]error, 8)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Compile("Card.hxo", cardSource, CompileOptions{Targets: hxo.Targets})
		}()
	}

	wg.Wait()

	for i, r := range results {
		require.NoError(t, errs[i])
		require.Equal(t, want.JS, r.JS)
		require.Equal(t, want.SSR, r.SSR)
		require.Equal(t, want.Hydrate, r.Hydrate)
		require.Equal(t, want.CSS, r.CSS)
	}
}

func TestComponentName(t *testing.T) {
	require.Equal(t, "Counter", ComponentName("src/ui/Counter.hxo"))
	require.Equal(t, "plain", ComponentName("plain"))
}

const operatorSource = "<template><p>{{ `Hi ${user}` }}</p><b>{{ n ** 2 }}</b><i>{{ flags & 1 }}</i><s>{{ /ab+c/.test(user) }}</s></template>\n" + `<script>
import { createSignal } from '@hxo/core';
const user = 'Ann';
const [n, setN] = createSignal(3);
const flags = 5;
</script>
`

func TestInterpolationsAgreeAcrossTargets(t *testing.T) {
	result, err := New().Compile("Ops.hxo", operatorSource, CompileOptions{
		Targets: []hxo.Target{hxo.TargetJS, hxo.TargetSSR, hxo.TargetHydrate},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		code string
	}{
		{"template literal", "`Hi ${ctx.user}`"},
		{"exponent", "ctx.n() ** 2"},
		{"bitwise and", "ctx.flags & 1"},
		{"unparsed code", "/ab+c/.test(user)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Contains(t, result.JS, "createTextVNode("+tt.code+")")
			require.Contains(t, result.SSR, "_esc("+tt.code+")")
			require.Contains(t, result.Hydrate, ".textContent = "+tt.code+";")
		})
	}

	require.NotContains(t, result.SSR, "flags &amp; 1")
	require.Equal(t, 4, strings.Count(result.Hydrate, "createEffect(() =>"))
}

func TestCompileDeclarations(t *testing.T) {
	src := `<template><button @click="emit('pick', label)">{{ label }}</button></template>
<script>
const props = defineProps(['label']);
const emit = defineEmits(['pick']);
</script>
`

	result, err := New().Compile("option-chip.hxo", src, CompileOptions{
		Targets:     []hxo.Target{hxo.TargetDTS},
		RuntimePath: "/runtime",
	})
	require.NoError(t, err)

	require.Empty(t, result.JS)
	require.Contains(t, result.DTS, "import { VNode } from '/runtime/core';")
	require.Contains(t, result.DTS, "export interface OptionChipProps {\n  label?: any;\n}")
	require.Contains(t, result.DTS, "(e: 'pick', ...args: any[]): void;")
	require.Contains(t, result.DTS, "  $emit: OptionChipEmits;")
	require.Contains(t, result.DTS, "name: 'option-chip';")
}
