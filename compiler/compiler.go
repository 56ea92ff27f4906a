// Package compiler runs the whole pipeline for one component:
// block splitting, optimization and the selected backends.
package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shibukawa/hxo"
	"github.com/shibukawa/hxo/i18n"
	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/langs/cssgen"
	"github.com/shibukawa/hxo/langs/dtsgen"
	"github.com/shibukawa/hxo/langs/hydrategen"
	"github.com/shibukawa/hxo/langs/jsgen"
	"github.com/shibukawa/hxo/langs/ssrgen"
	"github.com/shibukawa/hxo/optimizer"
	"github.com/shibukawa/hxo/parser"
	"github.com/shibukawa/hxo/sourcemap"
	"github.com/shibukawa/hxo/styleengine"
)

// SkipFunc receives blocks the splitter dropped.
type SkipFunc func(name, block, lang string, err error)

// Compiler holds what is shared between compilations.
// It is safe for concurrent use once constructed.
type Compiler struct {
	registry *parser.Registry
	resolver styleengine.Resolver
	onSkip   SkipFunc
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRegistry replaces the default sub-parser registry.
func WithRegistry(r *parser.Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// WithResolver replaces the built-in utility class resolver.
func WithResolver(r styleengine.Resolver) Option {
	return func(c *Compiler) {
		c.resolver = r
	}
}

// WithSkipHandler reports dropped style, metadata, i18n and custom blocks.
func WithSkipHandler(fn SkipFunc) Option {
	return func(c *Compiler) {
		c.onSkip = fn
	}
}

// New creates a Compiler with the default registry.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		c.registry = parser.NewDefaultRegistry()
	}

	return c
}

// CompileOptions selects the outputs of one compilation.
type CompileOptions struct {
	// Targets defaults to JS only.
	Targets []hxo.Target
	// ScopeID fixes the scoped-style token. Empty derives it from the component name.
	ScopeID string
	// Locale inlines translations negotiated from the locale tables.
	// Empty keeps $t calls for the runtime.
	Locale   string
	Fallback string
	// Messages wins over Locale when set.
	Messages map[string]string
	// Catalog holds shared locale tables. The component's own <i18n> block
	// overrides matching keys.
	Catalog     i18n.Table
	RuntimePath string
	MinifyCSS   bool
	// Production minifies CSS and leaves sources content out of the source map.
	Production bool
}

func (o CompileOptions) wants(t hxo.Target) bool {
	if len(o.Targets) == 0 {
		return t == hxo.TargetJS
	}

	for _, target := range o.Targets {
		if target == t {
			return true
		}
	}

	return false
}

// Result holds the generated artifacts. Targets that were not requested stay empty.
type Result struct {
	JS        string
	SSR       string
	Hydrate   string
	CSS       string
	DTS       string
	SourceMap *sourcemap.SourceMap
	Module    *ir.Module
}

// ComponentName derives the component name from a file name.
func ComponentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse splits and parses src without optimizing or generating code.
func (c *Compiler) Parse(name, src string) (*ir.Module, error) {
	opts := parser.DefaultOptions
	if c.onSkip != nil {
		opts.OnSkip = func(block, lang string, err error) {
			c.onSkip(name, block, lang, err)
		}
	}

	m, err := parser.ParseWithOptions(ComponentName(name), src, c.registry, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return m, nil
}

// Compile runs parse, optimize and the requested backends over src.
// name is the source file name used in the source map.
func (c *Compiler) Compile(name, src string, opts CompileOptions) (*Result, error) {
	m, err := c.Parse(name, src)
	if err != nil {
		return nil, err
	}

	mergeCatalog(m, opts.Catalog)

	pipelineOpts := []optimizer.Option{optimizer.WithScopeID(opts.ScopeID)}

	if messages := selectMessages(m, opts); messages != nil {
		pipelineOpts = append(pipelineOpts, optimizer.WithMessages(messages))
	}

	if c.resolver != nil {
		pipelineOpts = append(pipelineOpts, optimizer.WithResolver(c.resolver))
	}

	optimizer.New(pipelineOpts...).Execute(m)

	runtimePath := opts.RuntimePath
	if runtimePath == "" {
		runtimePath = jsgen.DefaultRuntimePath
	}

	result := &Result{Module: m}

	if opts.wants(hxo.TargetJS) {
		jsOpts := []jsgen.Option{
			jsgen.WithRuntimePath(runtimePath),
			jsgen.WithSourceName(filepath.Base(name)),
		}
		if !opts.Production {
			jsOpts = append(jsOpts, jsgen.WithSourceContent(src))
		}

		out, err := jsgen.New(jsOpts...).Generate(m)
		if err != nil {
			return nil, fmt.Errorf("generate js for %s: %w", name, err)
		}

		result.JS = out.Code
		result.SourceMap = out.SourceMap
	}

	if opts.wants(hxo.TargetSSR) {
		result.SSR, err = ssrgen.New(ssrgen.WithRuntimePath(runtimePath)).Generate(m)
		if err != nil {
			return nil, fmt.Errorf("generate ssr for %s: %w", name, err)
		}
	}

	if opts.wants(hxo.TargetHydrate) {
		result.Hydrate, err = hydrategen.New(hydrategen.WithRuntimePath(runtimePath)).Generate(m)
		if err != nil {
			return nil, fmt.Errorf("generate hydrate for %s: %w", name, err)
		}
	}

	if opts.wants(hxo.TargetCSS) {
		result.CSS, err = cssgen.New(cssgen.WithMinify(opts.MinifyCSS || opts.Production)).Generate(m)
		if err != nil {
			return nil, err
		}
	}

	if opts.wants(hxo.TargetDTS) {
		result.DTS, err = dtsgen.New(dtsgen.WithRuntimePath(runtimePath)).Generate(m)
		if err != nil {
			return nil, fmt.Errorf("generate declarations for %s: %w", name, err)
		}
	}

	return result, nil
}

// mergeCatalog folds shared tables under the component's own messages.
func mergeCatalog(m *ir.Module, catalog i18n.Table) {
	if len(catalog) == 0 {
		return
	}

	merged := map[string]map[string]string{}
	catalog.MergeInto(merged)
	i18n.Table(m.I18n).MergeInto(merged)

	m.I18n = merged
}

func selectMessages(m *ir.Module, opts CompileOptions) map[string]string {
	if opts.Messages != nil {
		return opts.Messages
	}

	if opts.Locale == "" || len(m.I18n) == 0 {
		return nil
	}

	table := i18n.Table(m.I18n)
	locale := i18n.Negotiate(table.Locales(), opts.Locale, opts.Fallback)

	return table.Messages(locale)
}
