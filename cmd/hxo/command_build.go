package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/hxo"
	"github.com/shibukawa/hxo/compiler"
	"github.com/shibukawa/hxo/i18n"
)

// BuildCmd represents the build command
type BuildCmd struct {
	Files       []string `arg:"" optional:"" help:"Component files or directories (default: input_dir)" type:"path"`
	Target      []string `short:"t" help:"Output targets: js, ssr, hydrate, css, dts (default: targets from config)"`
	Out         string   `short:"o" help:"Output directory (default: output_dir)" type:"path"`
	Locale      string   `help:"Inline translations negotiated for this locale"`
	ScopeID     string   `name:"scope-id" help:"Fixed scoped-style token"`
	Minify      bool     `help:"Minify CSS output"`
	Production  bool     `help:"Production build: minified CSS, no sources content in source maps"`
	NoSourceMap bool     `name:"no-source-map" help:"Do not write .js.map files"`
	Parallel    int      `help:"Number of parallel workers" default:"0"` // 0 means use CPU count
}

// buildPlan is the resolved input of one build.
type buildPlan struct {
	Files     []sourceFile
	OutDir    string
	Options   compiler.CompileOptions
	SourceMap bool
}

// Run executes the build command
func (b *BuildCmd) Run(ctx *Context) error {
	config, err := hxo.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	plan, err := b.plan(config, filepath.Dir(ctx.Config))
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Compiling %d component(s) to %s", len(plan.Files), plan.OutDir)
		color.Cyan("Targets: %v", plan.Options.Targets)
	}

	c := compiler.New(compiler.WithSkipHandler(func(name, block, lang string, err error) {
		if ctx.Verbose {
			color.Yellow("%s: skipped <%s lang=%q>: %v", name, block, lang, err)
		}
	}))

	s := runParallel(context.Background(), plan.Files, b.Parallel, func(f sourceFile) (*compiler.Result, error) {
		src, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
		}

		return c.Compile(f.Path, string(src), plan.Options)
	})

	for i, o := range s.Outcomes {
		if o.Err != nil {
			if !ctx.Quiet {
				color.Red("✗ %v", o.Err)
			}

			continue
		}

		if err := writeOutputs(plan, o.File, o.Value); err != nil {
			s.Outcomes[i].Err = err
			s.Failed++
			s.Succeeded--

			if !ctx.Quiet {
				color.Red("✗ %v", err)
			}

			continue
		}

		if ctx.Verbose {
			color.Green("✓ %s (%s)", o.File.Rel, o.Duration)
		}
	}

	if s.Failed > 0 {
		return fmt.Errorf("%w: %d of %d component(s)", hxo.ErrCompileFailed, s.Failed, len(s.Outcomes))
	}

	if !ctx.Quiet {
		color.Green("Compiled %d component(s) to %s in %s", s.Succeeded, plan.OutDir, s.TotalDuration)
	}

	return nil
}

// plan merges command-line flags over the configuration. Directories from
// the configuration are relative to configDir.
func (b *BuildCmd) plan(config *hxo.Config, configDir string) (*buildPlan, error) {
	targets, err := config.ParsedTargets()
	if err != nil {
		return nil, err
	}

	if len(b.Target) > 0 {
		targets = targets[:0]

		for _, name := range b.Target {
			t, err := hxo.ParseTarget(strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}

			targets = append(targets, t)
		}
	}

	catalog, err := loadCatalog(config.I18n.Files)
	if err != nil {
		return nil, err
	}

	inputs := b.Files
	if len(inputs) == 0 {
		inputs = []string{rebase(configDir, config.InputDir)}
	}

	files, err := collectFiles(inputs)
	if err != nil {
		return nil, err
	}

	plan := &buildPlan{
		Files:     files,
		OutDir:    firstNonEmpty(b.Out, rebase(configDir, config.OutputDir)),
		SourceMap: config.SourceMap && !b.NoSourceMap,
		Options: compiler.CompileOptions{
			Targets:     targets,
			ScopeID:     firstNonEmpty(b.ScopeID, config.ScopeID),
			Locale:      firstNonEmpty(b.Locale, config.I18n.Locale),
			Fallback:    config.I18n.Fallback,
			Catalog:     catalog,
			RuntimePath: config.RuntimePath,
			MinifyCSS:   b.Minify || config.MinifyCSS,
			Production:  b.Production || config.Production,
		},
	}

	return plan, nil
}

// loadCatalog merges the shared locale files in order.
func loadCatalog(files []string) (i18n.Table, error) {
	if len(files) == 0 {
		return nil, nil
	}

	catalog := i18n.Table{}

	for _, file := range files {
		table, err := i18n.LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load locale file: %w", err)
		}

		table.MergeInto(catalog)
	}

	return catalog, nil
}

// writeOutputs writes the artifacts of one component next to each other,
// mirroring the component's place under the input root.
func writeOutputs(plan *buildPlan, f sourceFile, r *compiler.Result) error {
	base := filepath.Join(plan.OutDir, strings.TrimSuffix(f.Rel, filepath.Ext(f.Rel)))
	name := filepath.Base(base)

	if r.JS != "" {
		js := r.JS

		if plan.SourceMap && r.SourceMap != nil {
			data, err := r.SourceMap.MarshalV3(name + ".js")
			if err != nil {
				return fmt.Errorf("failed to encode source map for %s: %w", f.Path, err)
			}

			if err := writeFile(base+".js.map", string(data)); err != nil {
				return err
			}

			js += "//# sourceMappingURL=" + name + ".js.map\n"
		}

		if err := writeFile(base+".js", js); err != nil {
			return err
		}
	}

	outputs := []struct {
		ext     string
		content string
	}{
		{".ssr.js", r.SSR},
		{".hydrate.js", r.Hydrate},
		{".css", r.CSS},
		{".d.ts", r.DTS},
	}

	for _, out := range outputs {
		if out.content == "" {
			continue
		}

		if err := writeFile(base+out.ext, out.content); err != nil {
			return err
		}
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func rebase(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}
