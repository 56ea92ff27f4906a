package main

import (
	"fmt"

	"github.com/fatih/color"
)

const sampleConfig = `# hxo component compiler configuration
runtime_path: "@hxo"
input_dir: ./src
output_dir: ./dist

# js, ssr, hydrate, css, dts
targets:
  - js
  - css

minify_css: false
source_map: true
production: false

i18n:
  locale: ""
  fallback: en
  files: []
`

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

// Run executes the init command
func (i *InitCmd) Run(ctx *Context) error {
	if fileExists(ctx.Config) && !i.Force {
		return fmt.Errorf("%w: %s", ErrConfigExists, ctx.Config)
	}

	if err := writeFile(ctx.Config, sampleConfig); err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}

	if !ctx.Quiet {
		color.Green("Created %s", ctx.Config)
	}

	return nil
}
