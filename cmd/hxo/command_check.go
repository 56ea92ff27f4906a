package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/shibukawa/hxo"
	"github.com/shibukawa/hxo/compiler"
	"github.com/shibukawa/hxo/scanner"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Files    []string `arg:"" optional:"" help:"Component files or directories (default: input_dir)" type:"path"`
	Parallel int      `help:"Number of parallel workers" default:"0"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, err := hxo.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	inputs := cmd.Files
	if len(inputs) == 0 {
		inputs = []string{rebase(filepath.Dir(ctx.Config), config.InputDir)}
	}

	files, err := collectFiles(inputs)
	if err != nil {
		return err
	}

	diagnostics := checkFiles(files, cmd.Parallel)

	for _, d := range diagnostics {
		fmt.Println(d)
	}

	if len(diagnostics) > 0 {
		return fmt.Errorf("%w: %d of %d component(s)", ErrCheckFailed, len(diagnostics), len(files))
	}

	if !ctx.Quiet {
		color.Green("%d component(s) OK", len(files))
	}

	return nil
}

// checkFiles parses every file and returns one diagnostic per failing file, in input order.
func checkFiles(files []sourceFile, workers int) []string {
	c := compiler.New()

	s := runParallel(context.Background(), files, workers, func(f sourceFile) (struct{}, error) {
		src, err := os.ReadFile(f.Path)
		if err != nil {
			return struct{}{}, err
		}

		_, err = c.Parse(f.Path, string(src))

		return struct{}{}, err
	})

	var diagnostics []string

	for _, o := range s.Outcomes {
		if o.Err != nil {
			diagnostics = append(diagnostics, diagnostic(o.File.Path, o.Err))
		}
	}

	return diagnostics
}

// diagnostic formats err as `file:line:col: message` when it carries a position.
func diagnostic(path string, err error) string {
	var perr *scanner.ParseError
	if errors.As(err, &perr) && !perr.Span.IsUnknown() {
		return fmt.Sprintf("%s:%d:%d: %s", path, perr.Span.Start.Line, perr.Span.Start.Column, perr.Description())
	}

	return fmt.Sprintf("%s: %v", path, err)
}
