// Package cssgen writes the collected component CSS, pretty or minified.
package cssgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"

	"github.com/shibukawa/hxo/ir"
)

const mediaType = "text/css"

// Generator generates the stylesheet of a module
type Generator struct {
	Minify bool
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithMinify switches to minified output
func WithMinify(minify bool) Option {
	return func(g *Generator) {
		g.Minify = minify
	}
}

// New creates a new Generator
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns the stylesheet for m; empty when the module has no CSS.
func (g *Generator) Generate(m *ir.Module) (string, error) {
	if strings.TrimSpace(m.CSS) == "" {
		return "", nil
	}

	if !g.Minify {
		return pretty(m.CSS), nil
	}

	mini := minify.New()
	mini.AddFunc(mediaType, css.Minify)

	out, err := mini.String(mediaType, m.CSS)
	if err != nil {
		return "", fmt.Errorf("minify css of %s: %w", m.Name, err)
	}

	return out, nil
}

// WriteTo generates m and writes the stylesheet to w.
func (g *Generator) WriteTo(w io.Writer, m *ir.Module) error {
	out, err := g.Generate(m)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)

	return err
}

// pretty strips trailing spaces, keeps at most one blank line between blocks
// and ends the sheet with a newline.
func pretty(src string) string {
	var (
		sb    strings.Builder
		blank bool
	)

	for _, line := range strings.Split(strings.TrimSpace(src), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blank = true
			continue
		}

		if blank && sb.Len() > 0 {
			sb.WriteByte('\n')
		}

		blank = false

		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String()
}
