// Package parserstyle holds the plain CSS style sub-parser.
package parserstyle

import (
	"strings"

	"github.com/shibukawa/hxo/scanner"
)

// CSS passes plain CSS through untouched apart from surrounding whitespace.
// Unbalanced braces are reported so a broken block is dropped instead of
// corrupting the collected stylesheet.
type CSS struct{}

func (CSS) ParseStyle(src string, start scanner.Position, _ string) (string, error) {
	c := scanner.NewAt(src, start)
	var open []scanner.Span

	for !c.EOF() {
		switch {
		case c.HasPrefix("/*"):
			c.ConsumeUntil("*/")
			c.Consume("*/")

			continue
		case c.Peek() == '"' || c.Peek() == '\'':
			if _, err := c.QuotedString(); err != nil {
				return "", err
			}

			continue
		case c.Peek() == '{':
			open = append(open, c.SpanAtCurrent())
		case c.Peek() == '}':
			if len(open) == 0 {
				return "", scanner.UnexpectedChar('}', c.SpanAtCurrent())
			}

			open = open[:len(open)-1]
		}

		c.Next()
	}

	if len(open) > 0 {
		return "", scanner.ExpectedChar('}', 0, open[len(open)-1])
	}

	return strings.TrimSpace(src), nil
}
