package parsertmpl

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

var (
	interpolationPattern = regexp.MustCompile(`\{\{[\s\S]*?\}\}`)
	slotPattern          = regexp.MustCompile(`HXOSLOT(\d+)END`)
)

// Markdown parses a `<template lang="md">` block. The markdown is rendered to
// HTML first and the markup is then parsed like an ordinary template, so
// interpolations and inline component tags keep working. Spans point into the
// rendered markup, anchored at the block start.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

func (m *Markdown) ParseTemplate(src string, start scanner.Position) ([]ir.TemplateNode, error) {
	markup, err := m.Render(src)
	if err != nil {
		return nil, err
	}

	nodes, err := ParseAt(strings.TrimSpace(markup), start)
	if err != nil {
		return nil, err
	}

	return unescapeNodes(nodes, true), nil
}

// Render converts markdown to template markup. `{{ }}` splices are set aside
// while rendering so markdown syntax inside them is left alone.
func (m *Markdown) Render(src string) (string, error) {
	var slots []string

	protected := interpolationPattern.ReplaceAllStringFunc(src, func(s string) string {
		slots = append(slots, s)
		return "HXOSLOT" + strconv.Itoa(len(slots)-1) + "END"
	})

	var buf bytes.Buffer
	if err := m.md.Convert([]byte(protected), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown template: %w", err)
	}

	return slotPattern.ReplaceAllStringFunc(buf.String(), func(s string) string {
		i, err := strconv.Atoi(slotPattern.FindStringSubmatch(s)[1])
		if err != nil || i >= len(slots) {
			return s
		}

		return slots[i]
	}), nil
}

// unescapeNodes decodes the character references the renderer wrote into text
// and static attribute values. Blank text between top-level blocks is dropped.
func unescapeNodes(nodes []ir.TemplateNode, top bool) []ir.TemplateNode {
	result := nodes[:0]

	for _, n := range nodes {
		switch n := n.(type) {
		case *ir.Text:
			if top && strings.TrimSpace(n.Content) == "" {
				continue
			}

			n.Content = html.UnescapeString(n.Content)
		case *ir.Element:
			for _, a := range n.Attributes {
				if !a.IsDirective && a.Value != nil {
					v := html.UnescapeString(*a.Value)
					a.Value = &v
				}
			}

			if !rawTextElements[strings.ToLower(n.Tag)] {
				n.Children = unescapeNodes(n.Children, false)
			}
		}

		result = append(result, n)
	}

	return result
}
