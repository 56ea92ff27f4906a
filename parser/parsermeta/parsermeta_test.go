package parsermeta

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
	"github.com/shibukawa/hxo/testhelper"
)

func TestYAMLMetadata(t *testing.T) {
	src := testhelper.TrimIndent(t, `
		name: Counter
		version: 1.5
		count: 3
		tags: [ui, widget]
		props:
		  initial: 0
		  enabled: true
		deprecated: null
	`)

	meta, err := YAML{}.ParseMetadata(src, scanner.Position{Line: 1, Column: 1}, "yaml")
	assert.NoError(t, err)

	assert.Equal(t, "'Counter'", meta["name"].JS())
	assert.Equal(t, "1.5", meta["version"].JS())
	assert.Equal(t, "3", meta["count"].JS())
	assert.Equal(t, "['ui', 'widget']", meta["tags"].JS())
	assert.Equal(t, "{ enabled: true, initial: 0 }", meta["props"].JS())
	assert.Equal(t, ir.NullValue, meta["deprecated"].Kind)
}

func TestYAMLMetadataRejectsNonMapping(t *testing.T) {
	_, err := YAML{}.ParseMetadata("- a\n- b\n", scanner.Position{Line: 1, Column: 1}, "yaml")
	assert.True(t, errors.Is(err, ErrExpectedMapping))

	meta, err := YAML{}.ParseMetadata("", scanner.Position{}, "yaml")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(meta))
}

func TestJSONMetadata(t *testing.T) {
	meta, err := JSON{}.ParseMetadata(`{"name": "Counter", "size": 12.50, "flags": [true, null]}`, scanner.Position{}, "json")
	assert.NoError(t, err)

	assert.Equal(t, "'Counter'", meta["name"].JS())
	assert.Equal(t, "12.5", meta["size"].JS())
	assert.Equal(t, "[true, null]", meta["flags"].JS())

	_, err = JSON{}.ParseMetadata(`[1, 2]`, scanner.Position{}, "json")
	assert.True(t, errors.Is(err, ErrExpectedMapping))

	_, err = JSON{}.ParseMetadata(`{"name": `, scanner.Position{}, "json")
	assert.True(t, errors.Is(err, scanner.ErrParse))
}

func TestXMLMetadata(t *testing.T) {
	src := `<component>
  <name>Counter</name>
  <author email="a@example.com">Alice</author>
  <tag>ui</tag>
  <tag>widget</tag>
</component>`

	meta, err := XML{}.ParseMetadata(src, scanner.Position{}, "xml")
	assert.NoError(t, err)

	assert.Equal(t, "'Counter'", meta["name"].JS())
	assert.Equal(t, "{ email: 'a@example.com' }", meta["author"].JS())
	assert.Equal(t, "['ui', 'widget']", meta["tag"].JS())

	_, err = XML{}.ParseMetadata("", scanner.Position{}, "xml")
	assert.Error(t, err)
}

func TestMarkdownRenderer(t *testing.T) {
	html, err := NewMarkdown().RenderBlock("# Usage\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", "md")
	assert.NoError(t, err)

	assert.True(t, strings.Contains(html, `<h1 id="usage">Usage</h1>`))
	assert.True(t, strings.Contains(html, "<table>"))
}
