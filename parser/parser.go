// Package parser splits a component source into its top-level blocks and
// dispatches each block to the sub-parser registered for its language.
package parser

import (
	"errors"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// Sentinel errors
var (
	ErrParserNotRegistered = errors.New("no parser registered for language")
	ErrTemplateParse       = errors.New("template parse failed")
	ErrScriptParse         = errors.New("script parse failed")
)

// TemplateParser turns template markup into template nodes.
// start is the position of src within the component file.
type TemplateParser interface {
	ParseTemplate(src string, start scanner.Position) ([]ir.TemplateNode, error)
}

// ScriptParser turns script source into a program.
type ScriptParser interface {
	ParseScript(src string, start scanner.Position, lang string) (*ir.Program, error)
}

// StyleParser turns a style dialect into plain CSS.
type StyleParser interface {
	ParseStyle(src string, start scanner.Position, lang string) (string, error)
}

// MetadataParser turns a data format into a key/value map.
type MetadataParser interface {
	ParseMetadata(src string, start scanner.Position, lang string) (map[string]ir.Value, error)
}

// CustomBlockRenderer renders the content of a custom block to HTML.
type CustomBlockRenderer interface {
	RenderBlock(content, lang string) (string, error)
}
