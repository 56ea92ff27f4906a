package parser

import (
	"github.com/shibukawa/hxo/parser/parserexpr"
	"github.com/shibukawa/hxo/parser/parsermeta"
	"github.com/shibukawa/hxo/parser/parserstyle"
	"github.com/shibukawa/hxo/parser/parsertmpl"
)

// Default languages per block kind.
const (
	DefaultTemplateLang = "hxo"
	DefaultScriptLang   = "js"
	DefaultStyleLang    = "css"
	DefaultMetadataLang = "yaml"
)

// Registry maps a language tag to a sub-parser, one table per block kind.
// Register everything before sharing a Registry; lookups are read-only and
// safe for concurrent use afterwards.
type Registry struct {
	templates map[string]TemplateParser
	scripts   map[string]ScriptParser
	styles    map[string]StyleParser
	metadata  map[string]MetadataParser
	renderers map[string]CustomBlockRenderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: map[string]TemplateParser{},
		scripts:   map[string]ScriptParser{},
		styles:    map[string]StyleParser{},
		metadata:  map[string]MetadataParser{},
		renderers: map[string]CustomBlockRenderer{},
	}
}

// NewDefaultRegistry returns a registry with the built-in sub-parsers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	tmpl := parsertmpl.Parser{}
	r.RegisterTemplate("hxo", tmpl)
	r.RegisterTemplate("html", tmpl)
	r.RegisterTemplate("pug", parsertmpl.Pug{})

	mdTemplate := parsertmpl.NewMarkdown()
	r.RegisterTemplate("md", mdTemplate)
	r.RegisterTemplate("markdown", mdTemplate)

	script := parserexpr.Parser{}
	for _, lang := range []string{"js", "javascript", "ts", "typescript"} {
		r.RegisterScript(lang, script)
	}

	r.RegisterStyle("css", parserstyle.CSS{})

	r.RegisterMetadata("yaml", parsermeta.YAML{})
	r.RegisterMetadata("yml", parsermeta.YAML{})
	r.RegisterMetadata("json", parsermeta.JSON{})
	r.RegisterMetadata("xml", parsermeta.XML{})

	md := parsermeta.NewMarkdown()
	r.RegisterCustomBlock("md", md)
	r.RegisterCustomBlock("markdown", md)

	return r
}

func (r *Registry) RegisterTemplate(lang string, p TemplateParser) { r.templates[lang] = p }
func (r *Registry) RegisterScript(lang string, p ScriptParser)     { r.scripts[lang] = p }
func (r *Registry) RegisterStyle(lang string, p StyleParser)       { r.styles[lang] = p }
func (r *Registry) RegisterMetadata(lang string, p MetadataParser) { r.metadata[lang] = p }

func (r *Registry) RegisterCustomBlock(lang string, p CustomBlockRenderer) {
	r.renderers[lang] = p
}

func (r *Registry) Template(lang string) (TemplateParser, bool) {
	p, ok := r.templates[lang]
	return p, ok
}

func (r *Registry) Script(lang string) (ScriptParser, bool) {
	p, ok := r.scripts[lang]
	return p, ok
}

func (r *Registry) Style(lang string) (StyleParser, bool) {
	p, ok := r.styles[lang]
	return p, ok
}

func (r *Registry) Metadata(lang string) (MetadataParser, bool) {
	p, ok := r.metadata[lang]
	return p, ok
}

func (r *Registry) CustomBlock(lang string) (CustomBlockRenderer, bool) {
	p, ok := r.renderers[lang]
	return p, ok
}
