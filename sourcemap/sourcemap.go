// Package sourcemap collects generated-to-original position mappings and
// serializes them as a Source Map v3 document.
package sourcemap

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shibukawa/hxo/codewriter"
	"github.com/shibukawa/hxo/scanner"
)

// Version is the source map format version written by MarshalV3.
const Version = 3

// NoName marks a mapping without a symbol name.
const NoName = -1

// Mapping is one entry. Generated is 0-based; Original uses the 1-based
// line and column of scanner positions.
type Mapping struct {
	Generated scanner.Position
	Original  scanner.Position
	Source    int
	Name      int
}

// SourceMap is the finished mapping set.
type SourceMap struct {
	Mappings       []Mapping
	Sources        []string
	SourcesContent []string
	Names          []string
}

// Builder accumulates mappings. Sources and names are de-duplicated.
type Builder struct {
	mappings    []Mapping
	sources     []string
	sourceIndex map[string]int
	contents    map[string]string
	names       []string
	nameIndex   map[string]int
}

func NewBuilder() *Builder {
	return &Builder{
		sourceIndex: map[string]int{},
		contents:    map[string]string{},
		nameIndex:   map[string]int{},
	}
}

// AddMapping records a mapping. An empty name records no symbol.
// Mappings to unknown original positions are dropped.
func (b *Builder) AddMapping(generated, original scanner.Position, source, name string) {
	if original.IsUnknown() {
		return
	}

	m := Mapping{
		Generated: generated,
		Original:  original,
		Source:    b.source(source),
		Name:      NoName,
	}

	if name != "" {
		m.Name = b.name(name)
	}

	b.mappings = append(b.mappings, m)
}

// AddFromWriter records every writer mapping against source, using the
// start of each original span.
func (b *Builder) AddFromWriter(mappings []codewriter.Mapping, source string) {
	for _, m := range mappings {
		b.AddMapping(m.Generated, m.Original.Start, source, "")
	}
}

// SetSourceContent embeds the original text of source.
func (b *Builder) SetSourceContent(source, content string) {
	b.source(source)
	b.contents[source] = content
}

// Finish returns the mappings ordered by generated position.
func (b *Builder) Finish() *SourceMap {
	mappings := make([]Mapping, len(b.mappings))
	copy(mappings, b.mappings)

	sort.SliceStable(mappings, func(i, j int) bool {
		gi, gj := mappings[i].Generated, mappings[j].Generated
		if gi.Line != gj.Line {
			return gi.Line < gj.Line
		}

		return gi.Column < gj.Column
	})

	sm := &SourceMap{
		Mappings: mappings,
		Sources:  append([]string(nil), b.sources...),
		Names:    append([]string(nil), b.names...),
	}

	if len(b.contents) > 0 {
		sm.SourcesContent = make([]string, len(b.sources))
		for i, s := range b.sources {
			sm.SourcesContent[i] = b.contents[s]
		}
	}

	return sm
}

func (b *Builder) source(s string) int {
	if i, ok := b.sourceIndex[s]; ok {
		return i
	}

	b.sourceIndex[s] = len(b.sources)
	b.sources = append(b.sources, s)

	return len(b.sources) - 1
}

func (b *Builder) name(n string) int {
	if i, ok := b.nameIndex[n]; ok {
		return i
	}

	b.nameIndex[n] = len(b.names)
	b.names = append(b.names, n)

	return len(b.names) - 1
}

type document struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// MarshalV3 renders the map as Source Map v3 JSON.
func (sm *SourceMap) MarshalV3(file string) ([]byte, error) {
	doc := document{
		Version:        Version,
		File:           file,
		Sources:        sm.Sources,
		SourcesContent: sm.SourcesContent,
		Names:          sm.Names,
		Mappings:       sm.EncodeMappings(),
	}

	if doc.Sources == nil {
		doc.Sources = []string{}
	}

	if doc.Names == nil {
		doc.Names = []string{}
	}

	return json.Marshal(doc)
}

// EncodeMappings returns the base64 VLQ `mappings` field.
// Segments are relative to the previous segment; the generated column resets per line.
func (sm *SourceMap) EncodeMappings() string {
	var b strings.Builder

	line, prevCol, prevSrc, prevName := 0, 0, 0, 0
	prevOrigLine, prevOrigCol := 0, 0
	first := true

	for _, m := range sm.Mappings {
		for line < m.Generated.Line {
			b.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}

		if !first {
			b.WriteByte(',')
		}

		first = false

		origLine := m.Original.Line - 1
		origCol := m.Original.Column - 1

		b.WriteString(EncodeVLQ(m.Generated.Column - prevCol))
		b.WriteString(EncodeVLQ(m.Source - prevSrc))
		b.WriteString(EncodeVLQ(origLine - prevOrigLine))
		b.WriteString(EncodeVLQ(origCol - prevOrigCol))

		if m.Name != NoName {
			b.WriteString(EncodeVLQ(m.Name - prevName))
			prevName = m.Name
		}

		prevCol = m.Generated.Column
		prevSrc = m.Source
		prevOrigLine = origLine
		prevOrigCol = origCol
	}

	return b.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// EncodeVLQ encodes n as a base64 VLQ: sign in the lowest bit, five bits per digit.
func EncodeVLQ(n int) string {
	v := n << 1
	if n < 0 {
		v = (-n << 1) | 1
	}

	var b strings.Builder

	for {
		digit := v & 0x1f
		v >>= 5

		if v > 0 {
			digit |= 0x20
		}

		b.WriteByte(base64Digits[digit])

		if v == 0 {
			return b.String()
		}
	}
}
