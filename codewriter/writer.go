// Package codewriter emits generated program text while recording which
// source span produced each emitted token.
package codewriter

import (
	"strings"
	"unicode/utf16"

	"github.com/shibukawa/hxo/scanner"
)

const indentUnit = "  "

// Mapping pairs a generated position with the source span it came from.
// Generated positions are 0-based in both line and column, matching the
// source map convention. Columns count UTF-16 code units; Offset is the byte
// offset into the output.
type Mapping struct {
	Generated scanner.Position
	Original  scanner.Span
}

// Writer accumulates output text.
type Writer struct {
	buf      strings.Builder
	indent   int
	pos      scanner.Position
	mappings []Mapping
	midLine  bool
}

// New returns an empty writer.
func New() *Writer {
	return &Writer{}
}

// Write emits text, inserting indentation when at the start of a line.
func (w *Writer) Write(text string) {
	if text == "" {
		return
	}

	w.writeIndent()
	w.writeRaw(text)
}

// WriteSpan records a mapping for span at the current position, then writes text.
// Unknown spans are written without a mapping.
func (w *Writer) WriteSpan(text string, span scanner.Span) {
	w.writeIndent()

	if !span.IsUnknown() {
		w.mappings = append(w.mappings, Mapping{Generated: w.pos, Original: span})
	}

	w.writeRaw(text)
}

func (w *Writer) WriteLine(text string) {
	w.Write(text)
	w.Newline()
}

func (w *Writer) WriteLineSpan(text string, span scanner.Span) {
	w.WriteSpan(text, span)
	w.Newline()
}

func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
	w.midLine = false
	w.pos.Line++
	w.pos.Column = 0
	w.pos.Offset++
}

func (w *Writer) Indent() {
	w.indent++
}

func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Position returns the position the next byte will be written at.
func (w *Writer) Position() scanner.Position {
	return w.pos
}

// Mappings returns a copy of the recorded mappings in emission order.
func (w *Writer) Mappings() []Mapping {
	out := make([]Mapping, len(w.mappings))
	copy(out, w.mappings)

	return out
}

func (w *Writer) String() string {
	return w.buf.String()
}

func (w *Writer) Len() int {
	return w.buf.Len()
}

// Append writes other's buffered output at the current position and merges
// its mappings, translated by where that output lands. other is left untouched.
func (w *Writer) Append(other *Writer) {
	if other == nil || other.Len() == 0 {
		return
	}

	w.writeIndent()

	w.mappings = append(w.mappings, Translate(other.mappings, w.pos)...)
	w.writeRaw(other.String())
}

// Translate shifts mappings recorded by a writer that started at the origin so
// they describe the same text written starting at base.
// Only mappings on the first line receive base's column.
func Translate(mappings []Mapping, base scanner.Position) []Mapping {
	out := make([]Mapping, 0, len(mappings))

	for _, m := range mappings {
		g := m.Generated
		if g.Line == 0 {
			g.Column += base.Column
		}

		g.Line += base.Line
		g.Offset += base.Offset
		out = append(out, Mapping{Generated: g, Original: m.Original})
	}

	return out
}

// Block writes `header {`, runs fn one level deeper and closes the brace on its own line.
func (w *Writer) Block(header string, fn func(w *Writer)) {
	if header != "" {
		w.Write(header)

		if !strings.HasSuffix(header, " ") {
			w.Write(" ")
		}
	}

	w.WriteLine("{")
	w.Indent()
	fn(w)
	w.Dedent()
	w.Write("}")
}

// Import writes an ES import statement for specifiers.
func (w *Writer) Import(specifiers []string, source string) {
	if len(specifiers) == 0 {
		w.WriteLine("import '" + source + "';")
		return
	}

	w.WriteLine("import { " + strings.Join(specifiers, ", ") + " } from '" + source + "';")
}

func (w *Writer) writeIndent() {
	if w.indent == 0 || w.midLine {
		return
	}

	pad := strings.Repeat(indentUnit, w.indent)
	w.buf.WriteString(pad)
	w.pos.Column += len(pad)
	w.pos.Offset += len(pad)
}

func (w *Writer) writeRaw(text string) {
	w.buf.WriteString(text)
	w.midLine = !strings.HasSuffix(text, "\n")

	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		w.pos.Line += strings.Count(text, "\n")
		w.pos.Column = columns(text[i+1:])
	} else {
		w.pos.Column += columns(text)
	}

	w.pos.Offset += len(text)
}

func columns(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}

	return n
}
