package codewriter

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/scanner"
)

func span(line, col int) scanner.Span {
	start := scanner.Position{Line: line, Column: col}
	return scanner.Span{Start: start, End: scanner.Position{Line: line, Column: col + 1}}
}

func TestWriterIndentsLazily(t *testing.T) {
	w := New()
	w.Block("function f()", func(w *Writer) {
		w.WriteLine("return 1;")
	})
	w.Newline()

	assert.Equal(t, "function f() {\n  return 1;\n}\n", w.String())
	assert.Equal(t, scanner.Position{Line: 3, Column: 0, Offset: len(w.String())}, w.Position())
}

func TestWriterRecordsOnlyKnownSpans(t *testing.T) {
	w := New()
	w.Write("const ")
	w.WriteSpan("a", span(2, 5))
	w.WriteSpan(" = ", scanner.UnknownSpan())
	w.WriteSpan("1", span(2, 9))

	mappings := w.Mappings()
	assert.Equal(t, 2, len(mappings))
	assert.Equal(t, scanner.Position{Line: 0, Column: 6, Offset: 6}, mappings[0].Generated)
	assert.Equal(t, scanner.Position{Line: 0, Column: 9, Offset: 9}, mappings[1].Generated)
}

func TestWriterAppendTranslatesMappings(t *testing.T) {
	child := New()
	child.WriteSpan("x", span(1, 1))
	child.Newline()
	child.WriteSpan("y", span(2, 1))

	parent := New()
	parent.WriteLine("// header")
	parent.Write("let v = ")
	parent.Append(child)

	assert.Equal(t, "// header\nlet v = x\ny", parent.String())

	mappings := parent.Mappings()
	assert.Equal(t, 2, len(mappings))
	// first line of the child lands after "let v = "
	assert.Equal(t, scanner.Position{Line: 1, Column: 8, Offset: 18}, mappings[0].Generated)
	// later child lines keep their own column
	assert.Equal(t, scanner.Position{Line: 2, Column: 0, Offset: 20}, mappings[1].Generated)

	// the child is not modified by the merge
	assert.Equal(t, scanner.Position{Line: 0, Column: 0, Offset: 0}, child.Mappings()[0].Generated)
}

func TestWriterAppendAfterIndent(t *testing.T) {
	child := New()
	child.WriteSpan("h()", span(3, 3))

	parent := New()
	parent.Indent()
	parent.Append(child)

	assert.Equal(t, "  h()", parent.String())
	assert.Equal(t, 2, parent.Mappings()[0].Generated.Column)
}

func TestWriterImport(t *testing.T) {
	w := New()
	w.Import([]string{"a", "b"}, "@hxo/core")
	w.Import(nil, "./style.css")

	assert.Equal(t, "import { a, b } from '@hxo/core';\nimport './style.css';\n", w.String())
}

func TestColumnsCountUTF16Units(t *testing.T) {
	w := New()
	w.Write("'é😀' + ")

	assert.Equal(t, scanner.Position{Line: 0, Column: 8, Offset: 11}, w.Position())
}
