package sourcemap

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/codewriter"
	"github.com/shibukawa/hxo/scanner"
)

func pos(line, col int) scanner.Position {
	return scanner.Position{Line: line, Column: col}
}

func TestEncodeVLQ(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{15, "e"},
		{16, "gB"},
		{-17, "jB"},
		{123, "2H"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeVLQ(tt.n), "%d", tt.n)
	}
}

func TestBuilderDeduplicates(t *testing.T) {
	b := NewBuilder()
	b.AddMapping(pos(0, 0), pos(1, 1), "a.hxo", "count")
	b.AddMapping(pos(0, 5), pos(2, 1), "b.hxo", "count")
	b.AddMapping(pos(1, 0), pos(3, 1), "a.hxo", "inc")
	b.AddMapping(pos(1, 2), scanner.Position{}, "a.hxo", "")

	sm := b.Finish()
	assert.Equal(t, []string{"a.hxo", "b.hxo"}, sm.Sources)
	assert.Equal(t, []string{"count", "inc"}, sm.Names)
	assert.Equal(t, 3, len(sm.Mappings))
	assert.Equal(t, 0, sm.Mappings[2].Source)
	assert.Equal(t, 1, sm.Mappings[2].Name)
}

func TestFinishSortsByGeneratedPosition(t *testing.T) {
	b := NewBuilder()
	b.AddMapping(pos(2, 0), pos(1, 1), "a", "")
	b.AddMapping(pos(0, 3), pos(1, 2), "a", "")
	b.AddMapping(pos(0, 1), pos(1, 3), "a", "")

	sm := b.Finish()
	assert.Equal(t, []scanner.Position{pos(0, 1), pos(0, 3), pos(2, 0)}, []scanner.Position{
		sm.Mappings[0].Generated, sm.Mappings[1].Generated, sm.Mappings[2].Generated,
	})
}

func TestMarshalV3(t *testing.T) {
	b := NewBuilder()
	b.AddMapping(pos(0, 0), pos(1, 1), "a.hxo", "")
	b.AddMapping(pos(0, 4), pos(1, 5), "a.hxo", "count")
	b.AddMapping(pos(2, 2), pos(3, 3), "a.hxo", "")

	sm := b.Finish()
	assert.Equal(t, "AAAA,IAAIA;;EAEF", sm.EncodeMappings())

	data, err := sm.MarshalV3("a.js")
	assert.NoError(t, err)
	assert.Equal(t, `{"version":3,"file":"a.js","sources":["a.hxo"],"names":["count"],"mappings":"AAAA,IAAIA;;EAEF"}`, string(data))
}

func TestSourcesContent(t *testing.T) {
	b := NewBuilder()
	b.SetSourceContent("a.hxo", "<template/>")

	data, err := b.Finish().MarshalV3("")
	assert.NoError(t, err)
	assert.Equal(t, `{"version":3,"sources":["a.hxo"],"sourcesContent":["<template/>"],"names":[],"mappings":""}`, string(data))
}

func TestAddFromWriter(t *testing.T) {
	w := codewriter.New()
	w.Write("const x = ")
	w.WriteSpan("count", scanner.Span{Start: pos(4, 7), End: pos(4, 12)})
	w.Write(";")

	b := NewBuilder()
	b.AddFromWriter(w.Mappings(), "Counter.hxo")

	sm := b.Finish()
	assert.Equal(t, 1, len(sm.Mappings))
	assert.Equal(t, pos(4, 7), sm.Mappings[0].Original)
	assert.Equal(t, 10, sm.Mappings[0].Generated.Column)
	assert.Equal(t, "UAGM", sm.EncodeMappings())
}
