package scanner

import "fmt"

// Position is a location in component source.
// Line and Column are 1-based; Offset is a byte offset (0-based).
// The zero value is the unknown position.
type Position struct {
	Line   int
	Column int
	Offset int
}

// IsUnknown reports whether the position was synthesized rather than read from source.
func (p Position) IsUnknown() bool {
	return p.Line == 0 && p.Column == 0
}

func (p Position) String() string {
	if p.IsUnknown() {
		return "?:?"
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open source range.
type Span struct {
	Start Position
	End   Position
}

// UnknownSpan returns the sentinel span used for synthesized nodes.
func UnknownSpan() Span {
	return Span{}
}

// IsUnknown reports whether both ends are unknown.
func (s Span) IsUnknown() bool {
	return s.Start.IsUnknown() && s.End.IsUnknown()
}

// Contains reports whether pos falls inside the span (inclusive on both line/column ends).
// Unknown spans contain nothing.
func (s Span) Contains(pos Position) bool {
	if s.IsUnknown() {
		return false
	}

	if pos.Line < s.Start.Line || pos.Line > s.End.Line {
		return false
	}

	if pos.Line == s.Start.Line && pos.Column < s.Start.Column {
		return false
	}

	if pos.Line == s.End.Line && pos.Column > s.End.Column {
		return false
	}

	return true
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
