package scanner

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Cursor walks a source string rune by rune while tracking line and column.
// A cursor created with NewAt reports positions relative to a larger document,
// which lets sub-parsers work on a sliced block and still produce real spans.
type Cursor struct {
	src        string
	pos        int
	line       int
	column     int
	baseOffset int
}

// New creates a cursor at the start of src.
func New(src string) *Cursor {
	return &Cursor{src: src, line: 1, column: 1}
}

// NewAt creates a cursor over src whose first rune sits at start in the enclosing document.
func NewAt(src string, start Position) *Cursor {
	if start.IsUnknown() {
		return New(src)
	}

	return &Cursor{src: src, line: start.Line, column: start.Column, baseOffset: start.Offset}
}

// Mark is a saved cursor state.
type Mark struct {
	pos, line, column int
}

// Mark saves the current state so a speculative scan can be undone with Reset.
func (c *Cursor) Mark() Mark {
	return Mark{pos: c.pos, line: c.line, column: c.column}
}

func (c *Cursor) Reset(m Mark) {
	c.pos, c.line, c.column = m.pos, m.line, m.column
}

// Source returns the text the cursor walks.
func (c *Cursor) Source() string {
	return c.src
}

// Offset returns the local byte offset into Source.
func (c *Cursor) Offset() int {
	return c.pos
}

// EOF reports whether the cursor consumed the whole input.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.src)
}

// Peek returns the current rune, or 0 at end of input.
func (c *Cursor) Peek() rune {
	if c.EOF() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(c.src[c.pos:])

	return r
}

// PeekN returns the rune n runes ahead of the current one, or 0.
func (c *Cursor) PeekN(n int) rune {
	rest := c.src[c.pos:]
	for i := 0; i < n; i++ {
		if rest == "" {
			return 0
		}

		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}

	if rest == "" {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return r
}

// Rest returns the unconsumed input.
func (c *Cursor) Rest() string {
	return c.src[c.pos:]
}

// HasPrefix reports whether the unconsumed input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.src[c.pos:], s)
}

// Next consumes and returns the current rune.
func (c *Cursor) Next() rune {
	if c.EOF() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(c.src[c.pos:])
	c.pos += size

	if r == '\n' {
		c.line++
		c.column = 1
	} else {
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}

		c.column += n
	}

	return r
}

// ConsumeN consumes n runes.
func (c *Cursor) ConsumeN(n int) {
	for i := 0; i < n && !c.EOF(); i++ {
		c.Next()
	}
}

// Consume consumes s when the input starts with it.
func (c *Cursor) Consume(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}

	c.ConsumeN(utf8.RuneCountInString(s))

	return true
}

// ConsumeWhile consumes runes while fn holds and returns them.
func (c *Cursor) ConsumeWhile(fn func(rune) bool) string {
	start := c.pos
	for !c.EOF() && fn(c.Peek()) {
		c.Next()
	}

	return c.src[start:c.pos]
}

// ConsumeUntil consumes runes until the input starts with marker or ends.
func (c *Cursor) ConsumeUntil(marker string) string {
	start := c.pos
	for !c.EOF() && !c.HasPrefix(marker) {
		c.Next()
	}

	return c.src[start:c.pos]
}

// SkipWhitespace consumes Unicode whitespace.
func (c *Cursor) SkipWhitespace() {
	for !c.EOF() && unicode.IsSpace(c.Peek()) {
		c.Next()
	}
}

// Expect consumes r or fails with an ExpectedChar error.
func (c *Cursor) Expect(r rune) error {
	if c.EOF() || c.Peek() != r {
		return ExpectedChar(r, c.Peek(), c.SpanAtCurrent())
	}

	c.Next()

	return nil
}

// ExpectString consumes s or fails with an ExpectedString error.
func (c *Cursor) ExpectString(s string) error {
	if !c.Consume(s) {
		return ExpectedString(s, runeText(c.Peek()), c.SpanAtCurrent())
	}

	return nil
}

// Ident consumes an identifier.
func (c *Cursor) Ident() (string, error) {
	if !IsIdentStart(c.Peek()) {
		return "", &ParseError{Kind: KindParse, Message: "expected identifier", Found: runeText(c.Peek()), Span: c.SpanAtCurrent()}
	}

	return c.ConsumeWhile(IsIdentPart), nil
}

// QuotedString consumes a single- or double-quoted string and returns its body.
// Backslash escapes are kept verbatim except that an escaped quote does not end the string.
func (c *Cursor) QuotedString() (string, error) {
	quote := c.Peek()
	if quote != '"' && quote != '\'' {
		return "", ExpectedOneOf([]string{`"`, "'"}, runeText(quote), c.SpanAtCurrent())
	}

	c.Next()

	var sb strings.Builder

	for !c.EOF() && c.Peek() != quote {
		r := c.Next()
		if r == '\\' && !c.EOF() {
			escaped := c.Next()
			switch escaped {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '\\', '"', '\'':
				sb.WriteRune(escaped)
			default:
				sb.WriteRune('\\')
				sb.WriteRune(escaped)
			}

			continue
		}

		sb.WriteRune(r)
	}

	if err := c.Expect(quote); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// AttributeValue consumes a single- or double-quoted markup attribute value and
// returns its body verbatim. Markup has no backslash escapes: the value ends at
// the first matching quote.
func (c *Cursor) AttributeValue() (string, error) {
	quote := c.Peek()
	if quote != '"' && quote != '\'' {
		return "", ExpectedOneOf([]string{`"`, "'"}, runeText(quote), c.SpanAtCurrent())
	}

	c.Next()

	value := c.ConsumeWhile(func(r rune) bool { return r != quote })

	if err := c.Expect(quote); err != nil {
		return "", err
	}

	return value, nil
}

// Position returns the document position of the current rune.
func (c *Cursor) Position() Position {
	return Position{Line: c.line, Column: c.column, Offset: c.baseOffset + c.pos}
}

// Slice returns the source between a local offset and the current offset.
func (c *Cursor) Slice(from int) string {
	return c.src[from:c.pos]
}

// SpanFrom returns the span from start to the current position.
func (c *Cursor) SpanFrom(start Position) Span {
	return Span{Start: start, End: c.Position()}
}

// SpanAtCurrent returns a span covering the current rune.
func (c *Cursor) SpanAtCurrent() Span {
	start := c.Position()
	end := start

	if r := c.Peek(); r != 0 {
		end.Column += max(utf16.RuneLen(r), 1)
		end.Offset += utf8.RuneLen(r)
	}

	return Span{Start: start, End: end}
}

// IsIdentStart reports whether r may begin an identifier.
func IsIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

// IsIdentPart reports whether r may continue an identifier.
func IsIdentPart(r rune) bool {
	return IsIdentStart(r) || unicode.IsDigit(r)
}
