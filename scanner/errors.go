package scanner

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per ParseError kind.
var (
	ErrParse              = errors.New("parse error")
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrExpectedChar       = errors.New("expected character")
	ErrExpectedString     = errors.New("expected string")
	ErrExpectedOneOf      = errors.New("expected one of")
	ErrExpectedClosingTag = errors.New("expected closing tag")
	ErrTrailingContent    = errors.New("trailing content")
	ErrParseFloat         = errors.New("invalid number literal")
	ErrNotImplemented     = errors.New("not implemented")
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	KindParse ErrorKind = iota
	KindUnexpectedChar
	KindExpectedChar
	KindExpectedString
	KindExpectedOneOf
	KindExpectedClosingTag
	KindTrailingContent
	KindParseFloat
	KindNotImplemented
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindUnexpectedChar:
		return "UnexpectedChar"
	case KindExpectedChar:
		return "ExpectedChar"
	case KindExpectedString:
		return "ExpectedString"
	case KindExpectedOneOf:
		return "ExpectedOneOf"
	case KindExpectedClosingTag:
		return "ExpectedClosingTag"
	case KindTrailingContent:
		return "TrailingContent"
	case KindParseFloat:
		return "ParseFloatError"
	case KindNotImplemented:
		return "NotImplemented"
	default:
		return "Parse"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnexpectedChar:
		return ErrUnexpectedChar
	case KindExpectedChar:
		return ErrExpectedChar
	case KindExpectedString:
		return ErrExpectedString
	case KindExpectedOneOf:
		return ErrExpectedOneOf
	case KindExpectedClosingTag:
		return ErrExpectedClosingTag
	case KindTrailingContent:
		return ErrTrailingContent
	case KindParseFloat:
		return ErrParseFloat
	case KindNotImplemented:
		return ErrNotImplemented
	default:
		return ErrParse
	}
}

// ParseError is the single error produced by a failing sub-parse.
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Expected []string
	Found    string
	Span     Span
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Span.IsUnknown() {
		return e.Description()
	}

	return e.Description() + " at " + e.Span.Start.String()
}

// Description is the error text without the position.
func (e *ParseError) Description() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.sentinel().Error())

	switch {
	case e.Message != "":
		sb.WriteString(": " + e.Message)
	case len(e.Expected) == 1:
		fmt.Fprintf(&sb, ": expected %q, found %q", e.Expected[0], e.Found)
	case len(e.Expected) > 1:
		fmt.Fprintf(&sb, ": expected one of [%s], found %q", strings.Join(e.Expected, ", "), e.Found)
	case e.Found != "":
		fmt.Fprintf(&sb, " %q", e.Found)
	}

	return sb.String()
}

// Unwrap lets callers match the kind with errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Kind.sentinel()
}

func NewParseError(message string, span Span) *ParseError {
	return &ParseError{Kind: KindParse, Message: message, Span: span}
}

func UnexpectedChar(found rune, span Span) *ParseError {
	return &ParseError{Kind: KindUnexpectedChar, Found: runeText(found), Span: span}
}

func ExpectedChar(expected, found rune, span Span) *ParseError {
	return &ParseError{Kind: KindExpectedChar, Expected: []string{string(expected)}, Found: runeText(found), Span: span}
}

func ExpectedString(expected, found string, span Span) *ParseError {
	return &ParseError{Kind: KindExpectedString, Expected: []string{expected}, Found: found, Span: span}
}

func ExpectedOneOf(expected []string, found string, span Span) *ParseError {
	return &ParseError{Kind: KindExpectedOneOf, Expected: expected, Found: found, Span: span}
}

func ExpectedClosingTag(expected, found string, span Span) *ParseError {
	return &ParseError{Kind: KindExpectedClosingTag, Expected: []string{expected}, Found: found, Span: span}
}

func TrailingContent(span Span) *ParseError {
	return &ParseError{Kind: KindTrailingContent, Span: span}
}

func ParseFloat(source string, span Span) *ParseError {
	return &ParseError{Kind: KindParseFloat, Found: source, Span: span}
}

func NotImplemented(feature string, span Span) *ParseError {
	return &ParseError{Kind: KindNotImplemented, Message: feature, Span: span}
}

func runeText(r rune) string {
	if r == 0 {
		return "EOF"
	}

	return string(r)
}
