package toon

import (
	"fmt"
	"strings"
	"unicode"
)

// Delimiter separates values in tabular rows and inline arrays.
type Delimiter byte

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
	Pipe  Delimiter = '|'
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// String returns the delimiter name.
func (d Delimiter) String() string {
	switch d {
	case Comma:
		return "comma"
	case Tab:
		return "tab"
	case Pipe:
		return "pipe"
	default:
		return fmt.Sprintf("delimiter(%q)", rune(d))
	}
}

// Valid reports whether d is one of the supported delimiters.
func (d Delimiter) Valid() bool {
	return d == Comma || d == Tab || d == Pipe
}

// ParseDelimiter maps a name or the literal character to a Delimiter.
// Accepted names: comma, tab, pipe.
func ParseDelimiter(s string) (Delimiter, error) {
	switch strings.ToLower(s) {
	case "", "comma", ",":
		return Comma, nil
	case "tab", "\t", `\t`:
		return Tab, nil
	case "pipe", "|":
		return Pipe, nil
	}
	return 0, newError(CodeInvalidOptions, Position{}, fmt.Sprintf("unknown delimiter %q", s))
}

// EncodeOptions controls encoding.
type EncodeOptions struct {
	// Delimiter separates tabular fields and inline items (default: Comma).
	Delimiter Delimiter

	// LengthMarker, when non-zero, prefixes every array length, e.g. [#3].
	LengthMarker rune

	// Indent is the number of spaces per nesting level (default: 2).
	Indent int
}

// DefaultEncodeOptions returns comma delimiter, no length marker, indent 2.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Delimiter: Comma,
		Indent:    DefaultIndent,
	}
}

// normalize fills zero fields with defaults and rejects invalid settings.
func (o EncodeOptions) normalize() (EncodeOptions, error) {
	if o.Delimiter == 0 {
		o.Delimiter = Comma
	}
	if !o.Delimiter.Valid() {
		return o, newError(CodeInvalidOptions, Position{}, fmt.Sprintf("unsupported %s", o.Delimiter))
	}
	if o.Indent < 0 {
		return o, newError(CodeInvalidOptions, Position{}, fmt.Sprintf("negative indent %d", o.Indent))
	}
	if o.Indent == 0 {
		o.Indent = DefaultIndent
	}
	if o.LengthMarker != 0 && !validMarker(o.LengthMarker) {
		return o, newError(CodeInvalidOptions, Position{}, fmt.Sprintf("length marker %q collides with header syntax", o.LengthMarker))
	}
	return o, nil
}

// validMarker rejects runes that would make an array header ambiguous.
func validMarker(r rune) bool {
	if r >= '0' && r <= '9' {
		return false
	}
	if unicode.IsSpace(r) || unicode.IsControl(r) {
		return false
	}
	switch r {
	case '[', ']', '{', '}', ':', '"', '\\', ',', '|', '-':
		return false
	}
	return true
}

// DecodeOptions controls decoding.
type DecodeOptions struct {
	// Indent is the number of spaces per nesting level (default: 2).
	Indent int

	// Strict rejects arrays whose realised length differs from the
	// declared length.
	Strict bool
}

// DefaultDecodeOptions returns indent 2, strict mode.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Indent: DefaultIndent,
		Strict: true,
	}
}

func (o DecodeOptions) normalize() (DecodeOptions, error) {
	if o.Indent < 0 {
		return o, newError(CodeInvalidOptions, Position{}, fmt.Sprintf("negative indent %d", o.Indent))
	}
	if o.Indent == 0 {
		o.Indent = DefaultIndent
	}
	return o, nil
}
