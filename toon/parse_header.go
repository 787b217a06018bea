package toon

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ============================================================
// Array Header Parsing
// ============================================================
//
// Header format:
//   [N]{f1,f2}:     tabular, one row per element on following lines
//   [N]:            list, one item per element on following lines
//   [N]: a,b,c      inline, elements on the same line
//
// An optional marker rune may precede N, e.g. [#3].

type arrayForm uint8

const (
	formInline arrayForm = iota
	formTabular
	formList
)

// arrayHeader is a parsed array header.
type arrayHeader struct {
	form     arrayForm
	declared int
	marker   rune
	fields   []string  // tabular
	delim    Delimiter // tabular: detected in the field list, or from rows under a comma header
	body     string    // inline: text after "]: "
	pos      Position
}

// parseArrayHeader parses s, which starts at '[' located at pos.
func parseArrayHeader(s string, pos Position, scan Scanner) (arrayHeader, error) {
	h := arrayHeader{pos: pos}
	if s == "" || s[0] != '[' {
		return h, newError(CodeInvalidHeader, pos, "expected '['")
	}
	i := 1

	if i < len(s) && !isDigit(s[i]) && s[i] != ']' {
		r, size := utf8.DecodeRuneInString(s[i:])
		h.marker = r
		i += size
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return h, newError(CodeInvalidHeader, pos, "missing array length")
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return h, &Error{Code: CodeInvalidHeader, Pos: pos, Msg: "array length out of range", Err: err}
	}
	h.declared = n

	if i >= len(s) || s[i] != ']' {
		return h, newError(CodeInvalidHeader, pos, "expected ']' after array length")
	}
	i++

	if i < len(s) && s[i] == '{' {
		end := strings.IndexByte(s[i:], '}')
		if end < 0 {
			return h, newError(CodeInvalidHeader, pos, "unterminated field list")
		}
		inner := s[i+1 : i+end]
		h.delim = scan.DetectDelimiter(inner)
		for _, f := range scan.SplitRow(inner, h.delim) {
			f = strings.Trim(f, " ")
			if f == "" {
				return h, newError(CodeInvalidHeader, pos, "empty field name")
			}
			h.fields = append(h.fields, f)
		}
		i += end + 1
		if i >= len(s) || s[i] != ':' {
			return h, newError(CodeInvalidHeader, pos, "expected ':' after field list")
		}
		if strings.Trim(s[i+1:], " ") != "" {
			return h, newError(CodeInvalidHeader, pos, "unexpected content after tabular header")
		}
		h.form = formTabular
		return h, nil
	}

	if i >= len(s) || s[i] != ':' {
		return h, newError(CodeInvalidHeader, pos, "expected ':' or '{' after array length")
	}
	rest := s[i+1:]
	if strings.Trim(rest, " ") == "" {
		h.form = formList
		return h, nil
	}
	h.form = formInline
	h.body = strings.TrimPrefix(rest, " ")
	return h, nil
}
