package toon

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Scalar Encoding
// ============================================================

// renderPrimitive returns the text of a scalar in a row or value slot.
// Null renders as the empty string.
func renderPrimitive(v *Value, d Delimiter) (string, error) {
	switch v.Kind() {
	case KindNull:
		return "", nil
	case KindBool:
		if v.boolVal {
			return "true", nil
		}
		return "false", nil
	case KindInt:
		return strconv.FormatInt(v.intVal, 10), nil
	case KindFloat:
		return formatFloat(v.floatVal)
	case KindString:
		return renderString(v.strVal, d), nil
	}
	return "", &Error{Code: CodeSerialization, Msg: "expected primitive, got " + v.Kind().String()}
}

// formatFloat renders integral values that fit in int64 as integers and
// everything else in the shortest decimal that round-trips. Magnitudes in
// [1e-6, 1e21) use fixed notation, others use exponent notation (1e+21,
// 1e-7), the same policy as encoding/json.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", &Error{Code: CodeSerialization, Msg: "cannot encode " + strconv.FormatFloat(f, 'g', -1, 64)}
	}
	if f == math.Trunc(f) && f >= -9.223372036854775808e18 && f < 9.223372036854775808e18 {
		return strconv.FormatInt(int64(f), 10), nil
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	b := strconv.AppendFloat(make([]byte, 0, 24), f, format, -1, 64)
	if format == 'e' {
		// 1e-07 -> 1e-7
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b), nil
}

// renderString returns s bare when the decoder would read it back as the
// same string, quoted otherwise.
func renderString(s string, d Delimiter) string {
	if needsQuote(s, d) {
		return quoteString(s)
	}
	return s
}

// needsQuote reports whether s must be quoted. Every delimiter candidate is
// quoted regardless of the active one, since delimiter detection on decode
// sees all of them.
func needsQuote(s string, d Delimiter) bool {
	if s == "" {
		return true
	}
	switch s {
	case "true", "false", "null":
		return true
	}
	if s[0] == '[' {
		return true
	}
	if strings.IndexByte(s, byte(d)) >= 0 {
		return true
	}
	if strings.ContainsAny(s, " \n\t\r\"\\:,|") {
		return true
	}
	return isNumericLiteral(s)
}

// quoteString returns s in double quotes with \\ \" \n \r \t escaped.
// Other bytes are copied through unchanged.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ============================================================
// Scalar Decoding
// ============================================================

// isNumericLiteral matches [+-]? digits [. digits] [(e|E) [+-]? digits]
// with at least one mantissa digit. Words like NaN or Infinity never match.
func isNumericLiteral(s string) bool {
	i, n := 0, len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < n && isDigit(s[i]) {
		i++
		digits++
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < n && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseNumber converts a numeric literal. Integers that overflow int64 fall
// back to float64; values beyond float64 range are InvalidNumber.
func parseNumber(s string, pos Position) (*Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &Error{Code: CodeInvalidNumber, Pos: pos, Msg: strconv.Quote(s), Err: err}
	}
	return Float(f), nil
}

// unquote resolves a quoted string. s must start with '"' and the closing
// quote must end s.
func unquote(s string, pos Position) (string, error) {
	if i := strings.IndexAny(s[1:], "\"\\"); i >= 0 && s[1+i] == '"' {
		end := 1 + i
		if end != len(s)-1 {
			return "", newError(CodeParse, pos, "unexpected text after closing quote")
		}
		return s[1:end], nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				return "", newError(CodeUnterminatedString, pos, "")
			}
			i++
			switch s[i] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", newError(CodeInvalidEscape, pos, `\`+string(s[i]))
			}
		case '"':
			if i != len(s)-1 {
				return "", newError(CodeParse, pos, "unexpected text after closing quote")
			}
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", newError(CodeUnterminatedString, pos, "")
}

// resolvePrimitive maps scalar text to a value: empty is null, then booleans,
// null, numbers, quoted strings, and finally the literal text.
func resolvePrimitive(s string, pos Position) (*Value, error) {
	s = strings.Trim(s, " \t")
	switch s {
	case "":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null(), nil
	}
	if s[0] == '"' {
		str, err := unquote(s, pos)
		if err != nil {
			return nil, err
		}
		return Str(str), nil
	}
	if isNumericLiteral(s) {
		return parseNumber(s, pos)
	}
	return Str(s), nil
}
