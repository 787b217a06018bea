package toon

import "strings"

// Scanner finds delimiters in row text. Both methods treat a `"` as toggling
// a quoted span and a backslash as escaping the byte after it; delimiters
// inside quoted spans or escaped are ignored.
type Scanner interface {
	// DetectDelimiter reports the delimiter used in window, preferring
	// TAB over PIPE over COMMA. It returns Comma when none is present.
	DetectDelimiter(window string) Delimiter

	// SplitRow splits row on d. The result always has at least one field.
	SplitRow(row string, d Delimiter) []string
}

// fastScanThreshold is the input size from which FastScanner is used.
const fastScanThreshold = 32

// ScannerFor selects a scanner for input of n bytes.
func ScannerFor(n int) Scanner {
	if n >= fastScanThreshold {
		return FastScanner{}
	}
	return ReferenceScanner{}
}

// ============================================================
// Reference scanner
// ============================================================

// ReferenceScanner examines every byte. It is the behavioural reference for
// FastScanner.
type ReferenceScanner struct{}

// DetectDelimiter implements Scanner.
func (ReferenceScanner) DetectDelimiter(window string) Delimiter {
	var pipe, comma, inQuotes, escaped bool
	for i := 0; i < len(window); i++ {
		c := window[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inQuotes = !inQuotes
		case '\t':
			if !inQuotes {
				return Tab
			}
		case '|':
			if !inQuotes {
				pipe = true
			}
		case ',':
			if !inQuotes {
				comma = true
			}
		}
	}
	return pickDelimiter(pipe, comma)
}

// SplitRow implements Scanner.
func (ReferenceScanner) SplitRow(row string, d Delimiter) []string {
	fields := make([]string, 0, 4)
	start := 0
	var inQuotes, escaped bool
	for i := 0; i < len(row); i++ {
		c := row[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == byte(d) && !inQuotes:
			fields = append(fields, row[start:i])
			start = i + 1
		}
	}
	return append(fields, row[start:])
}

// ============================================================
// Fast scanner
// ============================================================

// FastScanner jumps between interesting bytes with strings.IndexAny and
// splits rows without quotes or escapes with a single strings.Split.
type FastScanner struct{}

const detectSet = "\t|,\"\\"

// DetectDelimiter implements Scanner.
func (FastScanner) DetectDelimiter(window string) Delimiter {
	if strings.IndexByte(window, '"') < 0 && strings.IndexByte(window, '\\') < 0 {
		switch {
		case strings.IndexByte(window, '\t') >= 0:
			return Tab
		case strings.IndexByte(window, '|') >= 0:
			return Pipe
		default:
			return Comma
		}
	}

	var pipe, comma, inQuotes bool
	i := 0
	for i < len(window) {
		j := strings.IndexAny(window[i:], detectSet)
		if j < 0 {
			break
		}
		i += j
		switch window[i] {
		case '\\':
			i += 2
			continue
		case '"':
			inQuotes = !inQuotes
		case '\t':
			if !inQuotes {
				return Tab
			}
		case '|':
			if !inQuotes {
				pipe = true
			}
		case ',':
			if !inQuotes {
				comma = true
			}
		}
		i++
	}
	return pickDelimiter(pipe, comma)
}

// SplitRow implements Scanner.
func (FastScanner) SplitRow(row string, d Delimiter) []string {
	if strings.IndexByte(row, '"') < 0 && strings.IndexByte(row, '\\') < 0 {
		return strings.Split(row, string(rune(d)))
	}

	set := string([]byte{'"', '\\', byte(d)})
	fields := make([]string, 0, 4)
	start := 0
	inQuotes := false
	i := 0
	for i < len(row) {
		j := strings.IndexAny(row[i:], set)
		if j < 0 {
			break
		}
		i += j
		switch row[i] {
		case '\\':
			i += 2
			continue
		case '"':
			inQuotes = !inQuotes
		default:
			if !inQuotes {
				fields = append(fields, row[start:i])
				start = i + 1
			}
		}
		i++
	}
	return append(fields, row[start:])
}

func pickDelimiter(pipe, comma bool) Delimiter {
	switch {
	case pipe:
		return Pipe
	case comma:
		return Comma
	}
	return Comma
}

// ============================================================
// Quote-aware helpers
// ============================================================

// indexUnquoted returns the index of the first c outside quoted spans, or -1.
func indexUnquoted(s string, c byte) int {
	var inQuotes, escaped bool
	for i := 0; i < len(s); i++ {
		b := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case b == '\\':
			escaped = true
		case b == '"':
			inQuotes = !inQuotes
		case b == c && !inQuotes:
			return i
		}
	}
	return -1
}

// countUnquoted counts occurrences of c outside quoted spans.
func countUnquoted(s string, c byte) int {
	n := 0
	for {
		i := indexUnquoted(s, c)
		if i < 0 {
			return n
		}
		n++
		// No quote or escape is pending at an unquoted match.
		s = s[i+1:]
	}
}
