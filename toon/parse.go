package toon

import (
	"strings"
)

// Decode parses TOON text with default options.
func Decode(text string) (*Value, error) {
	return DecodeWithOptions(text, DefaultDecodeOptions())
}

// DecodeWithOptions parses TOON text into a value tree.
//
// A document whose first significant character is '[' is a root array, an
// empty document is an empty object, and a single line without an unquoted
// ':' is a root primitive. Anything else is a root object.
func DecodeWithOptions(text string, opts DecodeOptions) (*Value, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	d := &decoder{opts: opts, lines: splitLines(text, opts.Indent)}
	return d.decode()
}

// ============================================================
// Lines
// ============================================================

// srcLine is one physical line with its indentation resolved.
type srcLine struct {
	text   string // content after the leading spaces
	level  int    // whole indent units
	num    int    // 1-based line number
	offset int    // byte offset of the line start
	col0   int    // byte index of text within the line
}

func (l srcLine) blank() bool {
	return strings.Trim(l.text, " \t") == ""
}

// pos returns the position of byte i of l.text.
func (l srcLine) pos(i int) Position {
	return Position{Line: l.num, Column: l.col0 + i + 1, Offset: l.offset + l.col0 + i}
}

// sub returns a line holding l.text[i:] at the given level.
func (l srcLine) sub(i, level int) srcLine {
	l.text = l.text[i:]
	l.col0 += i
	l.level = level
	return l
}

func splitLines(text string, indent int) []srcLine {
	lines := make([]srcLine, 0, strings.Count(text, "\n")+1)
	offset := 0
	for num := 1; ; num++ {
		raw := text[offset:]
		next := -1
		if i := strings.IndexByte(raw, '\n'); i >= 0 {
			raw = raw[:i]
			next = offset + i + 1
		}
		raw = strings.TrimSuffix(raw, "\r")

		spaces := 0
		for spaces < len(raw) && raw[spaces] == ' ' {
			spaces++
		}
		lines = append(lines, srcLine{
			text:   raw[spaces:],
			level:  spaces / indent,
			num:    num,
			offset: offset,
			col0:   spaces,
		})
		if next < 0 {
			return lines
		}
		offset = next
	}
}

// ============================================================
// Decoder
// ============================================================

type frameKind uint8

const (
	frameObject frameKind = iota
	frameList
	frameTabular
)

// frame is an open container. Lines at frame.level belong to it; a shallower
// line closes it.
type frame struct {
	kind  frameKind
	level int
	value *Value
	hdr   arrayHeader
}

// decoder walks the lines once with an explicit frame stack, so nesting
// depth is bounded by memory rather than the call stack.
type decoder struct {
	opts  DecodeOptions
	lines []srcLine
	next  int
	stack []*frame
}

func (d *decoder) decode() (*Value, error) {
	first, ok := d.peek(false)
	if !ok {
		return Object(), nil
	}

	if first.text[0] == '[' {
		d.next++
		root := Array()
		if err := d.openArray(first, first.level, root); err != nil {
			return nil, err
		}
		if err := d.run(); err != nil {
			return nil, err
		}
		if extra, ok := d.peek(false); ok && d.opts.Strict {
			return nil, newError(CodeParse, extra.pos(0), "unexpected content after root array")
		}
		return root, nil
	}

	if d.onlyLine() && indexUnquoted(first.text, ':') < 0 {
		return resolvePrimitive(first.text, first.pos(0))
	}

	root := Object()
	d.push(&frame{kind: frameObject, level: first.level, value: root})
	if err := d.run(); err != nil {
		return nil, err
	}
	if extra, ok := d.peek(false); ok {
		return nil, newError(CodeParse, extra.pos(0), "unexpected indentation")
	}
	return root, nil
}

// onlyLine reports whether the line at d.next is the last significant one.
func (d *decoder) onlyLine() bool {
	for _, l := range d.lines[d.next+1:] {
		if !l.blank() {
			return false
		}
	}
	return true
}

// peek returns the next line without consuming it. Blank lines are skipped
// unless rows is set: an indented whitespace-only line is then returned as a
// row of null cells.
func (d *decoder) peek(rows bool) (srcLine, bool) {
	for d.next < len(d.lines) {
		l := d.lines[d.next]
		if rows && l.level > 0 {
			return l, true
		}
		if !l.blank() {
			return l, true
		}
		d.next++
	}
	return srcLine{}, false
}

// blankRowAllowed reports whether a whitespace-only line can still be a row
// of f. Only single-field and tab-delimited tables render all-null rows that
// way, and never beyond the declared count.
func blankRowAllowed(f *frame) bool {
	if f.kind != frameTabular || f.value.Len() >= f.hdr.declared {
		return false
	}
	return len(f.hdr.fields) == 1 || f.hdr.delim == Tab
}

func (d *decoder) push(f *frame) {
	d.stack = append(d.stack, f)
}

// pop closes the top frame, checking declared lengths in strict mode.
func (d *decoder) pop() error {
	f := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	if f.kind == frameObject || !d.opts.Strict {
		return nil
	}
	if n := f.value.Len(); n != f.hdr.declared {
		what := "list items"
		if f.kind == frameTabular {
			what = "tabular rows"
		}
		return lengthMismatch(f.hdr.pos, what, f.hdr.declared, n)
	}
	return nil
}

func (d *decoder) run() error {
	for len(d.stack) > 0 {
		top := d.stack[len(d.stack)-1]
		ln, ok := d.peek(blankRowAllowed(top))
		if !ok || ln.level < top.level {
			if err := d.pop(); err != nil {
				return err
			}
			continue
		}
		if ln.level > top.level && top.kind != frameTabular {
			return newError(CodeParse, ln.pos(0), "unexpected indentation")
		}
		d.next++

		var err error
		switch top.kind {
		case frameObject:
			err = d.entry(top, ln)
		case frameList:
			err = d.listItem(top, ln)
		case frameTabular:
			err = d.tabularRow(top, ln)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ============================================================
// Objects
// ============================================================

// entry parses "key: value", "key:" or "key[N]..." into the object frame f.
// Tabs before the key are skipped; they never count as indentation.
func (d *decoder) entry(f *frame, ln srcLine) error {
	if n := len(ln.text) - len(strings.TrimLeft(ln.text, " \t")); n > 0 {
		ln = ln.sub(n, ln.level)
	}
	text := ln.text
	k := strings.IndexAny(text, ":[ \t")
	if k == 0 {
		return newError(CodeMissingField, ln.pos(0), "entry has no key")
	}
	if k < 0 {
		return newError(CodeParse, ln.pos(len(text)), "expected ':' after key")
	}
	key := text[:k]

	switch text[k] {
	case '[':
		arr := Array()
		f.value.Set(key, arr)
		return d.openArray(ln.sub(k, ln.level), f.level, arr)
	case ':':
	default:
		return newError(CodeParse, ln.pos(k), "expected ':' after key")
	}

	restAt := k + 1
	for restAt < len(text) && (text[restAt] == ' ' || text[restAt] == '\t') {
		restAt++
	}
	rest := text[restAt:]

	if strings.Trim(rest, " \t") == "" {
		nx, ok := d.peek(false)
		if !ok || nx.level <= f.level {
			f.value.Set(key, Null())
			return nil
		}
		if nx.text[0] == '[' {
			d.next++
			arr := Array()
			f.value.Set(key, arr)
			return d.openArray(nx, nx.level, arr)
		}
		child := Object()
		f.value.Set(key, child)
		d.push(&frame{kind: frameObject, level: nx.level, value: child})
		return nil
	}

	if rest[0] == '[' {
		arr := Array()
		f.value.Set(key, arr)
		return d.openArray(ln.sub(restAt, ln.level), f.level, arr)
	}
	v, err := resolvePrimitive(rest, ln.pos(restAt))
	if err != nil {
		return err
	}
	f.value.Set(key, v)
	return nil
}

// ============================================================
// Arrays
// ============================================================

// openArray parses the header at the start of ln.text into arr. Inline
// arrays are filled at once; list and tabular arrays get a frame whose rows
// sit one level below owner.
func (d *decoder) openArray(ln srcLine, owner int, arr *Value) error {
	h, err := parseArrayHeader(ln.text, ln.pos(0), ScannerFor(len(ln.text)))
	if err != nil {
		return err
	}

	switch h.form {
	case formTabular:
		d.push(&frame{kind: frameTabular, level: owner + 1, value: arr, hdr: h})
		return nil
	case formList:
		d.push(&frame{kind: frameList, level: owner + 1, value: arr, hdr: h})
		return nil
	}

	if h.declared == 0 {
		return nil
	}
	scan := ScannerFor(len(h.body))
	for _, field := range scan.SplitRow(h.body, scan.DetectDelimiter(h.body)) {
		if strings.Trim(field, " \t") == "" {
			continue
		}
		v, err := resolvePrimitive(field, h.pos)
		if err != nil {
			return err
		}
		arr.Append(v)
	}
	if n := arr.Len(); d.opts.Strict && n != h.declared {
		return lengthMismatch(h.pos, "inline items", h.declared, n)
	}
	return nil
}

// listItem parses one "- item" line of the list frame f.
func (d *decoder) listItem(f *frame, ln srcLine) error {
	at := 0
	switch {
	case strings.HasPrefix(ln.text, "- "):
		at = 2
	case ln.text == "-":
		at = 1
	}
	for at < len(ln.text) && ln.text[at] == ' ' {
		at++
	}
	content := ln.text[at:]

	if content == "" {
		f.value.Append(Null())
		return nil
	}
	if content[0] == '[' {
		arr := Array()
		f.value.Append(arr)
		return d.openArray(ln.sub(at, ln.level), ln.level, arr)
	}
	if countUnquoted(content, ':') == 1 {
		obj := Object()
		f.value.Append(obj)
		of := &frame{kind: frameObject, level: ln.level + 1, value: obj}
		d.push(of)
		return d.entry(of, ln.sub(at, of.level))
	}
	v, err := resolvePrimitive(content, ln.pos(at))
	if err != nil {
		return err
	}
	f.value.Append(v)
	return nil
}

// tabularRow parses one row of the tabular frame f. A comma header may
// carry rows split by another delimiter; the first row that only fits that
// delimiter fixes it for the rest of the table.
func (d *decoder) tabularRow(f *frame, ln srcLine) error {
	scan := ScannerFor(len(ln.text))
	fields := scan.SplitRow(ln.text, f.hdr.delim)
	want := len(f.hdr.fields)
	if len(fields) != want && f.hdr.delim == Comma {
		if alt := scan.DetectDelimiter(ln.text); alt != Comma {
			if split := scan.SplitRow(ln.text, alt); len(split) == want {
				f.hdr.delim = alt
				fields = split
			}
		}
	}
	if len(fields) != want && d.opts.Strict {
		if len(fields) == 1 && want > 1 && hasOtherDelimiter(ln.text, f.hdr.delim) {
			return newError(CodeDelimiterMismatch, ln.pos(0),
				"row is not split by "+f.hdr.delim.String())
		}
		return lengthMismatch(ln.pos(0), "row fields", want, len(fields))
	}

	row := Object()
	for i, name := range f.hdr.fields {
		v := Null()
		if i < len(fields) {
			var err error
			if v, err = resolvePrimitive(fields[i], ln.pos(0)); err != nil {
				return err
			}
		}
		row.Set(name, v)
	}
	f.value.Append(row)
	return nil
}

func hasOtherDelimiter(s string, d Delimiter) bool {
	for _, c := range []Delimiter{Tab, Pipe, Comma} {
		if c != d && indexUnquoted(s, byte(c)) >= 0 {
			return true
		}
	}
	return false
}
