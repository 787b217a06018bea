package toon

import (
	"strconv"
	"strings"
)

// Encode converts a value to TOON text with default options.
func Encode(v *Value) (string, error) {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions converts a value to TOON text. Lines are separated by
// "\n" and the output has no trailing newline.
func EncodeWithOptions(v *Value, opts EncodeOptions) (string, error) {
	opts, err := opts.normalize()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	e := newEmitter(&sb, opts)
	if err := e.emitRoot(v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// textSink is satisfied by *strings.Builder and *bufio.Writer, so the
// in-memory and streaming paths share one emitter.
type textSink interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
}

type emitter struct {
	w      textSink
	opts   EncodeOptions
	indent string
	marker string
	lines  int
	err    error // first sink failure
}

func newEmitter(w textSink, opts EncodeOptions) *emitter {
	e := &emitter{
		w:      w,
		opts:   opts,
		indent: strings.Repeat(" ", opts.Indent),
	}
	if opts.LengthMarker != 0 {
		e.marker = string(opts.LengthMarker)
	}
	return e
}

func (e *emitter) emitRoot(v *Value) error {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindObject:
		if err := e.emitObject(v, 0); err != nil {
			return err
		}
	case KindArray:
		if err := e.emitArray("", v, 0, 1); err != nil {
			return err
		}
	default:
		s, err := renderPrimitive(v, e.opts.Delimiter)
		if err != nil {
			return err
		}
		e.line(0, s)
	}
	if e.err != nil {
		return wrapError(CodeIO, "write", e.err)
	}
	return nil
}

// line writes one output line at the given nesting level.
func (e *emitter) line(level int, parts ...string) {
	if e.err != nil {
		return
	}
	if e.lines > 0 {
		if err := e.w.WriteByte('\n'); err != nil {
			e.err = err
			return
		}
	}
	e.lines++
	for i := 0; i < level; i++ {
		if _, err := e.w.WriteString(e.indent); err != nil {
			e.err = err
			return
		}
	}
	for _, p := range parts {
		if _, err := e.w.WriteString(p); err != nil {
			e.err = err
			return
		}
	}
}

// ============================================================
// Objects
// ============================================================

func (e *emitter) emitObject(v *Value, level int) error {
	for _, ent := range v.entries {
		if err := e.emitEntry("", ent, level, level); err != nil {
			return err
		}
	}
	return nil
}

// emitEntry writes one key at lineLevel behind prefix. Nested content goes
// one level below entryLevel, which differs from lineLevel only for the
// first entry of an object written on a list item's dash line.
func (e *emitter) emitEntry(prefix string, ent Entry, lineLevel, entryLevel int) error {
	v := ent.Value
	switch v.Kind() {
	case KindArray:
		return e.emitArray(prefix+ent.Key, v, lineLevel, entryLevel+1)
	case KindObject:
		e.line(lineLevel, prefix, ent.Key, ":")
		return e.emitObject(v, entryLevel+1)
	case KindNull:
		e.line(lineLevel, prefix, ent.Key, ":")
		return nil
	}
	s, err := renderPrimitive(v, e.opts.Delimiter)
	if err != nil {
		return err
	}
	e.line(lineLevel, prefix, ent.Key, ": ", s)
	return nil
}

// ============================================================
// Arrays
// ============================================================

func (e *emitter) header(n int) string {
	if n == 0 {
		return "[0]"
	}
	return "[" + e.marker + strconv.Itoa(n) + "]"
}

// emitArray writes an array header after lead (a key, "- " or nothing) at
// lineLevel; rows and items go to childLevel.
func (e *emitter) emitArray(lead string, v *Value, lineLevel, childLevel int) error {
	items := v.items
	if len(items) == 0 {
		e.line(lineLevel, lead, "[0]:")
		return nil
	}
	hdr := e.header(len(items))
	delim := string(rune(e.opts.Delimiter))

	if fields := tabularFields(items); fields != nil {
		e.line(lineLevel, lead, hdr, "{", strings.Join(fields, delim), "}:")
		cells := make([]string, len(fields))
		for _, item := range items {
			for i, f := range fields {
				s, err := renderPrimitive(item.Get(f), e.opts.Delimiter)
				if err != nil {
					return err
				}
				cells[i] = s
			}
			e.line(childLevel, strings.Join(cells, delim))
		}
		return nil
	}

	if allPrimitive(items) && !containsNull(items) {
		cells := make([]string, len(items))
		for i, item := range items {
			s, err := renderPrimitive(item, e.opts.Delimiter)
			if err != nil {
				return err
			}
			cells[i] = s
		}
		e.line(lineLevel, lead, hdr, ": ", strings.Join(cells, delim))
		return nil
	}

	e.line(lineLevel, lead, hdr, ":")
	for _, item := range items {
		if err := e.emitListItem(item, childLevel); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitListItem(v *Value, level int) error {
	switch v.Kind() {
	case KindArray:
		return e.emitArray("- ", v, level, level+1)
	case KindObject:
		return e.emitListObject(v, level)
	}
	s, err := renderPrimitive(v, e.opts.Delimiter)
	if err != nil {
		return err
	}
	if s == "" {
		e.line(level, "-")
	} else {
		e.line(level, "- ", s)
	}
	return nil
}

// emitListObject writes an object element. Objects of primitives share the
// dash line as space-joined pairs; an object holding a composite writes its
// first entry on the dash line and the rest one level deeper.
func (e *emitter) emitListObject(v *Value, level int) error {
	if len(v.entries) == 0 {
		e.line(level, "-")
		return nil
	}
	if !allPrimitiveValues(v.entries) {
		if err := e.emitEntry("- ", v.entries[0], level, level+1); err != nil {
			return err
		}
		for _, ent := range v.entries[1:] {
			if err := e.emitEntry("", ent, level+1, level+1); err != nil {
				return err
			}
		}
		return nil
	}

	parts := make([]string, 0, 2*len(v.entries))
	for i, ent := range v.entries {
		if i > 0 {
			parts = append(parts, " ")
		}
		s, err := renderPrimitive(ent.Value, e.opts.Delimiter)
		if err != nil {
			return err
		}
		if s == "" {
			parts = append(parts, ent.Key+":")
		} else {
			parts = append(parts, ent.Key+": "+s)
		}
	}
	e.line(level, append([]string{"- "}, parts...)...)
	return nil
}

// tabularFields returns the header fields when items is a non-empty run of
// objects sharing one non-empty key set with primitive values only. Field
// order follows the first object.
func tabularFields(items []*Value) []string {
	first := items[0]
	if first.Kind() != KindObject || len(first.entries) == 0 {
		return nil
	}
	fields := first.Keys()
	for _, item := range items {
		if item.Kind() != KindObject || len(item.entries) != len(fields) {
			return nil
		}
		if !allPrimitiveValues(item.entries) {
			return nil
		}
		for _, f := range fields {
			if item.Get(f) == nil {
				return nil
			}
		}
	}
	return fields
}

func allPrimitive(items []*Value) bool {
	for _, item := range items {
		if !item.IsPrimitive() {
			return false
		}
	}
	return true
}

// containsNull reports whether any item is null. Nulls render as empty
// fields, which inline arrays drop, so such arrays use list form.
func containsNull(items []*Value) bool {
	for _, item := range items {
		if item.IsNull() {
			return true
		}
	}
	return false
}

func allPrimitiveValues(entries []Entry) bool {
	for _, ent := range entries {
		if !ent.Value.IsPrimitive() {
			return false
		}
	}
	return true
}
