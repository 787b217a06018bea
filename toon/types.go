package toon

import (
	"fmt"
	"math"
)

// Kind represents TOON value kinds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a node of the generic value tree that TOON encodes and decodes.
//
// Integers and decimals are kept apart so that integers round-trip exactly;
// both are numbers as far as the notation is concerned.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string

	// Container values
	items   []*Value
	entries []Entry
}

// Entry is a key/value pair of an object. Objects keep their entries in
// insertion order.
type Entry struct {
	Key   string
	Value *Value
}

// Position is a location in TOON source text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ============================================================
// Constructors
// ============================================================

// Null returns a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolVal: b}
}

// Int returns an integer value.
func Int(i int64) *Value {
	return &Value{kind: KindInt, intVal: i}
}

// Float returns a decimal value.
func Float(f float64) *Value {
	return &Value{kind: KindFloat, floatVal: f}
}

// Str returns a string value.
func Str(s string) *Value {
	return &Value{kind: KindString, strVal: s}
}

// Array returns an array holding items. Nil items are stored as null.
func Array(items ...*Value) *Value {
	v := &Value{kind: KindArray, items: make([]*Value, 0, len(items))}
	for _, it := range items {
		v.Append(it)
	}
	return v
}

// Object returns an object built from entries. A key that repeats keeps its
// first position and takes the last value.
func Object(entries ...Entry) *Value {
	v := &Value{kind: KindObject, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		v.Set(e.Key, e.Value)
	}
	return v
}

// Field is shorthand for an Entry literal.
func Field(key string, value *Value) Entry {
	return Entry{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind. A nil value reports KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null (or nil).
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// IsNumber reports whether v is an integer or a decimal.
func (v *Value) IsNumber() bool {
	k := v.Kind()
	return k == KindInt || k == KindFloat
}

// IsPrimitive reports whether v is a scalar (not an array or object).
func (v *Value) IsPrimitive() bool {
	k := v.Kind()
	return k != KindArray && k != KindObject
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("toon: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if v.Kind() != KindInt {
		return 0, fmt.Errorf("toon: expected int, got %s", v.Kind())
	}
	return v.intVal, nil
}

// AsFloat returns the decimal value.
func (v *Value) AsFloat() (float64, error) {
	if v.Kind() != KindFloat {
		return 0, fmt.Errorf("toon: expected float, got %s", v.Kind())
	}
	return v.floatVal, nil
}

// Number returns any numeric value as float64.
func (v *Value) Number() (float64, error) {
	switch v.Kind() {
	case KindInt:
		return float64(v.intVal), nil
	case KindFloat:
		return v.floatVal, nil
	}
	return 0, fmt.Errorf("toon: expected number, got %s", v.Kind())
}

// AsString returns the string value.
func (v *Value) AsString() (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("toon: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsArray returns the array items.
func (v *Value) AsArray() ([]*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("toon: expected array, got %s", v.Kind())
	}
	return v.items, nil
}

// AsObject returns the object entries in order.
func (v *Value) AsObject() ([]Entry, error) {
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("toon: expected object, got %s", v.Kind())
	}
	return v.entries, nil
}

// Len returns the number of items or entries; zero for scalars.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.entries)
	}
	return 0
}

// Index returns the i-th array item, or nil when out of range.
func (v *Value) Index(i int) *Value {
	if v.Kind() != KindArray || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Get returns the value stored under key, or nil.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindObject {
		return nil
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Keys returns the object keys in order.
func (v *Value) Keys() []string {
	if v.Kind() != KindObject {
		return nil
	}
	keys := make([]string, len(v.entries))
	for i, e := range v.entries {
		keys[i] = e.Key
	}
	return keys
}

// ============================================================
// Mutators
// ============================================================

// Set stores value under key. An existing key is overwritten in place.
// Set on a non-object is a no-op.
func (v *Value) Set(key string, value *Value) {
	if v == nil || v.kind != KindObject {
		return
	}
	if value == nil {
		value = Null()
	}
	for i := range v.entries {
		if v.entries[i].Key == key {
			v.entries[i].Value = value
			return
		}
	}
	v.entries = append(v.entries, Entry{Key: key, Value: value})
}

// Append adds an item to an array. Append on a non-array is a no-op.
func (v *Value) Append(item *Value) {
	if v == nil || v.kind != KindArray {
		return
	}
	if item == nil {
		item = Null()
	}
	v.items = append(v.items, item)
}

// ============================================================
// Equality
// ============================================================

// Equal reports whether a and b hold the same data. Numbers compare by
// numeric value, so Int(2) equals Float(2). Objects compare as mappings:
// entry order is not significant.
func Equal(a, b *Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return numbersEqual(a, b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for _, e := range a.entries {
			other := b.Get(e.Key)
			if other == nil || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b *Value) bool {
	if a.kind == KindInt && b.kind == KindInt {
		return a.intVal == b.intVal
	}
	af, _ := a.Number()
	bf, _ := b.Number()
	if math.IsNaN(af) && math.IsNaN(bf) {
		return true
	}
	return af == bf
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return Null()
	}
	out := *v
	switch v.kind {
	case KindArray:
		out.items = make([]*Value, len(v.items))
		for i, it := range v.items {
			out.items[i] = it.Clone()
		}
	case KindObject:
		out.entries = make([]Entry, len(v.entries))
		for i, e := range v.entries {
			out.entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	return &out
}

// String renders v as TOON with default options. Values that cannot be
// encoded render as a short diagnostic.
func (v *Value) String() string {
	s, err := Encode(v)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.Kind(), err)
	}
	return s
}
