package toon

import (
	"encoding/json"
	"io"
)

// ============================================================
// Typed Binding
// ============================================================
//
// Go values reach the value tree through encoding/json, so struct tags,
// json.Marshaler implementations and omitempty behave as they do for JSON.

// ToValue converts a Go value to a Value.
func ToValue(x any) (*Value, error) {
	if v, ok := x.(*Value); ok {
		return v, nil
	}
	data, err := json.Marshal(x)
	if err != nil {
		return nil, wrapError(CodeSerialization, "marshal", err)
	}
	v, err := FromJSON(data)
	if err != nil {
		return nil, wrapError(CodeSerialization, "convert", err)
	}
	return v, nil
}

// FromValue stores v into the Go value pointed to by out.
func FromValue(v *Value, out any) error {
	if dst, ok := out.(*Value); ok {
		*dst = *v.Clone()
		return nil
	}
	data, err := ToJSON(v)
	if err != nil {
		return wrapError(CodeDeserialization, "convert", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return wrapError(CodeDeserialization, "unmarshal", err)
	}
	return nil
}

// Marshal returns the TOON encoding of x with default options.
func Marshal(x any) ([]byte, error) {
	return MarshalWithOptions(x, DefaultEncodeOptions())
}

// MarshalWithOptions returns the TOON encoding of x.
func MarshalWithOptions(x any, opts EncodeOptions) ([]byte, error) {
	v, err := ToValue(x)
	if err != nil {
		return nil, err
	}
	s, err := EncodeWithOptions(v, opts)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// MarshalTo writes the TOON encoding of x to w.
func MarshalTo(w io.Writer, x any, opts EncodeOptions) error {
	v, err := ToValue(x)
	if err != nil {
		return err
	}
	return NewEncoder(w, opts).Encode(v)
}

// Unmarshal parses TOON data with default options and stores the result in
// the value pointed to by out.
func Unmarshal(data []byte, out any) error {
	return UnmarshalWithOptions(data, out, DefaultDecodeOptions())
}

// UnmarshalWithOptions parses TOON data and stores the result in out.
func UnmarshalWithOptions(data []byte, out any, opts DecodeOptions) error {
	v, err := DecodeWithOptions(string(data), opts)
	if err != nil {
		return err
	}
	return FromValue(v, out)
}

// UnmarshalFrom reads a TOON document from r and stores it in out.
func UnmarshalFrom(r io.Reader, out any, opts DecodeOptions) error {
	v, err := NewDecoder(r, opts).Decode()
	if err != nil {
		return err
	}
	return FromValue(v, out)
}
