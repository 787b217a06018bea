package toon

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value. Object key order is kept in both
// directions, which a map-based json.Unmarshal would lose.

// FromJSON converts JSON bytes to a Value. Integers that fit in int64 become
// Int, other numbers Float.
func FromJSON(data []byte) (*Value, error) {
	if !json.Valid(data) {
		return nil, wrapError(CodeDeserialization, "invalid JSON", errors.New("syntax error"))
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, wrapError(CodeDeserialization, "invalid JSON", err)
	}
	return fromJSONValue(raw, typ)
}

func fromJSONValue(raw []byte, typ jsonparser.ValueType) (*Value, error) {
	switch typ {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, wrapError(CodeDeserialization, "bool", err)
		}
		return Bool(b), nil
	case jsonparser.Number:
		return fromJSONNumber(raw)
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, wrapError(CodeDeserialization, "string", err)
		}
		return Str(s), nil
	case jsonparser.Array:
		arr := Array()
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(item []byte, t jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			v, err := fromJSONValue(item, t)
			if err != nil {
				inner = err
				return
			}
			arr.Append(v)
		})
		if inner != nil {
			return nil, inner
		}
		if err != nil {
			return nil, wrapError(CodeDeserialization, "array", err)
		}
		return arr, nil
	case jsonparser.Object:
		obj := Object()
		err := jsonparser.ObjectEach(raw, func(key, val []byte, t jsonparser.ValueType, _ int) error {
			v, err := fromJSONValue(val, t)
			if err != nil {
				return err
			}
			obj.Set(string(key), v)
			return nil
		})
		if err != nil {
			var te *Error
			if errors.As(err, &te) {
				return nil, err
			}
			return nil, wrapError(CodeDeserialization, "object", err)
		}
		return obj, nil
	}
	return nil, &Error{Code: CodeDeserialization, Msg: "unsupported JSON value " + typ.String()}
}

func fromJSONNumber(raw []byte) (*Value, error) {
	s := string(raw)
	if !bytes.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, wrapError(CodeDeserialization, "number "+s, err)
	}
	return Float(f), nil
}

// ============================================================
// Value to JSON
// ============================================================

// ToJSON converts a Value to compact JSON, keeping object key order.
func ToJSON(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolVal))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.intVal, 10))
	case KindFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			return &Error{Code: CodeSerialization, Msg: "NaN and Infinity have no JSON form"}
		}
		s, err := formatFloat(v.floatVal)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case KindString:
		writeJSONString(buf, v.strVal)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, e.Key)
			buf.WriteByte(':')
			if err := writeJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	// Marshaling a string cannot fail.
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// MarshalJSON implements json.Marshaler.
func (v *Value) MarshalJSON() ([]byte, error) {
	return ToJSON(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := FromJSON(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}
