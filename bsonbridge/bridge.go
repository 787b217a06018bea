// Package bsonbridge converts between BSON documents and toon values, so
// MongoDB exports can be rendered as TOON and TOON documents loaded back.
//
// BSON-only types without a TOON counterpart become strings: ObjectIDs as
// hex, datetimes as RFC 3339 in UTC, binary as base64, Decimal128 in its
// decimal form. Timestamps become {t, i} objects.
package bsonbridge

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/Neumenon/toon/toon"
)

// ============================================================
// BSON to Value
// ============================================================

// FromBSON converts one BSON document to an object value. Element order is
// kept.
func FromBSON(doc []byte) (*toon.Value, error) {
	raw := bson.Raw(doc)
	if err := raw.Validate(); err != nil {
		return nil, deserializationError("invalid document", err)
	}
	return fromDocument(raw)
}

// FromExtJSON converts MongoDB Extended JSON (canonical or relaxed) to an
// object value.
func FromExtJSON(data []byte) (*toon.Value, error) {
	var raw bson.Raw
	if err := bson.UnmarshalExtJSON(data, false, &raw); err != nil {
		return nil, deserializationError("invalid extended JSON", err)
	}
	return fromDocument(raw)
}

// FromRawValue converts a single BSON value.
func FromRawValue(rv bson.RawValue) (*toon.Value, error) {
	switch rv.Type {
	case bsontype.Null, bsontype.Undefined:
		return toon.Null(), nil
	case bsontype.Boolean:
		return toon.Bool(rv.Boolean()), nil
	case bsontype.Int32:
		return toon.Int(int64(rv.Int32())), nil
	case bsontype.Int64:
		return toon.Int(rv.Int64()), nil
	case bsontype.Double:
		return toon.Float(rv.Double()), nil
	case bsontype.String:
		return toon.Str(rv.StringValue()), nil
	case bsontype.Symbol:
		return toon.Str(rv.Symbol()), nil
	case bsontype.JavaScript:
		return toon.Str(rv.JavaScript()), nil
	case bsontype.ObjectID:
		return toon.Str(rv.ObjectID().Hex()), nil
	case bsontype.DateTime:
		return toon.Str(time.UnixMilli(rv.DateTime()).UTC().Format(time.RFC3339Nano)), nil
	case bsontype.Decimal128:
		return toon.Str(rv.Decimal128().String()), nil
	case bsontype.Binary:
		_, data := rv.Binary()
		return toon.Str(base64.StdEncoding.EncodeToString(data)), nil
	case bsontype.Regex:
		pattern, options := rv.Regex()
		return toon.Str("/" + pattern + "/" + options), nil
	case bsontype.Timestamp:
		t, i := rv.Timestamp()
		return toon.Object(
			toon.Field("t", toon.Int(int64(t))),
			toon.Field("i", toon.Int(int64(i))),
		), nil
	case bsontype.EmbeddedDocument:
		return fromDocument(rv.Document())
	case bsontype.Array:
		values, err := rv.Array().Values()
		if err != nil {
			return nil, deserializationError("array", err)
		}
		arr := toon.Array()
		for _, item := range values {
			v, err := FromRawValue(item)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	}
	return nil, &toon.Error{Code: toon.CodeDeserialization, Msg: fmt.Sprintf("unsupported BSON type %s", rv.Type)}
}

func fromDocument(doc bson.Raw) (*toon.Value, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, deserializationError("document", err)
	}
	obj := toon.Object()
	for _, el := range elems {
		v, err := FromRawValue(el.Value())
		if err != nil {
			return nil, fmt.Errorf("bsonbridge: field %q: %w", el.Key(), err)
		}
		obj.Set(el.Key(), v)
	}
	return obj, nil
}

// ============================================================
// Value to BSON
// ============================================================

// ToBSON converts an object value to a BSON document.
func ToBSON(v *toon.Value) ([]byte, error) {
	if v.Kind() != toon.KindObject {
		return nil, &toon.Error{Code: toon.CodeSerialization, Msg: "BSON documents need an object, got " + v.Kind().String()}
	}
	doc, err := bson.Marshal(toDocument(v))
	if err != nil {
		return nil, &toon.Error{Code: toon.CodeSerialization, Msg: "marshal BSON", Err: err}
	}
	return doc, nil
}

// ToExtJSON converts an object value to relaxed MongoDB Extended JSON.
func ToExtJSON(v *toon.Value) ([]byte, error) {
	doc, err := ToBSON(v)
	if err != nil {
		return nil, err
	}
	out, err := bson.MarshalExtJSON(bson.Raw(doc), false, false)
	if err != nil {
		return nil, &toon.Error{Code: toon.CodeSerialization, Msg: "marshal extended JSON", Err: err}
	}
	return out, nil
}

func toDocument(v *toon.Value) bson.D {
	entries, _ := v.AsObject()
	doc := make(bson.D, 0, len(entries))
	for _, e := range entries {
		doc = append(doc, bson.E{Key: e.Key, Value: toBSONValue(e.Value)})
	}
	return doc
}

func toBSONValue(v *toon.Value) any {
	switch v.Kind() {
	case toon.KindBool:
		b, _ := v.AsBool()
		return b
	case toon.KindInt:
		i, _ := v.AsInt()
		return i
	case toon.KindFloat:
		f, _ := v.AsFloat()
		return f
	case toon.KindString:
		s, _ := v.AsString()
		return s
	case toon.KindArray:
		items, _ := v.AsArray()
		arr := make(bson.A, len(items))
		for i, item := range items {
			arr[i] = toBSONValue(item)
		}
		return arr
	case toon.KindObject:
		return toDocument(v)
	}
	return nil
}

// ============================================================
// Document Streams
// ============================================================

// ReadDocuments reads concatenated BSON documents (the mongodump format) from
// r and returns them as an array of objects.
func ReadDocuments(r io.Reader) (*toon.Value, error) {
	arr := toon.Array()
	for {
		raw, err := bson.NewFromIOReader(r)
		if errors.Is(err, io.EOF) {
			return arr, nil
		}
		if err != nil {
			return nil, &toon.Error{Code: toon.CodeIO, Msg: fmt.Sprintf("document %d", arr.Len()), Err: err}
		}
		v, err := FromBSON(raw)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
}

// WriteDocuments writes an object as one BSON document, or an array of
// objects as concatenated documents.
func WriteDocuments(w io.Writer, v *toon.Value) error {
	docs := []*toon.Value{v}
	if v.Kind() == toon.KindArray {
		docs, _ = v.AsArray()
	}
	for i, d := range docs {
		data, err := ToBSON(d)
		if err != nil {
			return fmt.Errorf("bsonbridge: document %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return &toon.Error{Code: toon.CodeIO, Msg: "write", Err: err}
		}
	}
	return nil
}

func deserializationError(msg string, err error) error {
	return &toon.Error{Code: toon.CodeDeserialization, Msg: msg, Err: err}
}
