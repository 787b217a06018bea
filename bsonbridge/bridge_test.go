package bsonbridge

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Neumenon/toon/toon"
)

func mustMarshal(t *testing.T, doc bson.D) []byte {
	t.Helper()
	data, err := bson.Marshal(doc)
	require.NoError(t, err)
	return data
}

func TestFromBSONScalars(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("5f1d7f0e2a9b3c4d5e6f7a8b")
	require.NoError(t, err)
	dec, err := primitive.ParseDecimal128("12.50")
	require.NoError(t, err)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := mustMarshal(t, bson.D{
		{Key: "_id", Value: oid},
		{Key: "n32", Value: int32(7)},
		{Key: "n64", Value: int64(-9)},
		{Key: "f", Value: 2.5},
		{Key: "s", Value: "hi"},
		{Key: "ok", Value: true},
		{Key: "none", Value: nil},
		{Key: "at", Value: primitive.NewDateTimeFromTime(at)},
		{Key: "price", Value: dec},
		{Key: "bin", Value: primitive.Binary{Data: []byte("abc")}},
		{Key: "re", Value: primitive.Regex{Pattern: "^a", Options: "i"}},
		{Key: "ts", Value: primitive.Timestamp{T: 10, I: 2}},
	})

	v, err := FromBSON(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"_id", "n32", "n64", "f", "s", "ok", "none", "at", "price", "bin", "re", "ts"}, v.Keys())

	want := toon.Object(
		toon.Field("_id", toon.Str("5f1d7f0e2a9b3c4d5e6f7a8b")),
		toon.Field("n32", toon.Int(7)),
		toon.Field("n64", toon.Int(-9)),
		toon.Field("f", toon.Float(2.5)),
		toon.Field("s", toon.Str("hi")),
		toon.Field("ok", toon.Bool(true)),
		toon.Field("none", toon.Null()),
		toon.Field("at", toon.Str("2024-03-01T12:00:00Z")),
		toon.Field("price", toon.Str("12.50")),
		toon.Field("bin", toon.Str("YWJj")),
		toon.Field("re", toon.Str("/^a/i")),
		toon.Field("ts", toon.Object(toon.Field("t", toon.Int(10)), toon.Field("i", toon.Int(2)))),
	)
	assert.True(t, toon.Equal(want, v), v.String())
}

func TestFromBSONNested(t *testing.T) {
	doc := mustMarshal(t, bson.D{
		{Key: "users", Value: bson.A{
			bson.D{{Key: "id", Value: int32(1)}, {Key: "name", Value: "Alice"}},
			bson.D{{Key: "id", Value: int32(2)}, {Key: "name", Value: "Bob"}},
		}},
		{Key: "meta", Value: bson.D{{Key: "tags", Value: bson.A{"a", "b"}}}},
	})

	v, err := FromBSON(doc)
	require.NoError(t, err)

	text, err := toon.Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "users[2]{id,name}:\n  1,Alice\n  2,Bob\nmeta:\n  tags[2]: a,b", text)
}

func TestFromBSONInvalid(t *testing.T) {
	_, err := FromBSON([]byte{1, 2, 3})
	assert.ErrorIs(t, err, toon.ErrDeserialization)

	doc := mustMarshal(t, bson.D{{Key: "k", Value: primitive.MinKey{}}})
	_, err = FromBSON(doc)
	require.ErrorIs(t, err, toon.ErrDeserialization)
	assert.Contains(t, err.Error(), `field "k"`)
}

func TestFromExtJSON(t *testing.T) {
	v, err := FromExtJSON([]byte(`{"a": {"$numberLong": "5"}, "b": {"$oid": "5f1d7f0e2a9b3c4d5e6f7a8b"}, "c": [1, "x"]}`))
	require.NoError(t, err)
	want := toon.Object(
		toon.Field("a", toon.Int(5)),
		toon.Field("b", toon.Str("5f1d7f0e2a9b3c4d5e6f7a8b")),
		toon.Field("c", toon.Array(toon.Int(1), toon.Str("x"))),
	)
	assert.True(t, toon.Equal(want, v), v.String())

	_, err = FromExtJSON([]byte(`{"a":`))
	assert.ErrorIs(t, err, toon.ErrDeserialization)
}

func TestToBSONRoundTrip(t *testing.T) {
	v, err := toon.Decode("id: 3\nname: Ada\nscore: 9.5\nactive: true\nnote:\ntags[2]: x,y\nitems[1]{sku,qty}:\n  A1,2")
	require.NoError(t, err)

	doc, err := ToBSON(v)
	require.NoError(t, err)

	var d bson.D
	require.NoError(t, bson.Unmarshal(doc, &d))
	assert.Equal(t, "id", d[0].Key)
	assert.Equal(t, int64(3), d[0].Value)
	assert.Nil(t, d[4].Value)

	back, err := FromBSON(doc)
	require.NoError(t, err)
	assert.True(t, toon.Equal(v, back))
	assert.Equal(t, v.Keys(), back.Keys())
}

func TestToBSONRejectsNonObjects(t *testing.T) {
	for _, v := range []*toon.Value{toon.Int(1), toon.Array(), toon.Null()} {
		_, err := ToBSON(v)
		assert.ErrorIs(t, err, toon.ErrSerialization, v.Kind().String())
	}
}

func TestToExtJSON(t *testing.T) {
	out, err := ToExtJSON(toon.Object(toon.Field("b", toon.Int(1)), toon.Field("a", toon.Str("x"))))
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"x"}`, string(out))
}

func TestDocumentStream(t *testing.T) {
	rows := toon.Array(
		toon.Object(toon.Field("id", toon.Int(1)), toon.Field("name", toon.Str("a"))),
		toon.Object(toon.Field("id", toon.Int(2)), toon.Field("name", toon.Str("b"))),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, rows))

	got, err := ReadDocuments(&buf)
	require.NoError(t, err)
	assert.True(t, toon.Equal(rows, got))

	empty, err := ReadDocuments(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestDocumentStreamErrors(t *testing.T) {
	_, err := ReadDocuments(bytes.NewReader([]byte{20, 0, 0, 0, 3}))
	assert.ErrorIs(t, err, toon.ErrIO)

	var buf bytes.Buffer
	err = WriteDocuments(&buf, toon.Array(toon.Object(), toon.Int(1)))
	require.ErrorIs(t, err, toon.ErrSerialization)
	assert.Contains(t, err.Error(), "document 1")
}
