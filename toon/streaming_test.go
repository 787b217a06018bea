package toon

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSink = errors.New("sink closed")

// failingWriter accepts limit bytes and then fails.
type failingWriter struct {
	limit int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		return 0, errSink
	}
	w.n += len(p)
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errSink
}

func TestEncoderMatchesEncode(t *testing.T) {
	g := valueGen{r: rand.New(rand.NewSource(7))}
	for i := 0; i < 100; i++ {
		v := g.root()
		for _, opts := range optionMatrix() {
			want, err := EncodeWithOptions(v, opts)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, NewEncoder(&buf, opts).Encode(v))
			assert.Equal(t, want, buf.String())
		}
	}
}

func TestEncoderLargeDocument(t *testing.T) {
	rows := Array()
	for i := 0; i < 5000; i++ {
		rows.Append(Object(Field("id", Int(int64(i))), Field("name", Str("user"))))
	}
	v := Object(Field("rows", rows))

	want, err := Encode(v)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeTo(&buf, v, DefaultEncodeOptions()))
	assert.Equal(t, want, buf.String())
}

func TestEncoderWriteFailure(t *testing.T) {
	rows := Array()
	for i := 0; i < 2000; i++ {
		rows.Append(Object(Field("id", Int(int64(i)))))
	}
	w := &failingWriter{limit: 100}
	err := NewEncoder(w, DefaultEncodeOptions()).Encode(Object(Field("rows", rows)))
	require.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, errSink)
}

func TestEncoderFlushFailure(t *testing.T) {
	w := &failingWriter{limit: 0}
	err := EncodeTo(w, Object(Field("a", Int(1))), DefaultEncodeOptions())
	require.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, errSink)
}

func TestEncoderSerializationFailure(t *testing.T) {
	var buf bytes.Buffer
	err := NewEncoder(&buf, DefaultEncodeOptions()).Encode(Array(Float(1), Float(nan())))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDecoderMatchesDecode(t *testing.T) {
	text := "items[2]{sku,qty,price}:\n  A1,2,9.99\n  B2,1,14.5\nuser:\n  id: 1"
	want, err := Decode(text)
	require.NoError(t, err)

	got, err := NewDecoder(strings.NewReader(text), DefaultDecodeOptions()).Decode()
	require.NoError(t, err)
	assert.True(t, Equal(want, got))

	got, err = DecodeReader(io.MultiReader(strings.NewReader(text[:10]), strings.NewReader(text[10:])), DefaultDecodeOptions())
	require.NoError(t, err)
	assert.True(t, Equal(want, got))
}

func TestDecoderReadFailure(t *testing.T) {
	_, err := DecodeReader(failingReader{}, DefaultDecodeOptions())
	require.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, errSink)
}

func TestDecoderPropagatesParseErrors(t *testing.T) {
	_, err := DecodeReader(strings.NewReader("tags[3]: a"), DefaultDecodeOptions())
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
