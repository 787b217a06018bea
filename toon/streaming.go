package toon

import (
	"bufio"
	"io"
)

// ============================================================
// Streaming Encoder
// ============================================================

// Encoder writes TOON documents to an io.Writer.
//
// Output goes through a buffered writer that is flushed once per successful
// Encode, and is byte-identical to EncodeWithOptions. On failure the writer
// may hold a truncated document, which callers should discard. Closing the
// underlying writer is up to the caller.
type Encoder struct {
	w    io.Writer
	opts EncodeOptions
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts EncodeOptions) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes v as one TOON document.
func (enc *Encoder) Encode(v *Value) error {
	opts, err := enc.opts.normalize()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc.w)
	if err := newEmitter(bw, opts).emitRoot(v); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return wrapError(CodeIO, "flush", err)
	}
	return nil
}

// EncodeTo writes v to w.
func EncodeTo(w io.Writer, v *Value, opts EncodeOptions) error {
	return NewEncoder(w, opts).Encode(v)
}

// ============================================================
// Streaming Decoder
// ============================================================

// Decoder reads a TOON document from an io.Reader.
//
// The whole source is read before parsing starts: indentation decides
// structure only once later lines are known, so the read path keeps the
// same memory profile as Decode.
type Decoder struct {
	r    io.Reader
	opts DecodeOptions
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader, opts DecodeOptions) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads r to EOF and parses it.
func (dec *Decoder) Decode() (*Value, error) {
	data, err := io.ReadAll(dec.r)
	if err != nil {
		return nil, wrapError(CodeIO, "read", err)
	}
	return DecodeWithOptions(string(data), dec.opts)
}

// DecodeReader reads a TOON document from r.
func DecodeReader(r io.Reader, opts DecodeOptions) (*Value, error) {
	return NewDecoder(r, opts).Decode()
}
