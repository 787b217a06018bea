package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// compressWriter wraps w with the named codec: none, gzip or zstd.
func compressWriter(w io.Writer, codec string) (io.WriteCloser, error) {
	switch codec {
	case "", "none":
		return nopWriteCloser{w}, nil
	case "gzip":
		return gzip.NewWriter(w), nil
	case "zstd":
		return zstd.NewWriter(w)
	}
	return nil, fmt.Errorf("unknown compression %q (want none, gzip or zstd)", codec)
}

// decompressReader wraps r with the named codec. "auto" sniffs the gzip and
// zstd magic numbers and falls back to plain text.
func decompressReader(r io.Reader, codec string) (io.ReadCloser, error) {
	if codec == "auto" {
		br := bufio.NewReader(r)
		head, _ := br.Peek(len(zstdMagic))
		switch {
		case bytes.HasPrefix(head, gzipMagic):
			codec = "gzip"
		case bytes.HasPrefix(head, zstdMagic):
			codec = "zstd"
		default:
			codec = "none"
		}
		r = br
	}

	switch codec {
	case "", "none":
		return io.NopCloser(r), nil
	case "gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("unknown compression %q (want none, gzip, zstd or auto)", codec)
}
