package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression names the optional compression around a snapshot document.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionGzip   Compression = "gzip"
	CompressionZstd   Compression = "zstd"
	CompressionBrotli Compression = "br"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ParseCompression accepts none, gzip (gz), zstd (zst) and br (brotli).
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "br", "brotli":
		return CompressionBrotli, nil
	}
	return "", fmt.Errorf("unsupported compression %q", s)
}

// CompressionFromFileName guesses the compression from a file suffix.
func CompressionFromFileName(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(name, ".zst"):
		return CompressionZstd
	case strings.HasSuffix(name, ".br"):
		return CompressionBrotli
	}
	return ""
}

// DetectCompression recognizes gzip and zstd by magic number.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	}
	return CompressionNone
}

// Extension is the file suffix added for the compression.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	case CompressionBrotli:
		return ".br"
	}
	return ""
}

// ContentEncoding is the HTTP Content-Encoding value, empty for none.
func (c Compression) ContentEncoding() string {
	switch c {
	case CompressionGzip, CompressionZstd, CompressionBrotli:
		return string(c)
	}
	return ""
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case "", CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionBrotli:
		return brotli.NewWriter(w), nil
	}
	return nil, fmt.Errorf("unsupported compression %q", c)
}

func decompress(data []byte, c Compression) ([]byte, error) {
	var r io.Reader
	switch c {
	case "", CompressionNone:
		return data, nil
	case CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("invalid gzip data: %w", err)
		}
		defer gr.Close()
		r = gr
	case CompressionZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("invalid zstd data: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionBrotli:
		r = brotli.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s snapshot: %w", c, err)
	}
	return out, nil
}
