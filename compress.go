package nbt

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Compression identifies the envelope framing around an encoded document.
// The values match the per-slot discriminant byte of the region format.
type Compression uint8

const (
	CompressionGzip Compression = 1
	CompressionZlib Compression = 2
	CompressionNone Compression = 3
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionNone:
		return "none"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c >= CompressionGzip && c <= CompressionNone
}

// ParseCompression maps a framing name to its discriminant.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "gzip":
		return CompressionGzip, nil
	case "zlib":
		return CompressionZlib, nil
	case "none", "raw":
		return CompressionNone, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

// SniffCompression guesses the envelope of a standalone document from its
// leading bytes: the gzip magic, the zlib check-bits header, or raw.
func SniffCompression(data []byte) Compression {
	if len(data) >= 2 {
		if data[0] == 0x1f && data[1] == 0x8b {
			return CompressionGzip
		}
		if data[0]&0x0f == 8 && (uint16(data[0])<<8|uint16(data[1]))%31 == 0 {
			return CompressionZlib
		}
	}
	return CompressionNone
}

// Compress wraps data in the envelope. The output always carries a valid
// checksum. The input is copied even for CompressionNone, so callers may
// reuse data afterwards.
func (c Compression) Compress(data []byte) ([]byte, error) {
	switch c {
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		must(w.Write(data))
		ensure(w.Close())
		return buf.Bytes(), nil
	case CompressionZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		must(w.Write(data))
		ensure(w.Close())
		return buf.Bytes(), nil
	case CompressionNone:
		return append([]byte(nil), data...), nil
	default:
		return nil, dataErrf(nil, 0, nil, "unsupported compression %d", uint8(c))
	}
}

// Decompress unwraps the envelope. Checksum mismatches are deliberately
// tolerated; truncated or structurally invalid streams return a DataError.
func (c Compression) Decompress(data []byte) ([]byte, error) {
	switch c {
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, dataErrf(data, 0, err, "bad gzip stream")
		}
		return readIgnoringChecksum(r, data, gzip.ErrChecksum)
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, dataErrf(data, 0, err, "bad zlib stream")
		}
		return readIgnoringChecksum(r, data, zlib.ErrChecksum)
	case CompressionNone:
		return data, nil
	default:
		return nil, dataErrf(data, 0, nil, "unsupported compression %d", uint8(c))
	}
}

func readIgnoringChecksum(r io.Reader, data []byte, checksumErr error) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil && !errors.Is(err, checksumErr) {
		return nil, dataErrf(data, 0, err, "truncated compressed stream")
	}
	return out, nil
}
