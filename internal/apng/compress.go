package apng

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zlib"
)

// Compressor turns raw filtered scanlines into a zlib (RFC 1950) stream.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Compress(raw []byte) ([]byte, error)
}

// ZlibCompressor compresses with klauspost's zlib at Level.
type ZlibCompressor struct {
	Level int
}

// NewZlibCompressor returns a compressor at the default level.
func NewZlibCompressor() *ZlibCompressor {
	return &ZlibCompressor{Level: zlib.DefaultCompression}
}

func (z *ZlibCompressor) Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(raw)/2 + 64)
	zw, err := zlib.NewWriterLevel(&buf, z.Level)
	if err != nil {
		return nil, fmt.Errorf("zlib level %d: %w", z.Level, err)
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
