package apng

import (
	"fmt"
	"io"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
)

// EncodePNG writes a single frame as a plain PNG with the same chunk
// framing the animated encoder uses.
func EncodePNG(w io.Writer, f *frame.Frame, c Compressor) error {
	if c == nil {
		return ErrCapabilityUnavailable
	}
	seq := frame.Sequence{Frames: []*frame.Frame{f}, Delays: []int{0}}
	if err := seq.Validate(1); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	data, err := compressFrame(c, f)
	if err != nil {
		return fmt.Errorf("png encode: %w", err)
	}

	cw := NewChunkWriter(w)
	cw.WriteSignature()
	cw.WriteChunk(TypeIHDR, ihdr(f.Width, f.Height))
	cw.WriteChunk(TypeIDAT, data)
	cw.WriteChunk(TypeIEND, nil)
	return cw.Err()
}
