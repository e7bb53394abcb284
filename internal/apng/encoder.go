package apng

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
	"github.com/Brandjuh/Cad-tag-generator/internal/system"
)

// ErrCapabilityUnavailable is returned when no compressor is configured.
// Nothing is written in that case, so callers can fall back to another
// export path.
var ErrCapabilityUnavailable = errors.New("apng: no deflate compressor available")

// Encoder writes frame sequences as looping APNG streams.
type Encoder struct {
	Compressor Compressor
	// Workers bounds the parallel compression phase; <=0 uses GOMAXPROCS.
	Workers int
	// NumPlays is written to acTL; 0 loops forever.
	NumPlays uint32
	// ZeroBasedSequence numbers fcTL/fdAT from 0 instead of 1.
	ZeroBasedSequence bool
	Logger            *zap.Logger
}

// NewEncoder returns an encoder with the default zlib compressor.
func NewEncoder(logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{Compressor: NewZlibCompressor(), Logger: logger}
}

func (e *Encoder) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Encoder) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Encode writes seq to w as an APNG. The sequence is validated and every
// frame compressed before the first byte is written; a failure in either
// step leaves w untouched.
func (e *Encoder) Encode(ctx context.Context, w io.Writer, seq *frame.Sequence) error {
	if e.Compressor == nil {
		return ErrCapabilityUnavailable
	}
	if err := seq.Validate(2); err != nil {
		return fmt.Errorf("apng encode: %w", err)
	}

	start := time.Now()
	width, height := seq.Size()
	compressed := make([][]byte, seq.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, f := range seq.Frames {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := compressFrame(e.Compressor, f)
			if err != nil {
				return fmt.Errorf("compress frame %d: %w", i, err)
			}
			compressed[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cw := NewChunkWriter(w)
	cw.WriteSignature()
	cw.WriteChunk(TypeIHDR, ihdr(width, height))
	cw.WriteChunk(TypeACTL, actl(uint32(seq.Len()), e.NumPlays))

	var sn uint32 = 1
	if e.ZeroBasedSequence {
		sn = 0
	}
	for i, data := range compressed {
		cw.WriteChunk(TypeFCTL, fctl(sn, width, height, seq.Delays[i]))
		sn++
		if i == 0 {
			cw.WriteChunk(TypeIDAT, data)
			continue
		}
		fd := make([]byte, 4+len(data))
		binary.BigEndian.PutUint32(fd[:4], sn)
		copy(fd[4:], data)
		cw.WriteChunk(TypeFDAT, fd)
		sn++
	}
	cw.WriteChunk(TypeIEND, nil)
	if err := cw.Err(); err != nil {
		return fmt.Errorf("apng write: %w", err)
	}

	e.logger().Debug("[>] apng encoded",
		zap.Int("frames", seq.Len()),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int64("bytes", cw.Written()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// EncodeBytes is Encode into a fresh buffer.
func (e *Encoder) EncodeBytes(ctx context.Context, seq *frame.Sequence) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Encode(ctx, &buf, seq); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressFrame lays the frame out as filter-0 scanlines and compresses it.
func compressFrame(c Compressor, f *frame.Frame) ([]byte, error) {
	stride := f.Width * 4
	raw := system.GetBytes(f.Height * (stride + 1))
	defer system.PutBytes(raw)

	for y := 0; y < f.Height; y++ {
		row := raw[y*(stride+1):]
		row[0] = 0
		copy(row[1:stride+1], f.Pix[y*stride:(y+1)*stride])
	}
	return c.Compress(raw)
}

func ihdr(width, height int) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:], uint32(width))
	binary.BigEndian.PutUint32(b[4:], uint32(height))
	b[8] = 8  // bit depth
	b[9] = 6  // RGBA
	b[10] = 0 // deflate
	b[11] = 0 // adaptive filtering
	b[12] = 0 // no interlace
	return b
}

func actl(numFrames, numPlays uint32) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:], numFrames)
	binary.BigEndian.PutUint32(b[4:], numPlays)
	return b
}

func fctl(seq uint32, width, height, delayMs int) []byte {
	if delayMs > 0xFFFF {
		delayMs = 0xFFFF
	}
	b := make([]byte, 26)
	binary.BigEndian.PutUint32(b[0:], seq)
	binary.BigEndian.PutUint32(b[4:], uint32(width))
	binary.BigEndian.PutUint32(b[8:], uint32(height))
	// x/y offsets stay 0
	binary.BigEndian.PutUint16(b[20:], uint16(delayMs))
	binary.BigEndian.PutUint16(b[22:], 1000)
	b[24] = 0 // dispose none
	b[25] = 0 // blend source
	return b
}
