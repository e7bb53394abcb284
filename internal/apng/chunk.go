package apng

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Signature opens every PNG and APNG stream.
const Signature = "\x89PNG\r\n\x1a\n"

// Chunk types written or understood by this package.
const (
	TypeIHDR = "IHDR"
	TypeACTL = "acTL"
	TypeFCTL = "fcTL"
	TypeIDAT = "IDAT"
	TypeFDAT = "fdAT"
	TypeIEND = "IEND"
)

var (
	ErrSignature = errors.New("not a PNG stream")
	ErrChecksum  = errors.New("chunk checksum mismatch")
)

// maxChunkLen bounds a chunk length read from untrusted input.
const maxChunkLen = 1 << 30

// Chunk is one framed unit: a four byte type and its payload.
type Chunk struct {
	Type string
	Data []byte
}

// ChunkWriter frames chunks onto an io.Writer. The first write error is
// kept and every later call becomes a no-op returning it.
type ChunkWriter struct {
	w   io.Writer
	n   int64
	err error
	tmp [8]byte
}

func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{w: w}
}

// Err returns the first write error, if any.
func (cw *ChunkWriter) Err() error { return cw.err }

// Written returns the number of bytes written so far.
func (cw *ChunkWriter) Written() int64 { return cw.n }

func (cw *ChunkWriter) write(b []byte) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	cw.err = err
}

// WriteSignature emits the eight signature bytes.
func (cw *ChunkWriter) WriteSignature() error {
	cw.write([]byte(Signature))
	return cw.err
}

// WriteChunk emits u32 length, type, data and u32 CRC over type||data.
func (cw *ChunkWriter) WriteChunk(typ string, data []byte) error {
	if cw.err != nil {
		return cw.err
	}
	if len(typ) != 4 {
		cw.err = fmt.Errorf("chunk type %q: must be 4 bytes", typ)
		return cw.err
	}
	if uint64(len(data)) > 0x7FFFFFFF {
		cw.err = fmt.Errorf("chunk %s: %d bytes exceeds the PNG length limit", typ, len(data))
		return cw.err
	}

	binary.BigEndian.PutUint32(cw.tmp[:4], uint32(len(data)))
	copy(cw.tmp[4:8], typ)
	cw.write(cw.tmp[:8])
	cw.write(data)

	var crc CRC
	crc.Write(cw.tmp[4:8])
	crc.Write(data)
	binary.BigEndian.PutUint32(cw.tmp[:4], crc.Sum32())
	cw.write(cw.tmp[:4])
	return cw.err
}

// WriteChunk frames a single chunk onto w.
func WriteChunk(w io.Writer, typ string, data []byte) error {
	return NewChunkWriter(w).WriteChunk(typ, data)
}

// ReadChunk parses one chunk from r and verifies its CRC.
func ReadChunk(r io.Reader) (Chunk, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Chunk{}, err
	}
	length := binary.BigEndian.Uint32(hdr[:4])
	if length > maxChunkLen {
		return Chunk{}, fmt.Errorf("chunk %q: length %d too large", hdr[4:8], length)
	}
	c := Chunk{Type: string(hdr[4:8]), Data: make([]byte, length)}
	if _, err := io.ReadFull(r, c.Data); err != nil {
		return Chunk{}, fmt.Errorf("chunk %s: %w", c.Type, err)
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return Chunk{}, fmt.Errorf("chunk %s: %w", c.Type, err)
	}
	var crc CRC
	crc.Write(hdr[4:8])
	crc.Write(c.Data)
	if binary.BigEndian.Uint32(trailer[:]) != crc.Sum32() {
		return c, fmt.Errorf("chunk %s: %w", c.Type, ErrChecksum)
	}
	return c, nil
}

// ReadChunks checks the signature and returns every chunk up to and
// including IEND.
func ReadChunks(r io.Reader) ([]Chunk, error) {
	sig := make([]byte, len(Signature))
	if _, err := io.ReadFull(r, sig); err != nil || !bytes.Equal(sig, []byte(Signature)) {
		return nil, ErrSignature
	}

	var chunks []Chunk
	for {
		c, err := ReadChunk(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return chunks, fmt.Errorf("missing %s: %w", TypeIEND, io.ErrUnexpectedEOF)
			}
			return chunks, err
		}
		chunks = append(chunks, c)
		if c.Type == TypeIEND {
			return chunks, nil
		}
	}
}

// SequenceNumber returns the sequence number carried by an fcTL or fdAT
// chunk.
func (c Chunk) SequenceNumber() (uint32, bool) {
	if (c.Type != TypeFCTL && c.Type != TypeFDAT) || len(c.Data) < 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(c.Data[:4]), true
}
