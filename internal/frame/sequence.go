package frame

import "fmt"

// Sequence is an ordered list of frames with a per-frame delay in
// milliseconds.
type Sequence struct {
	Frames []*Frame
	Delays []int
}

// ConsistencyError describes the first frame that breaks a sequence.
type ConsistencyError struct {
	Index  int
	Reason string
}

func (e *ConsistencyError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("frame sequence: %s", e.Reason)
	}
	return fmt.Sprintf("frame %d: %s", e.Index, e.Reason)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }

// Append adds a frame with its delay.
func (s *Sequence) Append(f *Frame, delayMs int) {
	s.Frames = append(s.Frames, f)
	s.Delays = append(s.Delays, delayMs)
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Size returns the geometry shared by all frames (that of the first frame).
func (s *Sequence) Size() (width, height int) {
	if s.Len() == 0 || s.Frames[0] == nil {
		return 0, 0
	}
	return s.Frames[0].Width, s.Frames[0].Height
}

// Validate checks the sequence invariants: matching frame/delay counts, at
// least minFrames frames, identical non-empty geometry and well-sized pixel
// buffers.
func (s *Sequence) Validate(minFrames int) error {
	if s == nil {
		return &ConsistencyError{Index: -1, Reason: "nil sequence"}
	}
	if len(s.Frames) != len(s.Delays) {
		return &ConsistencyError{Index: -1, Reason: fmt.Sprintf("%d frames but %d delays", len(s.Frames), len(s.Delays))}
	}
	if len(s.Frames) < minFrames {
		return &ConsistencyError{Index: -1, Reason: fmt.Sprintf("need at least %d frames, got %d", minFrames, len(s.Frames))}
	}

	w, h := s.Size()
	for i, f := range s.Frames {
		if !f.valid() {
			return &ConsistencyError{Index: i, Reason: "empty or malformed pixel buffer"}
		}
		if f.Width != w || f.Height != h {
			return &ConsistencyError{Index: i, Reason: fmt.Sprintf("size %dx%d differs from %dx%d", f.Width, f.Height, w, h)}
		}
		if s.Delays[i] < 0 {
			return &ConsistencyError{Index: i, Reason: fmt.Sprintf("negative delay %d", s.Delays[i])}
		}
	}
	return nil
}
