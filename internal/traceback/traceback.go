package traceback

import (
	"fmt"
	"iter"
)

// Traceback is a node in a chain of (frame, line) pairs. Each node views a
// suffix of the same slices; Next builds the following node on demand.
type Traceback struct {
	frames []*Frame
	lines  []int
}

// NewTraceback builds the head node. frames and lines must be non-empty and
// of equal length; anything else is a caller bug and panics.
func NewTraceback(frames []*Frame, lines []int) *Traceback {
	if len(frames) != len(lines) {
		panic(fmt.Sprintf("traceback: %d frames but %d line numbers", len(frames), len(lines)))
	}
	if len(frames) == 0 {
		panic("traceback: no frames")
	}
	return &Traceback{frames: frames, lines: lines}
}

// Frame returns the frame of this node.
func (t *Traceback) Frame() *Frame { return t.frames[0] }

// Line returns the line number of this node.
func (t *Traceback) Line() int { return t.lines[0] }

// Next returns a new node over the rest of the chain, or nil at the end.
func (t *Traceback) Next() *Traceback {
	if len(t.frames) <= 1 {
		return nil
	}
	return &Traceback{frames: t.frames[1:], lines: t.lines[1:]}
}

// Len is the number of nodes from this one to the end.
func (t *Traceback) Len() int {
	if t == nil {
		return 0
	}
	return len(t.frames)
}

// All yields the frames and line numbers from this node to the end.
func (t *Traceback) All() iter.Seq2[*Frame, int] {
	return func(yield func(*Frame, int) bool) {
		if t == nil {
			return
		}
		for i, f := range t.frames {
			if !yield(f, t.lines[i]) {
				return
			}
		}
	}
}
