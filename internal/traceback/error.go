package traceback

import (
	"sync"

	"github.com/google/uuid"
)

// Error carries a synthetic traceback. The traceback pointer may be replaced
// with SetTraceback; the nodes themselves never change.
type Error struct {
	ID      string
	Message string

	mu sync.RWMutex
	tb *Traceback
}

// NewError builds one frame per descriptor, innermost call first, linking
// frame i back to its caller, frame i+1, and attaches the resulting
// traceback. Without descriptors the traceback is nil.
func NewError(message string, descs []Descriptor) *Error {
	e := &Error{ID: uuid.New().String(), Message: message}
	if len(descs) == 0 {
		return e
	}

	frames := make([]*Frame, len(descs))
	lines := make([]int, len(descs))
	var back *Frame
	for i := len(descs) - 1; i >= 0; i-- {
		frames[i] = NewFrame(descs[i], back)
		lines[i] = descs[i].Line
		back = frames[i]
	}
	e.tb = NewTraceback(frames, lines)
	return e
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "synthetic error"
	}
	return e.Message
}

// Traceback returns the attached chain.
func (e *Error) Traceback() *Traceback {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tb
}

// SetTraceback replaces the whole chain.
func (e *Error) SetTraceback(tb *Traceback) {
	e.mu.Lock()
	e.tb = tb
	e.mu.Unlock()
}
