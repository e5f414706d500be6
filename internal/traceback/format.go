package traceback

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/evalkit/internal/utils"
)

// ErrNoFrames is returned by ParseDescriptors for an empty document.
var ErrNoFrames = errors.New("traceback: no frames")

// Format writes tb in chain order. The head node is the innermost call and
// each frame's Back link names its caller.
// Format: at <caller>:<line> (called <callee>)
// A frame without a Back link is called from its file, shown without
// extension.
func Format(w io.Writer, tb *Traceback) error {
	if tb.Len() == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Stack trace:")
	for f, line := range tb.All() {
		caller := utils.TrimExt(f.Code().Filename)
		if back := f.Back(); back != nil {
			caller = back.Code().Name
		}
		fmt.Fprintf(&sb, "\n  at %s:%d (called %s)", caller, line, f.Code().Name)
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// ParseDescriptors decodes a YAML or JSON list of descriptors, either bare
// or under a top-level "frames" key.
func ParseDescriptors(data []byte) ([]Descriptor, error) {
	var descs []Descriptor
	if err := yaml.Unmarshal(data, &descs); err != nil {
		var doc struct {
			Frames []Descriptor `yaml:"frames"`
		}
		if derr := yaml.Unmarshal(data, &doc); derr != nil {
			return nil, fmt.Errorf("traceback: %w", err)
		}
		descs = doc.Frames
	}
	if len(descs) == 0 {
		return nil, ErrNoFrames
	}
	for i, d := range descs {
		if d.Function == "" {
			return nil, fmt.Errorf("traceback: frame %d: missing function", i)
		}
	}
	return descs, nil
}
