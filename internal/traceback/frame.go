// Package traceback rebuilds a recorded call chain as an explicit sequence of
// frames, so an error found far from its origin can be reported as if it
// happened inside that chain.
package traceback

// Descriptor is one recorded call site, as serialized by the recording side.
type Descriptor struct {
	Filename string         `yaml:"filename" json:"filename"`
	Function string         `yaml:"function" json:"function"`
	Globals  map[string]any `yaml:"globals,omitempty" json:"globals,omitempty"`
	Locals   map[string]any `yaml:"locals,omitempty" json:"locals,omitempty"`
	Line     int            `yaml:"line" json:"line"`
}

// Code describes the code a frame was running. Only Filename and Name carry
// information; the rest are zero placeholders for display tools.
type Code struct {
	Filename  string
	Name      string
	FirstLine int
	ArgCount  int
	Flags     int
	VarNames  []string
}

// Frame is an immutable synthetic stack frame.
type Frame struct {
	code    Code
	globals map[string]any
	locals  map[string]any
	back    *Frame
	line    int
}

// NewFrame builds a frame from d whose back link is back (nil for none).
func NewFrame(d Descriptor, back *Frame) *Frame {
	return &Frame{
		code:    Code{Filename: d.Filename, Name: d.Function, VarNames: []string{}},
		globals: d.Globals,
		locals:  d.Locals,
		back:    back,
		line:    d.Line,
	}
}

func (f *Frame) Code() Code              { return f.code }
func (f *Frame) Globals() map[string]any { return f.globals }
func (f *Frame) Locals() map[string]any  { return f.locals }
func (f *Frame) Back() *Frame            { return f.back }
func (f *Frame) Line() int               { return f.line }
