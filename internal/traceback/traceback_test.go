package traceback

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func threeFrames() []Descriptor {
	return []Descriptor{
		{Filename: "pages/index.py", Function: "render", Line: 10, Globals: map[string]any{"g": 1}},
		{Filename: "pages/table.py", Function: "bind", Line: 20, Locals: map[string]any{"row": 3}},
		{Filename: "pages/column.py", Function: "cell", Line: 30},
	}
}

func TestNewError_ChainWalk(t *testing.T) {
	descs := threeFrames()
	err := NewError("boom", descs)

	tb := err.Traceback()
	if tb.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tb.Len())
	}

	node := tb
	for i := 0; i < 3; i++ {
		if node == nil {
			t.Fatalf("chain ended after %d nodes", i)
		}
		if node.Line() != descs[i].Line {
			t.Errorf("node %d: Line = %d, want %d", i, node.Line(), descs[i].Line)
		}
		if node.Frame().Code().Name != descs[i].Function {
			t.Errorf("node %d: Name = %q", i, node.Frame().Code().Name)
		}
		node = node.Next()
	}
	if node != nil {
		t.Errorf("expected end of chain after 3 nodes")
	}
}

func TestNewError_BackLinks(t *testing.T) {
	tb := NewError("boom", threeFrames()).Traceback()

	f := tb.Frame()
	var names []string
	for ; f != nil; f = f.Back() {
		names = append(names, f.Code().Name)
	}
	if got := strings.Join(names, ","); got != "render,bind,cell" {
		t.Errorf("back chain = %s", got)
	}

	head := tb.Frame()
	if head.Globals()["g"] != 1 || head.Line() != 10 {
		t.Errorf("head frame = %+v", head)
	}
	if tb.Next().Frame().Locals()["row"] != 3 {
		t.Errorf("locals not kept")
	}
	code := head.Code()
	if code.Filename != "pages/index.py" || code.FirstLine != 0 || code.ArgCount != 0 || code.Flags != 0 || len(code.VarNames) != 0 {
		t.Errorf("code = %+v", code)
	}
}

func TestTraceback_NextIsFresh(t *testing.T) {
	tb := NewError("", threeFrames()).Traceback()
	a, b := tb.Next(), tb.Next()
	if a == b {
		t.Errorf("Next should build a new node on every call")
	}
	if a.Frame() != b.Frame() || a.Line() != b.Line() {
		t.Errorf("nodes over the same suffix differ")
	}
}

func TestTraceback_All(t *testing.T) {
	tb := NewError("", threeFrames()).Traceback()

	var lines []int
	for _, line := range tb.All() {
		lines = append(lines, line)
	}
	if len(lines) != 3 || lines[0] != 10 || lines[2] != 30 {
		t.Errorf("lines = %v", lines)
	}

	count := 0
	for range tb.Next().All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break yielded %d", count)
	}

	var nilTB *Traceback
	for range nilTB.All() {
		t.Errorf("nil traceback yielded")
	}
	if nilTB.Len() != 0 {
		t.Errorf("nil Len = %d", nilTB.Len())
	}
}

func TestNewTraceback_Panics(t *testing.T) {
	tests := []struct {
		name   string
		frames []*Frame
		lines  []int
	}{
		{"length mismatch", []*Frame{NewFrame(Descriptor{}, nil)}, []int{1, 2}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic")
				}
			}()
			NewTraceback(tt.frames, tt.lines)
		})
	}
}

func TestError_SetTraceback(t *testing.T) {
	err := NewError("boom", threeFrames())
	old := err.Traceback()

	replacement := NewTraceback([]*Frame{NewFrame(Descriptor{Function: "other", Line: 99}, nil)}, []int{99})
	err.SetTraceback(replacement)
	if err.Traceback() != replacement {
		t.Errorf("traceback not replaced")
	}
	if old.Len() != 3 || old.Frame().Code().Name != "render" {
		t.Errorf("old chain changed")
	}

	if err.Error() != "boom" || err.ID == "" {
		t.Errorf("Error = %q, ID = %q", err.Error(), err.ID)
	}
	if other := NewError("boom", nil); other.ID == err.ID || other.Traceback() != nil {
		t.Errorf("IDs should differ and empty descriptors give no traceback")
	}
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, NewError("", threeFrames()).Traceback()); err != nil {
		t.Fatal(err)
	}
	want := "Stack trace:\n" +
		"  at bind:10 (called render)\n" +
		"  at cell:20 (called bind)\n" +
		"  at column:30 (called cell)\n"
	if buf.String() != want {
		t.Errorf("Format =\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := Format(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("nil traceback wrote %q", buf.String())
	}
}

func TestFormat_AgreesWithBackLinks(t *testing.T) {
	tb := NewError("", []Descriptor{
		{Filename: "index.py", Function: "render", Line: 10},
		{Filename: "table.py", Function: "bind", Line: 20},
	}).Traceback()

	var buf bytes.Buffer
	if err := Format(&buf, tb); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")[1:]
	if len(lines) != tb.Len() {
		t.Fatalf("Format wrote %d frames, want %d", len(lines), tb.Len())
	}

	i := 0
	for f, line := range tb.All() {
		caller := "table"
		if f.Back() != nil {
			caller = f.Back().Code().Name
		}
		want := fmt.Sprintf("at %s:%d (called %s)", caller, line, f.Code().Name)
		if strings.TrimSpace(lines[i]) != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
		i++
	}
	if tb.Frame().Back().Code().Name != "bind" {
		t.Errorf("render should be called by bind")
	}
}

func TestParseDescriptors(t *testing.T) {
	yamlDoc := `
- filename: pages/index.py
  function: render
  line: 10
  locals:
    row: 3
- filename: pages/table.py
  function: bind
  line: 20
`
	jsonDoc := `{"frames": [{"filename": "a.py", "function": "f", "line": 1}]}`

	descs, err := ParseDescriptors([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(descs) != 2 || descs[0].Locals["row"] != 3 || descs[1].Line != 20 {
		t.Errorf("yaml descs = %+v", descs)
	}

	descs, err = ParseDescriptors([]byte(jsonDoc))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(descs) != 1 || descs[0].Function != "f" {
		t.Errorf("json descs = %+v", descs)
	}

	if _, err := ParseDescriptors([]byte("[]")); !errors.Is(err, ErrNoFrames) {
		t.Errorf("empty err = %v", err)
	}
	if _, err := ParseDescriptors([]byte(`[{"filename": "a.py", "line": 1}]`)); err == nil {
		t.Errorf("missing function should fail")
	}
	if _, err := ParseDescriptors([]byte("- [unclosed")); err == nil {
		t.Errorf("malformed input should fail")
	}
}
