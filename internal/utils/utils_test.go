package utils

import "testing"

func TestArgName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Request", "request"},
		{"request", "request"},
		{"Page2", "page2"},
		{"ÜberName", "überName"},
	}
	for _, tt := range tests {
		if got := ArgName(tt.in); got != tt.want {
			t.Errorf("ArgName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinSplitNames(t *testing.T) {
	got := JoinSorted([]string{"c", "a", "b"}, ",")
	if got != "a,b,c" {
		t.Errorf("JoinSorted = %q, want a,b,c", got)
	}
	if SplitNames("", ",") != nil {
		t.Errorf("SplitNames(\"\") should be nil")
	}
	parts := SplitNames("a,b", ",")
	if len(parts) != 2 || parts[0] != "a" || parts[1] != "b" {
		t.Errorf("SplitNames = %v", parts)
	}
}

func TestTrimExtAndShortPath(t *testing.T) {
	if got := TrimExt("pages/index.py"); got != "index" {
		t.Errorf("TrimExt = %q, want index", got)
	}
	if got := TrimExt(".hidden"); got != ".hidden" {
		t.Errorf("TrimExt(.hidden) = %q", got)
	}
	if got := ShortPath("/a/b/c/d.go", 2); got != "c/d.go" {
		t.Errorf("ShortPath = %q, want c/d.go", got)
	}
	if got := ShortPath("d.go", 2); got != "d.go" {
		t.Errorf("ShortPath short = %q", got)
	}
}
