package callable

import (
	"errors"
	"strings"
	"testing"
)

type rowArgs struct {
	Row   map[string]any `arg:"row"`
	Limit int            `arg:"limit,optional"`
	Ratio float64        `arg:"ratio,optional"`
	Label *string        `arg:"label,optional"`
}

type tableArgs struct {
	Table string `arg:"table"`
	Rest  Args   `arg:",rest"`
}

func namedHelper(in rowArgs) int { return in.Limit }

func TestFunc_Invoke(t *testing.T) {
	f := &Func{
		Name:     "greet",
		Required: []string{"user"},
		Optional: []string{"greeting"},
		Fn: func(args Args) (any, error) {
			return args["user"], nil
		},
	}
	got, err := f.Invoke(Args{"user": "ann"})
	if err != nil || got != "ann" {
		t.Errorf("Invoke = %v, %v", got, err)
	}
	if f.Signature().Encode() != "user|greeting|" {
		t.Errorf("Signature = %q", f.Signature().Encode())
	}
	if f.String() != "greet(user|greeting|)" {
		t.Errorf("String = %q", f.String())
	}

	empty := &Func{Name: "hollow"}
	if _, err := empty.Invoke(nil); !errors.Is(err, ErrNotCallable) {
		t.Errorf("nil body error = %v, want ErrNotCallable", err)
	}
}

func TestLambda(t *testing.T) {
	l := Lambda(func(args Args) (any, error) { return len(args), nil })
	if l.Signature().Encode() != "||*" {
		t.Errorf("Lambda signature = %q", l.Signature().Encode())
	}
	got, _ := Call(l, Args{"a": 1, "b": 2})
	if got != 2 {
		t.Errorf("Call(lambda) = %v, want 2", got)
	}
	if !strings.HasPrefix(l.String(), "fn(") {
		t.Errorf("String = %q", l.String())
	}
}

func TestIsCallable(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"int", 3, false},
		{"string", "x", false},
		{"func", func() {}, true},
		{"positional func", func(int) int { return 0 }, true},
		{"Func", &Func{}, true},
		{"nil Func", (*Func)(nil), false},
		{"nil func", (func())(nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCallable(tt.v); got != tt.want {
				t.Errorf("IsCallable(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestCall_Struct(t *testing.T) {
	label := "x"
	fn := func(in rowArgs) (string, error) {
		if in.Label == nil {
			return "", errors.New("no label")
		}
		return *in.Label + strings.Repeat("!", in.Limit), nil
	}

	got, err := Call(fn, Args{"row": map[string]any{}, "limit": int64(2), "label": &label})
	if err != nil || got != "x!!" {
		t.Fatalf("Call = %v, %v", got, err)
	}

	_, err = Call(fn, Args{"row": nil})
	if err == nil || err.Error() != "no label" {
		t.Errorf("callee error = %v, want no label", err)
	}
}

type sizedArgs struct {
	Small uint8   `arg:"small,optional"`
	Count int     `arg:"count,optional"`
	Short float32 `arg:"short,optional"`
}

func TestCall_NumericConversion(t *testing.T) {
	fn := func(in *rowArgs) float64 { return in.Ratio * float64(in.Limit) }
	got, err := Call(fn, Args{"row": nil, "ratio": 2, "limit": 3.0})
	if err != nil || got != 6.0 {
		t.Errorf("Call = %v, %v", got, err)
	}

	sized := func(in sizedArgs) sizedArgs { return in }
	tests := []struct {
		name string
		args Args
		want sizedArgs
		ok   bool
	}{
		{"int fits uint8", Args{"small": 200}, sizedArgs{Small: 200}, true},
		{"whole float to int", Args{"count": 4.0}, sizedArgs{Count: 4}, true},
		{"uint to int", Args{"count": uint16(7)}, sizedArgs{Count: 7}, true},
		{"float64 to float32", Args{"short": 0.5}, sizedArgs{Short: 0.5}, true},
		{"fraction to int", Args{"count": 2.9}, sizedArgs{}, false},
		{"overflow uint8", Args{"small": 300}, sizedArgs{}, false},
		{"negative to uint8", Args{"small": -1}, sizedArgs{}, false},
		{"float overflow uint8", Args{"small": 256.0}, sizedArgs{}, false},
		{"float32 overflow", Args{"short": 1e300}, sizedArgs{}, false},
		{"huge uint to int", Args{"count": uint64(1 << 63)}, sizedArgs{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Call(sized, tt.args)
			if !tt.ok {
				if !errors.Is(err, ErrBadArgument) {
					t.Errorf("Call = %v, %v; want ErrBadArgument", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Call = %+v, %v; want %+v", got, err, tt.want)
			}
		})
	}
}

func TestFunc_NilReceiver(t *testing.T) {
	var f *Func
	if d := f.Signature(); !d.Empty() || d.Wildcard {
		t.Errorf("Signature = %v, want empty", d)
	}
	if _, err := f.Invoke(nil); !errors.Is(err, ErrNotCallable) {
		t.Errorf("Invoke err = %v, want ErrNotCallable", err)
	}
	if _, err := Call(f, nil); !errors.Is(err, ErrNotCallable) {
		t.Errorf("Call err = %v, want ErrNotCallable", err)
	}
}

func TestCall_BadArguments(t *testing.T) {
	fn := func(in rowArgs) int { return in.Limit }
	tests := []struct {
		name string
		args Args
	}{
		{"unexpected name", Args{"row": nil, "nope": 1}},
		{"wrong type", Args{"row": "not a map"}},
		{"nil for value type", Args{"row": nil, "limit": nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Call(fn, tt.args); !errors.Is(err, ErrBadArgument) {
				t.Errorf("err = %v, want ErrBadArgument", err)
			}
		})
	}

	if _, err := Call(func() int { return 1 }, Args{"x": 1}); !errors.Is(err, ErrBadArgument) {
		t.Errorf("no-param func with args: err = %v", err)
	}
}

func TestCall_Rest(t *testing.T) {
	fn := func(in tableArgs) int { return len(in.Rest) }
	got, err := Call(fn, Args{"table": "t", "page": 1, "sort": "name"})
	if err != nil || got != 2 {
		t.Errorf("Call = %v, %v; want 2", got, err)
	}
}

func TestCall_ArgsMapAndShapes(t *testing.T) {
	got, err := Call(func(args map[string]any) any { return args["a"] }, Args{"a": 5, "b": nil})
	if err != nil || got != 5 {
		t.Errorf("map func = %v, %v", got, err)
	}

	called := false
	got, err = Call(func() { called = true }, nil)
	if err != nil || got != nil || !called {
		t.Errorf("no-result func = %v, %v, called=%v", got, err, called)
	}

	_, err = Call(func() error { return errors.New("boom") }, nil)
	if err == nil || err.Error() != "boom" {
		t.Errorf("error-only func = %v", err)
	}
}

func TestCall_NotCallable(t *testing.T) {
	for _, v := range []any{nil, 42, func(int) int { return 0 }} {
		if _, err := Call(v, nil); !errors.Is(err, ErrNotCallable) {
			t.Errorf("Call(%T) err = %v, want ErrNotCallable", v, err)
		}
	}
	var nilFn func()
	if _, err := Call(nilFn, nil); !errors.Is(err, ErrNotCallable) {
		t.Errorf("nil func err = %v", err)
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(&Func{Name: "greet"}); got != "`greet`" {
		t.Errorf("Describe(named Func) = %q", got)
	}
	if got := Describe(&Func{}); got != "anonymous function" {
		t.Errorf("Describe(empty Func) = %q", got)
	}
	if got := Describe(namedHelper); !strings.Contains(got, "namedHelper`") {
		t.Errorf("Describe(named func) = %q", got)
	}

	anon := func(in rowArgs) int { return 0 }
	got := Describe(anon)
	if !strings.HasPrefix(got, "anonymous function found at: `") || !strings.Contains(got, "callable_test.go:") {
		t.Errorf("Describe(closure) = %q", got)
	}
	if got := Describe(Lambda(func(Args) (any, error) { return nil, nil })); !strings.Contains(got, "callable_test.go:") {
		t.Errorf("Describe(Lambda) = %q", got)
	}
	if got := Describe(42); got != "`42`" {
		t.Errorf("Describe(42) = %q", got)
	}
}
