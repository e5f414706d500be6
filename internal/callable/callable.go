// Package callable defines what evalkit can invoke by name and how.
//
// Three kinds of values are callable:
//   - *Func, a body with an explicitly declared signature
//   - any Invocable implementation (a namespace with a call target is one)
//   - a plain Go func whose parameters signature.Inspect can read
package callable

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/funvibe/evalkit/internal/signature"
)

// Args are named argument values.
type Args = signature.Args

// Invocable is called with named arguments.
type Invocable interface {
	Invoke(args Args) (any, error)
}

var (
	// ErrNotCallable is returned by Call for values that cannot be invoked.
	ErrNotCallable = errors.New("value is not callable")
	// ErrBadArgument wraps argument binding failures during a reflective call.
	ErrBadArgument = errors.New("bad argument")
)

// Func is a callable with an explicit signature.
//
//	greet := &callable.Func{
//	    Name:     "greet",
//	    Required: []string{"user"},
//	    Optional: []string{"greeting"},
//	    Fn: func(args callable.Args) (any, error) {
//	        return fmt.Sprintf("%v, %v", args["greeting"], args["user"]), nil
//	    },
//	}
type Func struct {
	Name     string
	Required []string
	Optional []string
	Wildcard bool
	Fn       func(Args) (any, error)
}

// Signature implements signature.Signed.
func (f *Func) Signature() signature.Descriptor {
	if f == nil {
		return signature.Descriptor{}
	}
	return signature.Descriptor{Required: f.Required, Optional: f.Optional, Wildcard: f.Wildcard}
}

// Invoke calls the body with args.
func (f *Func) Invoke(args Args) (any, error) {
	if f == nil || f.Fn == nil {
		return nil, fmt.Errorf("%w: %s has no body", ErrNotCallable, Describe(f))
	}
	return f.Fn(args)
}

func (f *Func) String() string {
	if f == nil {
		return "<nil>"
	}
	if f.Name == "" {
		return "fn(" + f.Signature().Encode() + ")"
	}
	return f.Name + "(" + f.Signature().Encode() + ")"
}

// Lambda wraps a catch-all body: it declares nothing and accepts anything.
func Lambda(fn func(Args) (any, error)) *Func {
	return &Func{Wildcard: true, Fn: fn}
}

// IsCallable is a pure value test: non-nil funcs and Invocables are
// callable, whatever their signature.
func IsCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map:
		if rv.IsNil() {
			return false
		}
	}
	if _, ok := v.(Invocable); ok {
		return true
	}
	return rv.Kind() == reflect.Func
}

// Call invokes v with exactly args.
func Call(v any, args Args) (any, error) {
	if inv, ok := v.(Invocable); ok {
		return inv.Invoke(args)
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, Describe(v))
	}
	return callFunc(rv, args)
}
