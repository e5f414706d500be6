package evaluator

import (
	"github.com/funvibe/evalkit/internal/callable"
	"github.com/funvibe/evalkit/internal/namespace"
)

// Kind is what a value is to the evaluator.
type Kind int

const (
	// Opaque values are never called.
	Opaque Kind = iota
	// Invocable values are called when their signature matches.
	Invocable
	// InertConfig is a namespace without call_target: data, even in strict mode.
	InertConfig
)

func (k Kind) String() string {
	switch k {
	case Invocable:
		return "invocable"
	case InertConfig:
		return "inert"
	default:
		return "opaque"
	}
}

// Classify decides the kind of v.
func Classify(v any) Kind {
	switch x := v.(type) {
	case nil:
		return Opaque
	case Value:
		return x.kind
	case *namespace.Namespace:
		if _, ok := x.CallTarget(); ok {
			return Invocable
		}
		return InertConfig
	}
	if callable.IsCallable(v) {
		return Invocable
	}
	return Opaque
}

// Value carries a value together with its kind, decided once at construction.
// Evaluate uses the stored kind instead of classifying again.
type Value struct {
	v    any
	kind Kind
}

// NewValue classifies v once.
func NewValue(v any) Value {
	if already, ok := v.(Value); ok {
		return already
	}
	return Value{v: v, kind: Classify(v)}
}

// Get returns the wrapped value.
func (v Value) Get() any { return v.v }

// Kind returns the stored kind.
func (v Value) Kind() Kind { return v.kind }

func unpackValue(v any) (any, Kind) {
	if tagged, ok := v.(Value); ok {
		return tagged.v, tagged.kind
	}
	return v, Classify(v)
}
