package signature

import (
	"reflect"

	"github.com/funvibe/evalkit/internal/cache"
	"github.com/funvibe/evalkit/internal/config"
)

// Wrapper is a value that delegates calls to a call target, like a namespace
// carrying the call_target key.
type Wrapper interface {
	CallTarget() (any, bool)
}

// maxUnwrap bounds call_target chains so a self-referencing namespace cannot loop forever.
const maxUnwrap = 32

// funcType keys reflectively derived signatures: they depend only on the func's type.
type funcType struct{ t reflect.Type }

// Extractor derives and caches signature encodings. The cache is a side table
// keyed by invocable identity; nothing is written onto the invocables.
type Extractor struct {
	cache *cache.Cache[any, string]
}

// NewExtractor uses c as its side table. A nil c gets a default-sized cache.
func NewExtractor(c *cache.Cache[any, string]) *Extractor {
	if c == nil {
		c = cache.New[any, string](config.SignatureCacheName, cache.Options{Size: config.DefaultSignatureCacheSize}, nil)
	}
	return &Extractor{cache: c}
}

// Cache exposes the side table, mainly for stats.
func (x *Extractor) Cache() *cache.Cache[any, string] { return x.cache }

// Get returns the signature encoding of v. ok is false when v's parameters
// cannot be introspected.
func (x *Extractor) Get(v any) (string, bool) {
	target, ok := Unwrap(v)
	if !ok {
		return "", false
	}

	key, keyed := identity(target)
	if keyed {
		if enc, hit := x.cache.Get(key); hit {
			return enc, true
		}
	}

	d, ok := Of(target)
	if !ok {
		return "", false
	}
	enc := d.Encode()
	if keyed {
		x.cache.Add(key, enc)
	}
	return enc, true
}

// Of derives the descriptor of an already unwrapped invocable without caching.
func Of(v any) (Descriptor, bool) {
	if v == nil {
		return Descriptor{}, false
	}
	if s, ok := v.(Signed); ok {
		d := s.Signature()
		if d.Validate() != nil {
			return Descriptor{}, false
		}
		return d, true
	}
	layout, ok := Inspect(reflect.TypeOf(v))
	if !ok {
		return Descriptor{}, false
	}
	d := layout.Descriptor()
	if d.Validate() != nil {
		return Descriptor{}, false
	}
	return d, true
}

// Unwrap follows call targets until it reaches something that is not a
// Wrapper. ok is false for a wrapper without a call target.
func Unwrap(v any) (any, bool) {
	for i := 0; i < maxUnwrap; i++ {
		w, isWrapper := v.(Wrapper)
		if !isWrapper {
			return v, true
		}
		target, ok := w.CallTarget()
		if !ok {
			return nil, false
		}
		v = target
	}
	return nil, false
}

func identity(v any) (any, bool) {
	if _, ok := v.(Signed); !ok {
		if t := reflect.TypeOf(v); t != nil && t.Kind() == reflect.Func {
			return funcType{t}, true
		}
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !rv.Comparable() {
		return nil, false
	}
	return v, true
}
