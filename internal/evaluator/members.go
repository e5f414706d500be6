package evaluator

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/funvibe/evalkit/internal/config"
	"github.com/funvibe/evalkit/internal/signature"
	"github.com/funvibe/evalkit/internal/utils"
)

// ErrNoMember is returned when an object has no member of the requested name.
var ErrNoMember = errors.New("no such member")

// MemberAccessor reads and writes named members.
type MemberAccessor interface {
	Member(name string) (any, bool)
	SetMember(name string, value any) error
}

// Members is an object whose dynamic members get evaluated. The object model
// owns the list; the evaluator does not compute it.
type Members interface {
	MemberAccessor
	DynamicMembers() []string
}

// EvaluateMember evaluates obj's member key and stores the result only when
// it differs from the value read.
func (e *Evaluator) EvaluateMember(obj MemberAccessor, key string, strict bool, args signature.Args) error {
	value, ok := obj.Member(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoMember, key)
	}

	opts := callerOptions(args)
	if strict {
		opts = append(opts, Strict())
	}
	result, err := e.Evaluate(value, args, opts...)
	if err != nil {
		return fmt.Errorf("member %s: %w", key, err)
	}
	if identical(result, value) {
		return nil
	}
	return obj.SetMember(key, result)
}

// EvaluateMembers strictly evaluates every dynamic member of obj, stopping at the first error.
func (e *Evaluator) EvaluateMembers(obj Members, args signature.Args) error {
	for _, key := range obj.DynamicMembers() {
		if err := e.EvaluateMember(obj, key, true, args); err != nil {
			return err
		}
	}
	return nil
}

// structMembers exposes the exported fields of a struct through a pointer.
type structMembers struct {
	v       reflect.Value
	fields  map[string][]int
	dynamic []string
}

// Struct adapts a pointer to a struct into Members. Fields are named by their
// `attr` tag, else by the field name with a lower-case first letter. dynamic
// lists the members to evaluate.
func Struct(ptr any, dynamic ...string) (Members, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("evaluator.Struct: want non-nil pointer to struct, got %T", ptr)
	}

	sv := rv.Elem()
	st := sv.Type()
	fields := make(map[string][]int, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get(config.AttrTagName)
		if name == "-" {
			continue
		}
		if name == "" {
			name = utils.ArgName(sf.Name)
		}
		fields[name] = sf.Index
	}
	for _, d := range dynamic {
		if _, ok := fields[d]; !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrNoMember, d, st)
		}
	}
	return &structMembers{v: sv, fields: fields, dynamic: dynamic}, nil
}

func (s *structMembers) DynamicMembers() []string { return s.dynamic }

func (s *structMembers) Member(name string) (any, bool) {
	idx, ok := s.fields[name]
	if !ok {
		return nil, false
	}
	return s.v.FieldByIndex(idx).Interface(), true
}

func (s *structMembers) SetMember(name string, value any) error {
	idx, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoMember, name)
	}
	f := s.v.FieldByIndex(idx)
	if value == nil {
		switch f.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			f.SetZero()
			return nil
		}
		return fmt.Errorf("member %s: cannot store nil in %s", name, f.Type())
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(f.Type()) {
		return fmt.Errorf("member %s: cannot store %T in %s", name, value, f.Type())
	}
	f.Set(rv)
	return nil
}

// identical reports whether a and b are the same object: same pointer for
// reference kinds, same closure for funcs, equal for comparable values.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Func:
		return ifaceData(a) == ifaceData(b)
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if ra.Comparable() && rb.Comparable() {
		return a == b
	}
	return false
}

// ifaceData returns the data word of an interface value. For funcs it points
// at the closure, which tells two closures of the same literal apart.
func ifaceData(v any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&v))[1]
}
