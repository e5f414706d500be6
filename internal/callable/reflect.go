package callable

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/evalkit/internal/signature"
)

func callFunc(fv reflect.Value, args Args) (any, error) {
	ft := fv.Type()
	layout, ok := signature.Inspect(ft)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot be called by name", ErrNotCallable, Describe(fv.Interface()))
	}

	var in []reflect.Value
	switch layout.Shape {
	case signature.ShapeNone:
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: unexpected arguments %v", ErrBadArgument, args.Names())
		}
	case signature.ShapeArgs:
		m := reflect.MakeMapWithSize(ft.In(0), len(args))
		for k, v := range args {
			m.SetMapIndex(reflect.ValueOf(k), valueOrZero(v, ft.In(0).Elem()))
		}
		in = append(in, m)
	case signature.ShapeStruct, signature.ShapeStructPtr:
		sv, err := bindStruct(layout, args)
		if err != nil {
			return nil, err
		}
		if layout.Shape == signature.ShapeStructPtr {
			in = append(in, sv.Addr())
		} else {
			in = append(in, sv)
		}
	}

	return unpack(layout.Results, fv.Call(in))
}

// bindStruct fills a fresh parameter struct from args. Unset optional fields
// keep their zero value; undeclared names go to the rest map when there is one.
func bindStruct(layout signature.Layout, args Args) (reflect.Value, error) {
	sv := reflect.New(layout.In).Elem()
	var rest reflect.Value
	if layout.Rest != nil {
		rest = sv.FieldByIndex(layout.Rest)
	}

	for name, v := range args {
		field, ok := layout.Field(name)
		if !ok {
			if !rest.IsValid() {
				return reflect.Value{}, fmt.Errorf("%w: unexpected argument %q", ErrBadArgument, name)
			}
			if rest.IsNil() {
				rest.Set(reflect.MakeMap(rest.Type()))
			}
			rest.SetMapIndex(reflect.ValueOf(name), valueOrZero(v, rest.Type().Elem()))
			continue
		}
		if err := assign(sv.FieldByIndex(field.Index), name, v); err != nil {
			return reflect.Value{}, err
		}
	}
	return sv, nil
}

func assign(dst reflect.Value, name string, v any) error {
	if v == nil {
		switch dst.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			dst.SetZero()
			return nil
		}
		return fmt.Errorf("%w: %q cannot be nil for %s", ErrBadArgument, name, dst.Type())
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	if isNumber(rv.Kind()) && isNumber(dst.Kind()) {
		if !convertNumber(dst, rv) {
			return fmt.Errorf("%w: %q = %v does not fit %s", ErrBadArgument, name, v, dst.Type())
		}
		return nil
	}
	return fmt.Errorf("%w: %q is %T, want %s", ErrBadArgument, name, v, dst.Type())
}

func valueOrZero(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

func unpack(results signature.Results, out []reflect.Value) (any, error) {
	switch results {
	case signature.ResultsValue:
		return out[0].Interface(), nil
	case signature.ResultsError:
		return nil, asError(out[0])
	case signature.ResultsValueError:
		return out[0].Interface(), asError(out[1])
	}
	return nil, nil
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// convertNumber stores src in dst when the value survives the conversion
// unchanged; fractions, overflow and sign loss are refused.
func convertNumber(dst, src reflect.Value) bool {
	switch {
	case src.CanInt():
		i := src.Int()
		switch {
		case dst.CanInt():
			if dst.OverflowInt(i) {
				return false
			}
			dst.SetInt(i)
		case dst.CanUint():
			if i < 0 || dst.OverflowUint(uint64(i)) {
				return false
			}
			dst.SetUint(uint64(i))
		default:
			dst.SetFloat(float64(i))
			return int64(dst.Float()) == i
		}
	case src.CanUint():
		u := src.Uint()
		switch {
		case dst.CanInt():
			if u > math.MaxInt64 || dst.OverflowInt(int64(u)) {
				return false
			}
			dst.SetInt(int64(u))
		case dst.CanUint():
			if dst.OverflowUint(u) {
				return false
			}
			dst.SetUint(u)
		default:
			dst.SetFloat(float64(u))
			return uint64(dst.Float()) == u
		}
	default:
		f := src.Float()
		switch {
		case dst.CanInt():
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || dst.OverflowInt(int64(f)) {
				return false
			}
			dst.SetInt(int64(f))
		case dst.CanUint():
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || dst.OverflowUint(uint64(f)) {
				return false
			}
			dst.SetUint(uint64(f))
		default:
			if dst.OverflowFloat(f) {
				return false
			}
			dst.SetFloat(f)
		}
	}
	return true
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
