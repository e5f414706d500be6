package signature

import (
	"reflect"
	"strings"

	"github.com/funvibe/evalkit/internal/config"
	"github.com/funvibe/evalkit/internal/utils"
)

// Shape is how a reflectively introspected func receives its arguments.
type Shape int

const (
	// ShapeNone is func() ...
	ShapeNone Shape = iota
	// ShapeArgs is func(Args) or func(map[string]any): accepts anything.
	ShapeArgs
	// ShapeStruct is func(In) with In a parameter struct.
	ShapeStruct
	// ShapeStructPtr is func(*In).
	ShapeStructPtr
)

// Results is how a func reports its outcome.
type Results int

const (
	ResultsNone       Results = iota // func(...)
	ResultsValue                     // func(...) R
	ResultsError                     // func(...) error
	ResultsValueError                // func(...) (R, error)
)

// Field is one named parameter of a parameter struct.
type Field struct {
	Name     string
	Index    []int
	Type     reflect.Type
	Optional bool
}

// Layout describes how to call a func by name.
type Layout struct {
	Shape   Shape
	Results Results
	// In is the parameter struct type for ShapeStruct and ShapeStructPtr.
	In     reflect.Type
	Fields []Field
	// Rest is the index of the catch-all map field, nil when absent.
	Rest []int
}

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	argsType  = reflect.TypeOf(Args(nil))
)

// Inspect derives the call layout of a func type. ok is false for shapes that
// cannot be called by name: variadic funcs, more than one parameter, a
// parameter that is neither a struct nor an argument map, duplicate names.
func Inspect(t reflect.Type) (Layout, bool) {
	if t == nil || t.Kind() != reflect.Func || t.IsVariadic() {
		return Layout{}, false
	}

	var l Layout
	switch t.NumOut() {
	case 0:
		l.Results = ResultsNone
	case 1:
		if t.Out(0) == errorType {
			l.Results = ResultsError
		} else {
			l.Results = ResultsValue
		}
	case 2:
		if t.Out(1) != errorType {
			return Layout{}, false
		}
		l.Results = ResultsValueError
	default:
		return Layout{}, false
	}

	switch t.NumIn() {
	case 0:
		l.Shape = ShapeNone
		return l, true
	case 1:
	default:
		return Layout{}, false
	}

	in := t.In(0)
	if isArgsMap(in) {
		l.Shape = ShapeArgs
		return l, true
	}

	l.Shape = ShapeStruct
	if in.Kind() == reflect.Pointer {
		l.Shape = ShapeStructPtr
		in = in.Elem()
	}
	if in.Kind() != reflect.Struct {
		return Layout{}, false
	}
	l.In = in

	seen := make(map[string]bool)
	for i := 0; i < in.NumField(); i++ {
		sf := in.Field(i)
		tag, tagged := sf.Tag.Lookup(config.ArgTagName)
		if tag == config.ArgTagSkip {
			continue
		}
		if !sf.IsExported() || (sf.Anonymous && !tagged) {
			continue
		}

		name, opts := parseTag(tag)
		if opts[config.ArgTagRest] {
			if l.Rest != nil || !isArgsMap(sf.Type) {
				return Layout{}, false
			}
			l.Rest = sf.Index
			continue
		}
		if name == "" {
			name = utils.ArgName(sf.Name)
		}
		if seen[name] {
			return Layout{}, false
		}
		seen[name] = true
		l.Fields = append(l.Fields, Field{
			Name:     name,
			Index:    sf.Index,
			Type:     sf.Type,
			Optional: opts[config.ArgTagOptional],
		})
	}
	return l, true
}

// Descriptor returns the signature implied by the layout.
func (l Layout) Descriptor() Descriptor {
	var d Descriptor
	switch l.Shape {
	case ShapeArgs:
		d.Wildcard = true
	case ShapeStruct, ShapeStructPtr:
		for _, f := range l.Fields {
			if f.Optional {
				d.Optional = append(d.Optional, f.Name)
			} else {
				d.Required = append(d.Required, f.Name)
			}
		}
		d.Wildcard = l.Rest != nil
	}
	return d
}

// Field looks a parameter up by argument name.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	opts := make(map[string]bool, len(parts)-1)
	for _, p := range parts[1:] {
		opts[strings.TrimSpace(p)] = true
	}
	return strings.TrimSpace(parts[0]), opts
}

func isArgsMap(t reflect.Type) bool {
	if t == argsType {
		return true
	}
	return t.Kind() == reflect.Map &&
		t.Key().Kind() == reflect.String &&
		t.Elem().Kind() == reflect.Interface &&
		t.Elem().NumMethod() == 0
}
