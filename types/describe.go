package types

import (
	"fmt"
	"reflect"
)

// Option tweaks how a constructor function is described.
type Option func(*options)

type options struct {
	defaults map[int]any
	names    map[int]string
}

// WithDefault attaches a fallback value to the constructor parameter at
// index. The auto-wirer uses it when the slot cannot be resolved.
func WithDefault(index int, value any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = make(map[int]any)
		}
		o.defaults[index] = value
	}
}

// WithParamName gives the parameter at index a readable name for error
// messages. Go reflection does not expose parameter names, so without this
// option parameters are reported positionally ("#0", "#1", ...).
func WithParamName(index int, name string) Option {
	return func(o *options) {
		if o.names == nil {
			o.names = make(map[int]string)
		}
		o.names[index] = name
	}
}

// describeFunc reflects a constructor function into a Type descriptor.
//
// The function must return the instance, optionally followed by an error.
// A variadic tail is never filled by the auto-wirer and is omitted from the
// parameter list, so the call site behaves as if the tail were absent.
func describeFunc(name string, fn reflect.Value, opts ...Option) (*Type, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ft := fn.Type()
	switch {
	case ft.NumOut() == 1 && ft.Out(0) != errorType:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, fmt.Errorf(
			"types: [%s] constructor must return (T) or (T, error), has %s", name, ft)
	}

	numIn := ft.NumIn()
	if ft.IsVariadic() {
		numIn--
	}

	params := make([]Param, numIn)
	for i := 0; i < numIn; i++ {
		params[i] = describeParam(i, ft.In(i))
	}

	for i, def := range o.defaults {
		if i < 0 || i >= numIn {
			return nil, fmt.Errorf("types: [%s] WithDefault(%d): no such parameter", name, i)
		}
		if def != nil && !reflect.TypeOf(def).AssignableTo(params[i].rt) {
			return nil, fmt.Errorf("types: [%s] WithDefault(%d): cannot use %T as %s",
				name, i, def, params[i].rt)
		}
		if def == nil && !params[i].Nullable {
			return nil, fmt.Errorf("types: [%s] WithDefault(%d): nil is not a valid %s",
				name, i, params[i].rt)
		}
		params[i].Default = def
		params[i].HasDefault = true
	}
	for i, pname := range o.names {
		if i < 0 || i >= numIn {
			return nil, fmt.Errorf("types: [%s] WithParamName(%d): no such parameter", name, i)
		}
		params[i].Name = pname
	}

	return &Type{
		name:         name,
		instantiable: true,
		ctor:         fn,
		hasCtor:      true,
		retErr:       ft.NumOut() == 2,
		params:       params,
	}, nil
}

// describeBare records a type without a constructor. Interfaces are known
// but not instantiable; everything else is built as its zero value.
func describeBare(name string, t reflect.Type) *Type {
	return &Type{
		name:         name,
		instantiable: t.Kind() != reflect.Interface,
		bare:         t,
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// describeParam classifies one constructor parameter.
//
// Bare `any` is the untyped slot. A parameter is type-shaped — resolvable
// through the container — when it is a struct, a pointer to struct, or a
// named interface; everything else (strings, numbers, unnamed slices and
// maps, funcs, channels) is a builtin the container never supplies.
func describeParam(index int, t reflect.Type) Param {
	p := Param{
		Name: fmt.Sprintf("#%d", index),
		rt:   t,
	}

	switch {
	case t.Kind() == reflect.Interface && t.NumMethod() == 0 && t.Name() == "":
		p.Untyped = true
		p.Nullable = true
		p.TypeName = "any"
	case isTypeShaped(t):
		p.TypeName = NameOf(t)
		p.Nullable = nilable(t.Kind())
	default:
		p.Builtin = true
		p.TypeName = t.String()
		p.Nullable = nilable(t.Kind())
	}
	return p
}

func isTypeShaped(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return t.Name() != ""
	case reflect.Struct:
		return t.PkgPath() != ""
	case reflect.Ptr:
		e := t.Elem()
		return e.Kind() == reflect.Struct && e.PkgPath() != ""
	}
	return false
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}
