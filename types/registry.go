// Package types holds the registry of constructible types that the container's
// auto-wirer consults.
//
// Go has no runtime reflection over struct constructors, so instead of asking
// a live type system "is this an instantiable class", the host application
// declares its constructible types up front — usually once at bootstrap — by
// registering either a constructor function or a bare type:
//
//	reg.Register("blog.PostRepo", NewPostRepo)          // reflected ctor
//	reg.Register("blog.Clock", types.Of[*SystemClock]()) // zero-value, no ctor
//	reg.Register("blog.Mailer", types.Of[Mailer]())      // interface → not instantiable
//
// Constructor functions are reflected: each parameter becomes a typed slot the
// auto-wirer fills in declaration order, and an optional trailing error return
// is honoured. Defaults and friendlier parameter names can be attached with
// WithDefault and WithParamName.
package types

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry maps type names to constructible-type descriptors.
// Populate it during bootstrap; lookups at resolution time are read-only.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Type
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Type)}
}

// Register records a constructible type under name. The shape may be:
//
//   - a constructor function — reflected into typed parameter slots; it must
//     return the instance, optionally followed by an error;
//   - a reflect.Type (see Of) — instantiated as its zero value; interface
//     types are recorded as known but not instantiable;
//   - any other value — shorthand for registering that value's type.
//
// Registering the same name again overwrites the previous entry, matching
// the container's last-bind-wins rule.
func (r *Registry) Register(name string, shape any, opts ...Option) error {
	if name == "" {
		return fmt.Errorf("types: cannot register a type with an empty name")
	}
	if shape == nil {
		return fmt.Errorf("types: cannot register [%s] with a nil shape", name)
	}

	var (
		t   *Type
		err error
	)
	switch s := shape.(type) {
	case reflect.Type:
		t = describeBare(name, s)
	default:
		v := reflect.ValueOf(shape)
		if v.Kind() == reflect.Func {
			t, err = describeFunc(name, v, opts...)
		} else {
			t = describeBare(name, v.Type())
		}
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.byName[name] = t
	r.mu.Unlock()
	return nil
}

// MustRegister is Register for bootstrap code paths where a registration
// failure is a programming error.
func (r *Registry) MustRegister(name string, shape any, opts ...Option) {
	if err := r.Register(name, shape, opts...); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Has reports whether name is known to the registry, instantiable or not.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Instantiable reports whether name is known AND can produce instances.
func (r *Registry) Instantiable(name string) bool {
	t, ok := r.Lookup(name)
	return ok && t.Instantiable()
}

// Forget removes a registered type. Returns whether an entry was removed.
func (r *Registry) Forget(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byName[name]
	delete(r.byName, name)
	return ok
}

// ── Type ─────────────────────────────────────────────────────────────────────

// Type describes one constructible type: how to build it and which typed
// slots its constructor declares. Immutable after registration.
type Type struct {
	name         string
	instantiable bool

	// Constructor form.
	ctor    reflect.Value
	hasCtor bool
	retErr  bool
	params  []Param

	// Bare form (zero-value instantiation).
	bare reflect.Type
}

// Name returns the name the type was registered under.
func (t *Type) Name() string { return t.name }

// Instantiable reports whether New can produce instances of this type.
func (t *Type) Instantiable() bool { return t.instantiable }

// HasConstructor reports whether the type was registered with a constructor
// function (as opposed to zero-value instantiation).
func (t *Type) HasConstructor() bool { return t.hasCtor }

// Params returns the constructor's parameter descriptors in declaration
// order. Empty for types without a constructor.
func (t *Type) Params() []Param {
	out := make([]Param, len(t.params))
	copy(out, t.params)
	return out
}

// New builds an instance from an ordered argument list, one value per
// constructor parameter. A nil argument fills the slot with the parameter
// type's zero value. Types registered without a constructor ignore args and
// return a zero-value instance (a pointer type yields a pointer to a fresh
// zero value).
func (t *Type) New(args []any) (any, error) {
	if !t.instantiable {
		return nil, fmt.Errorf("types: [%s] is not instantiable", t.name)
	}

	if !t.hasCtor {
		if t.bare.Kind() == reflect.Ptr {
			return reflect.New(t.bare.Elem()).Interface(), nil
		}
		return reflect.Zero(t.bare).Interface(), nil
	}

	if len(args) != len(t.params) {
		return nil, fmt.Errorf("types: [%s] expects %d constructor arguments, got %d",
			t.name, len(t.params), len(args))
	}

	in := make([]reflect.Value, len(t.params))
	for i, arg := range args {
		pt := t.params[i].rt
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("types: [%s] parameter %s: cannot use %T as %s",
				t.name, t.params[i].Name, arg, pt)
		}
		in[i] = av
	}

	out := t.ctor.Call(in)
	if t.retErr {
		if errv := out[1]; !errv.IsNil() {
			return nil, errv.Interface().(error)
		}
	}
	return out[0].Interface(), nil
}

// ── Param ────────────────────────────────────────────────────────────────────

// Param is one typed constructor slot.
type Param struct {
	// Name is "#<index>" unless overridden with WithParamName.
	Name string

	// TypeName is the container id the auto-wirer resolves for type-shaped
	// parameters (see NameOf), or the Go type string for builtins.
	TypeName string

	// Untyped marks a parameter declared as bare `any` — the Go rendering of
	// an untyped slot. Never resolved from the container.
	Untyped bool

	// Builtin marks primitive and other non-bindable parameters (strings,
	// numbers, unnamed slices/maps, ...). Never resolved from the container.
	Builtin bool

	// Nullable reports whether the slot's kind can hold nil.
	Nullable bool

	// Default is the fallback value attached with WithDefault.
	Default    any
	HasDefault bool

	rt reflect.Type
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// Of returns the reflect.Type token for T, usable as a Register shape.
// Works for interface types too: types.Of[io.Reader]().
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// NameOf returns the canonical registry name for a value or reflect.Type:
// the package-path-qualified type name, with pointers stripped.
//
//	types.NameOf(&PostRepo{})          // "github.com/acme/blog.PostRepo"
//	types.NameOf(types.Of[Mailer]())   // "github.com/acme/blog.Mailer"
func NameOf(v any) string {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
