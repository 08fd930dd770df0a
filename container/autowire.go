package container

import (
	"github.com/km-arc/armature/types"
)

// autowire builds an instance of the named constructible type, resolving
// each constructor parameter through the container. The caller has already
// pushed the id being built onto the resolution stack, so contextual
// bindings and cycle detection apply to every nested Get.
func (c *Container) autowire(name string) (any, error) {
	t, ok := c.types.Lookup(name)
	if !ok {
		return nil, wrapBuildError(&NotFoundError{ID: name}, "cannot auto-wire [%s]", name)
	}
	if !t.Instantiable() {
		return nil, buildErrorf("cannot auto-wire [%s]: type is not instantiable", name)
	}

	params := t.Params()
	args := make([]any, len(params))
	for i, p := range params {
		value, err := c.resolveParam(name, p)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}

	instance, err := t.New(args)
	if err != nil {
		return nil, wrapBuildError(err, "error while building [%s]", name)
	}
	return instance, nil
}

// resolveParam fills one constructor slot of owner, first match wins:
//
//   - untyped (declared `any`): default value, else nil;
//   - builtin: default value, else nil when the kind allows it, else fail —
//     builtins are never fetched from the container, even when a binding
//     happens to share their name;
//   - type-shaped: Get(typeName) through the full pipeline. A bare
//     NotFoundError — the type itself is unknown — falls back to the
//     default value, then nil, then fails naming parameter and type. Any
//     other error (a cycle, a failing factory, a deeper build error)
//     propagates untouched.
func (c *Container) resolveParam(owner string, p types.Param) (any, error) {
	switch {
	case p.Untyped:
		if p.HasDefault {
			return p.Default, nil
		}
		return nil, nil

	case p.Builtin:
		if p.HasDefault {
			return p.Default, nil
		}
		if p.Nullable {
			return nil, nil
		}
		return nil, buildErrorf(
			"cannot auto-wire [%s]: parameter %s (%s) is a builtin with no default value",
			owner, p.Name, p.TypeName)

	default:
		instance, err := c.Get(p.TypeName)
		if err == nil {
			return instance, nil
		}
		if _, notFound := err.(*NotFoundError); !notFound {
			return nil, err
		}
		if p.HasDefault {
			return p.Default, nil
		}
		if p.Nullable {
			return nil, nil
		}
		return nil, buildErrorf(
			"cannot auto-wire [%s]: parameter %s of unresolvable type [%s]",
			owner, p.Name, p.TypeName)
	}
}
