package container

import (
	"fmt"
	"sync"

	"github.com/km-arc/armature/types"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container. Returning an error
// aborts the resolution; the error surfaces from the top-level Get wrapped
// as a ContainerError.
type Factory func(c *Container) (any, error)

// Extender wraps an already-resolved instance with decorator logic.
type Extender func(instance any, c *Container) any

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the service container: a registry of Definitions plus the
// resolver that walks them, auto-wiring constructor dependencies through the
// constructible-type registry when nothing is bound.
//
// Registration (Bind, Singleton, Alias, Tag, RegisterType) is guarded by a
// mutex and safe to do from the bootstrap goroutine. Resolution is
// single-threaded by design: the build stack that detects circular
// dependencies belongs to one logical resolution context at a time.
// Concurrent Get calls require a container per goroutine or external
// locking — the container never synchronizes a resolution chain itself.
type Container struct {
	mu sync.RWMutex

	// id → Definition, with insertion order kept for Keys and Tagged.
	definitions map[string]*Definition
	order       []string

	// alias → target. One substitution per lookup; an alias pointing at
	// another alias is NOT followed further.
	aliases map[string]string

	// id → extender funcs, applied in registration order.
	extenders map[string][]Extender

	// contextual[consumer][id] = factory
	contextual map[string]map[string]Factory

	// id → deferred-provider loader, consumed on first lookup.
	loaders map[string]func() error

	// Constructible types the auto-wirer may instantiate.
	types *types.Registry

	// Identifiers currently being resolved, outermost first.
	buildStack []string
}

// New creates an empty container. The container binds itself under
// "container" so factories and auto-wired constructors can receive it.
func New() *Container {
	c := &Container{
		definitions: make(map[string]*Definition),
		aliases:     make(map[string]string),
		extenders:   make(map[string][]Extender),
		contextual:  make(map[string]map[string]Factory),
		loaders:     make(map[string]func() error),
		types:       types.NewRegistry(),
	}
	c.Instance("container", c)
	return c
}

// Types exposes the constructible-type registry for direct registration.
func (c *Container) Types() *types.Registry { return c.types }

// RegisterType records a constructible type the auto-wirer may instantiate.
// Shorthand for c.Types().Register.
func (c *Container) RegisterType(name string, shape any, opts ...types.Option) error {
	return c.types.Register(name, shape, opts...)
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient Definition for id — a fresh instance on every
// Get. The producer may be a Factory, the name of a registered constructible
// type to auto-wire, or nil to auto-wire the type named by id itself.
// Re-binding an id overwrites the previous Definition but keeps its
// position in Keys.
func (c *Container) Bind(id string, producer any) *Definition {
	return c.register(id, producer, false)
}

// Singleton registers a shared Definition: the first successful resolution
// is cached and every later Get returns the same instance.
func (c *Container) Singleton(id string, producer any) *Definition {
	return c.register(id, producer, true)
}

// Add is a synonym for Bind.
func (c *Container) Add(id string, producer any) *Definition {
	return c.Bind(id, producer)
}

// AddShared is a synonym for Singleton.
func (c *Container) AddShared(id string, producer any) *Definition {
	return c.Singleton(id, producer)
}

// Instance registers a pre-built value as an already-resolved shared
// Definition.
func (c *Container) Instance(id string, value any) *Definition {
	d := &Definition{id: id, shared: true, cached: value, hasCached: true}
	c.insert(d)
	return d
}

func (c *Container) register(id string, producer any, shared bool) *Definition {
	d := &Definition{id: id, shared: shared}
	switch p := producer.(type) {
	case nil:
		d.typeName = id
	case Factory:
		d.factory = p
	case func(*Container) (any, error):
		d.factory = p
	case string:
		d.typeName = p
	default:
		panic(fmt.Sprintf("container: invalid producer for [%s]: %T (want Factory, type name, or nil)", id, producer))
	}
	c.insert(d)
	return d
}

func (c *Container) insert(d *Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.definitions[d.id]; !exists {
		c.order = append(c.order, d.id)
	}
	c.definitions[d.id] = d
}

// Alias registers alias as an alternative name for target. Lookups
// substitute an alias exactly once — aliases never chain.
func (c *Container) Alias(alias, target string) {
	if alias == target {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", alias))
	}
	c.mu.Lock()
	c.aliases[alias] = target
	c.mu.Unlock()
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag adds tag to the Definitions bound to the given ids. Ids with no
// Definition are silently skipped, so providers can tag optimistically.
func (c *Container) Tag(ids []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		key := id
		if target, ok := c.aliases[key]; ok {
			key = target
		}
		if d, ok := c.definitions[key]; ok {
			d.Tag(tag)
		}
	}
}

// Tagged resolves every Definition carrying tag, in registration order,
// through the full Get pipeline. The first failing resolution aborts.
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	ids := make([]string, 0, len(c.order))
	for _, id := range c.order {
		if d, ok := c.definitions[id]; ok && d.HasTag(tag) {
			ids = append(ids, id)
		}
	}
	c.mu.RUnlock()

	out := make([]any, 0, len(ids))
	for _, id := range ids {
		instance, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, instance)
	}
	return out, nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves id to an instance:
//
//  1. substitute id once through the alias table;
//  2. a bound Definition resolves through its producer (cached when shared);
//  3. otherwise, an id naming a registered constructible type is auto-wired
//     from scratch — no Definition is created, nothing is cached, so such
//     types are always transient no matter how often they are requested;
//  4. otherwise Get fails with a NotFoundError.
func (c *Container) Get(id string) (any, error) {
	key := c.canonical(id)

	c.mu.RLock()
	d, bound := c.definitions[key]
	c.mu.RUnlock()

	// A cached shared binding wins over everything, including contextual
	// overrides.
	if bound && d.shared && d.hasCached {
		return d.cached, nil
	}

	// Contextual override for the consumer currently being built.
	if consumer, building := c.buildTop(); building {
		if f := c.contextualFactory(consumer, key); f != nil {
			instance, err := c.build(key, func() (any, error) {
				return c.runFactory(key, f)
			})
			if err != nil {
				return nil, err
			}
			return c.applyExtenders(key, instance), nil
		}
	}

	if !bound {
		loaded, err := c.runLoader(key)
		if err != nil {
			return nil, err
		}
		if loaded {
			c.mu.RLock()
			d, bound = c.definitions[key]
			c.mu.RUnlock()
		}
	}

	if bound {
		return c.resolveDefinition(d)
	}

	if c.types.Has(key) {
		instance, err := c.build(key, func() (any, error) {
			return c.autowire(key)
		})
		if err != nil {
			return nil, err
		}
		return c.applyExtenders(key, instance), nil
	}

	return nil, &NotFoundError{ID: key}
}

// Has reports whether Get(id) could resolve: a Definition is bound (or a
// deferred provider will bind one), or id names an instantiable registered
// type. Has never resolves anything and never errors.
func (c *Container) Has(id string) bool {
	key := c.canonical(id)
	c.mu.RLock()
	_, bound := c.definitions[key]
	_, lazy := c.loaders[key]
	c.mu.RUnlock()
	if bound || lazy {
		return true
	}
	return c.types.Instantiable(key)
}

// Forget removes the Definition bound to id, reporting whether one was
// removed. Aliases pointing at the removed id are left in place; using one
// afterwards falls through to auto-wiring or a NotFoundError.
func (c *Container) Forget(id string) bool {
	key := c.canonical(id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.definitions[key]; !ok {
		return false
	}
	delete(c.definitions, key)
	for i, cur := range c.order {
		if cur == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns all bound identifiers in insertion order of the surviving
// binds. Re-binding keeps an id's original position.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Flush resets the container wholesale: bindings, aliases, tags, extenders,
// contextual bindings, and pending deferred providers.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions = make(map[string]*Definition)
	c.order = nil
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]Extender)
	c.contextual = make(map[string]map[string]Factory)
	c.loaders = make(map[string]func() error)
}

// resolveDefinition runs a Definition's producer under cycle protection and
// caches the result when the Definition is shared.
func (c *Container) resolveDefinition(d *Definition) (any, error) {
	if d.shared && d.hasCached {
		return d.cached, nil
	}

	instance, err := c.build(d.id, func() (any, error) {
		if d.factory != nil {
			return c.runFactory(d.id, d.factory)
		}
		return c.autowire(d.typeName)
	})
	if err != nil {
		return nil, err
	}

	instance = c.applyExtenders(d.id, instance)

	if d.shared {
		c.mu.Lock()
		if !d.hasCached {
			d.cached = instance
			d.hasCached = true
		}
		instance = d.cached
		c.mu.Unlock()
	}
	return instance, nil
}

// runFactory invokes a user factory. Factory failures are build failures:
// whatever the factory returns — including a NotFoundError from a nested
// Get of some other id — is wrapped as a ContainerError, so only a genuine
// top-level miss ever surfaces as a bare NotFoundError.
func (c *Container) runFactory(id string, f Factory) (any, error) {
	instance, err := f(c)
	if err == nil {
		return instance, nil
	}
	if _, ok := err.(*ContainerError); ok {
		return nil, err
	}
	return nil, wrapBuildError(err, "error while building [%s]", id)
}

// build pushes id onto the resolution stack for the duration of produce,
// failing first if id is already being built. The pop is deferred so the
// stack stays intact across repeated failed resolutions.
func (c *Container) build(id string, produce func() (any, error)) (any, error) {
	for _, current := range c.buildStack {
		if current == id {
			return nil, circularError(c.buildStack, id)
		}
	}
	c.buildStack = append(c.buildStack, id)
	defer func() { c.buildStack = c.buildStack[:len(c.buildStack)-1] }()
	return produce()
}

func (c *Container) buildTop() (string, bool) {
	if n := len(c.buildStack); n > 0 {
		return c.buildStack[n-1], true
	}
	return "", false
}

// runLoader triggers the deferred provider registered for key, if any.
func (c *Container) runLoader(key string) (bool, error) {
	c.mu.Lock()
	loader, ok := c.loaders[key]
	if ok {
		delete(c.loaders, key)
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := loader(); err != nil {
		return false, wrapBuildError(err, "error while loading deferred provider for [%s]", key)
	}
	return true, nil
}

// canonical substitutes id through the alias table, once.
func (c *Container) canonical(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if target, ok := c.aliases[id]; ok {
		return target
	}
	return id
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates future resolutions of id. If a shared Definition has
// already cached an instance, the cache is re-wrapped in place so later
// Gets observe the decoration.
func (c *Container) Extend(id string, fn Extender) {
	key := c.canonical(id)
	c.mu.Lock()
	c.extenders[key] = append(c.extenders[key], fn)
	d, ok := c.definitions[key]
	c.mu.Unlock()

	if ok && d.shared && d.hasCached {
		d.cached = fn(d.cached, c)
	}
}

func (c *Container) applyExtenders(id string, instance any) any {
	c.mu.RLock()
	exts := c.extenders[id]
	c.mu.RUnlock()
	for _, ext := range exts {
		instance = ext(instance, c)
	}
	return instance
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	repo, err := container.Resolve[*PostRepo](c, "posts")
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	instance, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, buildErrorf("Resolve[%T]: [%s] resolved to %T", zero, id, instance)
	}
	return typed, nil
}

// MustResolve is Resolve for bootstrap code paths where a failure is a
// programming error.
func MustResolve[T any](c *Container, id string) T {
	instance, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return instance
}
