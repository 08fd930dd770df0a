package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related bindings so host applications can assemble
// the container piecewise.
//
// Every provider must implement at minimum Register(). Boot() is called
// after ALL providers have been registered, making it safe to resolve other
// bindings inside Boot().
//
//	type CacheProvider struct{ container.BaseProvider }
//
//	func (p *CacheProvider) Register(app *container.Container) {
//	    app.Singleton("cache", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return NewCache(cfg), nil
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container) error

	// Provides returns the list of ids this provider registers.
	// Used for deferred (lazy) provider loading.
	// Return nil / empty slice if the provider is always eager.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily —
	// only when one of its Provides() ids is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
// Embed it in your provider and only override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

func (p *BaseProvider) Provides() []string { return nil }

func (p *BaseProvider) IsDeferred() bool { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method, unless the
// provider is deferred — then its ids are hooked into the container and the
// real registration happens on first resolution of any of them.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.deferProvider(provider)
		return nil
	}

	provider.Register(r.app)
	r.eager = append(r.eager, provider)

	// A provider arriving after Boot() is booted immediately.
	if r.booted {
		return provider.Boot(r.app)
	}
	return nil
}

// deferProvider installs a loader for each provided id. The first Get of
// any of them triggers the real registration (and boot, if the registry is
// already booted); the container discards the loaders as they fire.
func (r *ProviderRegistry) deferProvider(provider ServiceProvider) {
	provides := provider.Provides()
	loaded := false

	load := func() error {
		if loaded {
			return nil
		}
		loaded = true
		provider.Register(r.app)
		r.app.mu.Lock()
		for _, id := range provides {
			delete(r.app.loaders, id)
		}
		r.app.mu.Unlock()
		if r.booted {
			// Boot errors from lazy loads surface on the triggering Get.
			return provider.Boot(r.app)
		}
		return nil
	}

	r.app.mu.Lock()
	for _, id := range provides {
		r.app.loaders[id] = load
	}
	r.app.mu.Unlock()
}

// Boot calls Boot() on all eager providers registered so far.
// Must be called after ALL providers have been registered. Idempotent.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
