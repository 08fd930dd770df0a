// Package container provides a service container with constructor
// auto-wiring for Go.
//
// The container maps string identifiers to Definitions — a producer plus
// lifecycle metadata — and resolves them on demand, discovering constructor
// dependencies one level at a time through the constructible-type registry
// in package types. Host applications register their graph at bootstrap and
// never assemble objects by hand.
//
// # Bindings
//
//	c := container.New()
//
//	// Transient — new instance every Get
//	c.Bind("report", func(c *container.Container) (any, error) {
//	    return NewReport(), nil
//	})
//
//	// Singleton — created once, reused
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewCache(cfg), nil
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias — one substitution per lookup, never chained
//	c.Alias("cacheManager", "cache")
//
// # Auto-wiring
//
// Go cannot reflect over struct constructors, so constructible types are
// declared explicitly, usually by handing the registry a constructor
// function whose parameters become the type's dependency slots:
//
//	c.RegisterType(types.NameOf(&PostService{}), NewPostService)
//
//	// NewPostService(repo *PostRepo, cache *Cache) *PostService
//	// → resolving the type recursively resolves *PostRepo and *Cache.
//
// A Get of an unbound id that names a registered type auto-wires it from
// scratch on every call; binding the id (Bind/Singleton with a nil
// producer) is what gives the type a lifecycle. Unresolvable parameters
// fall back to registered defaults, then to nil when the slot can hold it,
// and otherwise fail with a ContainerError.
//
// # Resolving
//
//	raw, err := c.Get("cache")
//	cache, err := container.Resolve[*Cache](c, "cache")
//
// Circular dependencies are detected by the resolution stack and reported
// with the full chain ("a -> b -> a"). Errors come in two kinds:
// NotFoundError for unresolvable ids and ContainerError for everything that
// goes wrong while building.
//
// # Tags
//
//	c.Tag([]string{"cpuReport", "memReport"}, "reports")
//	reports, err := c.Tagged("reports") // resolved in registration order
//
// # Contextual binding
//
//	c.When("photoService").
//	    Needs("filesystem").
//	    Give(func(c *container.Container) (any, error) { return NewS3(), nil })
//
// # Service providers
//
//	type AppProvider struct{ container.BaseProvider }
//
//	func (p *AppProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", newMailer)
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppProvider{})
//	registry.Boot()
//
// Deferred providers (IsDeferred true, Provides listing their ids) are
// registered lazily on the first Get of anything they provide.
//
// # Concurrency
//
// Registration is mutex-guarded; resolution is not. The resolution stack
// belongs to one logical resolution context at a time — use one container
// per goroutine, or configure fully before sharing read-only.
package container
