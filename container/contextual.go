package container

// ContextualBuilder implements the fluent contextual binding API:
//
//	c.When("app.PhotoService").Needs("app.Filesystem").Give(func(c *container.Container) (any, error) {
//	    return NewS3Filesystem(), nil
//	})
//
// While "app.PhotoService" is being built — by factory or by auto-wiring —
// any Get of "app.Filesystem" from inside that build uses the contextual
// factory instead of the regular binding. Contextual results are never
// cached.
type ContextualBuilder struct {
	container *Container
	consumer  string
	needs     string
}

// When starts a contextual binding chain for the given consumer id.
func (c *Container) When(consumer string) *ContextualBuilder {
	return &ContextualBuilder{container: c, consumer: consumer}
}

// Needs specifies which id the consumer's override applies to.
func (b *ContextualBuilder) Needs(id string) *ContextualBuilder {
	b.needs = id
	return b
}

// Give provides the factory used when the consumer resolves the id.
func (b *ContextualBuilder) Give(factory Factory) {
	c := b.container
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.contextual[b.consumer]; !ok {
		c.contextual[b.consumer] = make(map[string]Factory)
	}
	c.contextual[b.consumer][b.needs] = factory
}

// GiveValue is shorthand for Give with a pre-built value.
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(*Container) (any, error) { return value, nil })
}

// contextualFactory returns the override for (consumer, id), or nil.
func (c *Container) contextualFactory(consumer, id string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[consumer]; ok {
		return m[id]
	}
	return nil
}
