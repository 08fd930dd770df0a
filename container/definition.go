package container

// Definition is one registered binding: an identifier tied to a producer,
// a lifecycle flag, and a tag set. Bind and Singleton return the Definition
// so registration code can chain further configuration:
//
//	c.Bind("mailer", newMailer).Tag("services").Share()
//
// The id never changes after creation, and the cached instance slot is
// written at most once — a shared Definition resolved twice returns the
// first result, and only Forget/Flush ever discard it.
type Definition struct {
	id       string
	factory  Factory
	typeName string // auto-wire target when factory is nil
	shared   bool
	tags     []string

	cached    any
	hasCached bool
}

// ID returns the identifier this Definition is bound to.
func (d *Definition) ID() string { return d.id }

// Shared reports whether resolutions of this Definition are cached.
func (d *Definition) Shared() bool { return d.shared }

// Share marks the Definition shared, equivalent to having registered it
// through Singleton. Returns the Definition for chaining.
func (d *Definition) Share() *Definition {
	d.shared = true
	return d
}

// Tag adds tags to the Definition, collapsing duplicates while keeping
// first-insertion order. Returns the Definition for chaining.
func (d *Definition) Tag(tags ...string) *Definition {
	for _, tag := range tags {
		if !d.HasTag(tag) {
			d.tags = append(d.tags, tag)
		}
	}
	return d
}

// HasTag reports whether the Definition carries tag.
func (d *Definition) HasTag(tag string) bool {
	for _, t := range d.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns a copy of the Definition's tags in insertion order.
func (d *Definition) Tags() []string {
	out := make([]string, len(d.tags))
	copy(out, d.tags)
	return out
}

// Resolved reports whether a shared Definition holds a cached instance.
func (d *Definition) Resolved() bool { return d.hasCached }
