package locator

import (
	"sort"
	"sync"
)

// ── Type descriptors ──────────────────────────────────────────────────────────

// Constructor builds a new value of a catalog type. It takes no arguments.
type Constructor func() (any, error)

// Capability is a marker tag describing a contract a constructed value satisfies.
// Factories may be bound to a capability instead of a key.
type Capability string

// Type describes a constructible service type known to the host application.
//
//	cat.Provide(locator.Type{
//	    Name:         "random.Random",
//	    New:          func() (any, error) { return random.New(), nil },
//	    Capabilities: []locator.Capability{random.CapabilitySource},
//	})
type Type struct {
	// Name is the identifier used as a value in the services configuration.
	Name string

	// New is the zero-argument constructor. A Type without one cannot be mapped.
	New Constructor

	// Capabilities lists the capabilities this type declares directly.
	Capabilities []Capability

	// Extends names ancestor types whose capabilities this type inherits.
	Extends []string
}

// ── Catalog ───────────────────────────────────────────────────────────────────

// Catalog is the table of constructible types, keyed by type name.
// It is filled by the host application at startup and read by Locator.Init.
type Catalog struct {
	mu sync.RWMutex

	// name → descriptor
	types map[string]*Type

	// capability → directly extended capabilities
	parents map[Capability][]Capability

	// bumped by every Provide and DeclareCapability
	generation uint64
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types:   make(map[string]*Type),
		parents: make(map[Capability][]Capability),
	}
}

// Provide adds type descriptors. A later descriptor with the same name replaces
// the earlier one.
func (c *Catalog) Provide(types ...Type) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range types {
		t := types[i]
		c.types[t.Name] = &t
	}
	c.generation++
	return c
}

// DeclareCapability records that capability cap extends each of parents, so any
// type declaring cap also satisfies the parents.
//
//	cat.DeclareCapability(amqp.CapabilityService, "io.Closer")
func (c *Catalog) DeclareCapability(capability Capability, parents ...Capability) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parents[capability] = append(c.parents[capability], parents...)
	c.generation++
	return c
}

// Generation returns a counter that changes whenever types or capability
// parents are added. Results derived from the catalog are stale once it moves.
func (c *Catalog) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (*Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[name]
	return t, ok
}

// Names returns the sorted names of all catalog types.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.types))
	for name := range c.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Capabilities returns every capability the named type satisfies: the ones it
// declares, the ones declared along its ancestor chain, and every parent of
// those capabilities. Order is first-seen, breadth-first.
func (c *Catalog) Capabilities(name string) []Capability {
	c.mu.RLock()
	defer c.mu.RUnlock()

	root, ok := c.types[name]
	if !ok {
		return nil
	}

	// Walk the ancestor chain first, gathering declared capabilities.
	var pending []Capability
	visited := map[string]bool{root.Name: true}
	ancestors := []*Type{root}
	for len(ancestors) > 0 {
		t := ancestors[0]
		ancestors = ancestors[1:]
		pending = append(pending, t.Capabilities...)
		for _, parent := range t.Extends {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			if pt, ok := c.types[parent]; ok {
				ancestors = append(ancestors, pt)
			}
		}
	}

	// Then expand capabilities through their declared parents.
	seen := make(map[Capability]bool, len(pending))
	out := make([]Capability, 0, len(pending))
	for len(pending) > 0 {
		capability := pending[0]
		pending = pending[1:]
		if seen[capability] {
			continue
		}
		seen[capability] = true
		out = append(out, capability)
		pending = append(pending, c.parents[capability]...)
	}
	return out
}
