package locator

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the startup wiring of one feature.
//
// Register is called as soon as the provider is added and may only touch the
// catalog: types must be known before Locator.Init maps keys to them.
// Boot is called once the locator is initialized; it is the place to bind
// factories and register values.
//
//	type RandomProvider struct{ locator.BaseProvider }
//
//	func (p *RandomProvider) Register(cat *locator.Catalog) {
//	    cat.Provide(random.Types()...)
//	}
//
//	func (p *RandomProvider) Boot(l *locator.Locator) {
//	    l.AddCapabilityFactory(random.CapabilitySource, random.Factory{})
//	}
type ServiceProvider interface {
	Register(cat *Catalog)
	Boot(l *Locator)
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op implementations of Register
// and Boot. Embed it and override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Register(_ *Catalog) {}
func (p *BaseProvider) Boot(_ *Locator)     {}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one locator.
type ProviderRegistry struct {
	locator    *Locator
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to l.
func NewProviderRegistry(l *Locator) *ProviderRegistry {
	return &ProviderRegistry{
		locator:    l,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method. The same provider
// value is only registered once. A provider added after Boot is booted
// immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	provider.Register(r.locator.Catalog())
	r.providers = append(r.providers, provider)

	if r.booted {
		provider.Boot(r.locator)
	}
}

// Boot calls Boot on every registered provider, in registration order.
// Later calls are no-ops.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.providers {
		provider.Boot(r.locator)
	}
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
