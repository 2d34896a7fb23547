package providers

import (
	"github.com/kofrasa/service-locator/framework/amqp"
	"github.com/kofrasa/service-locator/framework/config"
	"github.com/kofrasa/service-locator/framework/locator"
	"github.com/kofrasa/service-locator/services/random"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider registers the application configuration as values.
//
// Registered values:
//   - "config"   → *config.Config
//   - "app.name" → string
//   - "app.env"  → string
type ConfigServiceProvider struct {
	locator.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Boot(l *locator.Locator) {
	if p.Config == nil {
		return
	}
	l.Register("config", p.Config)
	l.Register("app.name", p.Config.App.Name)
	l.Register("app.env", p.Config.App.Env)
}

// ── RandomServiceProvider ─────────────────────────────────────────────────────

// RandomServiceProvider adds the random number types to the catalog.
//
// Catalog types:
//   - "random.Random"  → *random.Random
//   - "random.Factory" → factory type producing *random.Random
type RandomServiceProvider struct {
	locator.BaseProvider
}

func (p *RandomServiceProvider) Register(cat *locator.Catalog) {
	cat.Provide(random.Types()...)
}

// ── AmqpServiceProvider ───────────────────────────────────────────────────────

// AmqpServiceProvider adds the loopback queue service to the catalog.
//
// Catalog types:
//   - "amqp.MemoryService" → *amqp.MemoryService (capabilities amqp.MemoryService, amqp.Service)
//
// When Capacity is set, every type satisfying amqp.Service is built by a
// factory creating a MemoryService with that queue capacity.
type AmqpServiceProvider struct {
	locator.BaseProvider
	Capacity int
}

func (p *AmqpServiceProvider) Register(cat *locator.Catalog) {
	cat.Provide(amqp.Types()...)
	cat.DeclareCapability(amqp.CapabilityMemory, amqp.CapabilityService)
}

func (p *AmqpServiceProvider) Boot(l *locator.Locator) {
	if p.Capacity <= 0 {
		return
	}
	capacity := p.Capacity
	l.AddCapabilityFactory(amqp.CapabilityService, locator.FactoryFunc(func() (any, error) {
		return amqp.NewMemoryService(amqp.WithCapacity(capacity)), nil
	}))
}
