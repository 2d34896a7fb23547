// Package locator provides a small service locator: a registry mapping string
// keys to constructible service types.
//
// # Overview
//
// Go cannot load a type by name at run time, so the host application fills a
// Catalog with Type descriptors (a name, a zero-argument constructor and a set
// of capability tags). A services configuration then maps keys to catalog type
// names, and Locator.Init turns that configuration into class mappings.
//
// # Lifecycle
//
//  1. Create:   cat := locator.NewCatalog(); l := locator.New(cat)
//  2. Provide:  cat.Provide(random.Types()...)
//  3. Init:     l.Init(props, "service")       — first call wins
//  4. Resolve:  l.Create(key) / l.Singleton(key)
//
// # Configuration
//
//	# services.properties
//	service.random=random.Random
//	service.randomFactory=random.Factory
//
//	props, _ := config.LoadProperties(afero.NewOsFs(), "services.properties")
//	_ = l.Init(props, "service")
//
// # Instances
//
//	// New instance on every call
//	a, _ := l.Create("random")
//
//	// Shared instance, built on first call
//	s, _ := l.Singleton("random")
//
//	// Typed
//	rnd, err := locator.Resolve[*random.Random](l, "random")
//
// # Values
//
//	l.Register("started", time.Now())
//	started, ok := locator.ValueOf[time.Time](l, "started")
//
// # Factories
//
// Construction can be delegated to a Factory bound to a key, or to a capability
// that the mapped type satisfies. Capabilities are discovered breadth-first
// through the type's Extends chain and through the parents declared with
// Catalog.DeclareCapability. When several capability factories match a type,
// Create fails with ErrAmbiguousFactory instead of picking one.
//
//	l.AddFactory("clock", locator.FactoryFunc(func() (any, error) { return time.Now, nil }))
//	l.AddCapabilityFactory(amqp.CapabilityService, amqpFactory)
//
// # Locking
//
// Every Singleton call runs under one mutex shared by all keys, so singleton
// materializations are serialized. A factory must not call Singleton on the
// locator that invoked it.
package locator
