package locator

// Factory builds service instances in place of a type's own constructor.
//
// A Factory can be bound to a key with Locator.AddFactory, to a capability with
// Locator.AddCapabilityFactory, or a catalog type can itself construct a value
// that implements Factory; in that last case Create returns NewInstance's result
// rather than the factory.
type Factory interface {
	NewInstance() (any, error)
}

// FactoryFunc adapts a plain function to the Factory interface.
//
//	l.AddFactory("clock", locator.FactoryFunc(func() (any, error) {
//	    return time.Now, nil
//	}))
type FactoryFunc func() (any, error)

// NewInstance calls f.
func (f FactoryFunc) NewInstance() (any, error) { return f() }
