// Package random is a sample service: a random-number source and a factory
// type producing it, ready to be placed in a locator catalog.
package random

import (
	"math/rand"
	"sync"
	"time"

	"github.com/kofrasa/service-locator/framework/locator"
)

const (
	// TypeName is the catalog name of Random.
	TypeName = "random.Random"
	// FactoryTypeName is the catalog name of Factory.
	FactoryTypeName = "random.Factory"

	// CapabilitySource is satisfied by anything producing random numbers.
	CapabilitySource locator.Capability = "random.Source"
)

// Random is a goroutine-safe pseudo-random number source.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Random seeded from the current time.
func New() *Random {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a Random with a fixed seed.
func NewSeeded(seed int64) *Random {
	return &Random{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a number in [0, n).
func (r *Random) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// Float64 returns a number in [0.0, 1.0).
func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

// Factory builds a new Random on every call.
type Factory struct{}

// NewInstance implements locator.Factory.
func (Factory) NewInstance() (any, error) {
	return New(), nil
}

// Types returns the catalog descriptors for Random and Factory.
func Types() []locator.Type {
	return []locator.Type{
		{
			Name:         TypeName,
			New:          func() (any, error) { return New(), nil },
			Capabilities: []locator.Capability{CapabilitySource},
		},
		{
			Name: FactoryTypeName,
			New:  func() (any, error) { return Factory{}, nil },
		},
	}
}
