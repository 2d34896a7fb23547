package locator

import "errors"

var (
	// ErrNotInitialized is returned by Create and Singleton before Init has run.
	ErrNotInitialized = errors.New("locator: not initialized")

	// ErrNotFound is returned when no class mapping exists for a key.
	ErrNotFound = errors.New("locator: service not found")

	// ErrUnknownType is reported by Init when a configured type name is not in the catalog.
	ErrUnknownType = errors.New("locator: unknown type")

	// ErrNoConstructor is reported by Init when a catalog type has no constructor.
	ErrNoConstructor = errors.New("locator: type has no constructor")

	// ErrConstruction wraps any failure raised while building a service.
	ErrConstruction = errors.New("locator: could not create service")

	// ErrAmbiguousFactory is returned when more than one capability factory
	// applies to the same type.
	ErrAmbiguousFactory = errors.New("locator: ambiguous factory")

	// ErrTypeMismatch is returned by the typed helpers when a service has an
	// unexpected Go type.
	ErrTypeMismatch = errors.New("locator: type mismatch")
)
