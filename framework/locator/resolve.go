package locator

import "fmt"

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve returns the singleton for key as a T.
//
//	// Instead of: v, err := l.Singleton("random"); rnd := v.(*random.Random)
//	// Write:      rnd, err := locator.Resolve[*random.Random](l, "random")
func Resolve[T any](l *Locator, key string) (T, error) {
	v, err := l.Singleton(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](key, v)
}

// Make returns a freshly created instance for key as a T.
func Make[T any](l *Locator, key string) (T, error) {
	v, err := l.Create(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](key, v)
}

// ValueOf returns the registered value for key as a T. ok is false when the
// key was never registered or holds a different type.
func ValueOf[T any](l *Locator, key string) (T, bool) {
	v, ok := l.Value(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// MustResolve is like Resolve but panics on failure. Meant for composition
// roots where a missing service should stop startup.
func MustResolve[T any](l *Locator, key string) T {
	v, err := Resolve[T](l, key)
	if err != nil {
		panic(err)
	}
	return v
}

func as[T any](key string, v any) (T, error) {
	typed, ok := v.(T)
	if !ok {
		return typed, fmt.Errorf("%w: [%s] is %T, want %T", ErrTypeMismatch, key, v, *new(T))
	}
	return typed, nil
}
