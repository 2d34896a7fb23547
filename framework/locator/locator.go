package locator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kofrasa/service-locator/framework/config"
)

// ── Locator ───────────────────────────────────────────────────────────────────

// Locator is the service registry. It maps keys from a services configuration
// to catalog types and produces instances of them, either fresh per call
// (Create) or memoized per key (Singleton).
//
// A Locator starts uninitialized; Init moves it to initialized exactly once.
// Register, Value and the factory binders work in both states.
type Locator struct {
	mu sync.RWMutex

	// singletonMu serializes every check → create → store sequence, across all keys.
	singletonMu sync.Mutex

	catalog *Catalog
	logger  *zap.Logger

	initialized bool

	// key → mapped catalog type
	mappings map[string]*Type

	// key → registered value
	values map[string]any

	// key → memoized singleton
	instances map[string]any

	keyFactories        map[string]Factory
	capabilityFactories map[Capability]Factory

	// type name → discovered capabilities, valid for catalog generation capGen
	capabilities map[string][]Capability
	capGen       uint64
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used to report init skips and construction failures.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an uninitialized locator reading types from catalog.
//
//	cat := locator.NewCatalog().Provide(random.Types()...)
//	l := locator.New(cat, locator.WithLogger(logger))
//	_ = l.Init(props, "service")
func New(catalog *Catalog, opts ...Option) *Locator {
	if catalog == nil {
		catalog = NewCatalog()
	}
	l := &Locator{
		catalog:             catalog,
		logger:              zap.NewNop(),
		mappings:            make(map[string]*Type),
		values:              make(map[string]any),
		instances:           make(map[string]any),
		keyFactories:        make(map[string]Factory),
		capabilityFactories: make(map[Capability]Factory),
		capabilities:        make(map[string][]Capability),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Catalog returns the catalog the locator resolves type names against.
func (l *Locator) Catalog() *Catalog { return l.catalog }

// ── Initialization ────────────────────────────────────────────────────────────

// Init loads class mappings from props. Only entries whose key starts with
// prefix followed by a dot are used, with that part stripped; a blank prefix
// selects every entry. Each value names a catalog type.
//
// Entries naming an unknown type, or a type without a constructor, are logged
// and skipped; the skipped entries are returned combined into one error. The
// locator is initialized either way. Calls after the first are no-ops.
//
//	// service.random=random.Random
//	err := l.Init(props, "service") // key "random"
func (l *Locator) Init(props *config.Properties, prefix string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}

	prefix = strings.TrimSpace(prefix)
	if prefix != "" {
		prefix += "."
	}

	var errs error
	for _, p := range props.Entries() {
		if prefix != "" && !strings.HasPrefix(p.Key, prefix) {
			continue
		}
		key := strings.TrimPrefix(p.Key, prefix)
		typeName := strings.TrimSpace(p.Value)

		t, ok := l.catalog.Lookup(typeName)
		if !ok {
			errs = multierr.Append(errs, l.skip(key, typeName, ErrUnknownType))
			continue
		}
		if t.New == nil {
			errs = multierr.Append(errs, l.skip(key, typeName, ErrNoConstructor))
			continue
		}
		l.mappings[key] = t
	}

	l.initialized = true
	l.logger.Info("locator initialized",
		zap.Int("services", len(l.mappings)),
		zap.String("prefix", strings.TrimSuffix(prefix, ".")),
	)
	return errs
}

func (l *Locator) skip(key, typeName string, reason error) error {
	err := fmt.Errorf("%w: %q (key %q)", reason, typeName, key)
	l.logger.Warn("could not load type",
		zap.String("key", key),
		zap.String("type", typeName),
		zap.Error(err),
	)
	return err
}

// Initialized reports whether Init has run.
func (l *Locator) Initialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initialized
}

// ── Values ────────────────────────────────────────────────────────────────────

// Register stores value under key, replacing any previous value.
func (l *Locator) Register(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[key] = value
}

// Value returns the value registered under key.
func (l *Locator) Value(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

// ── Factories ─────────────────────────────────────────────────────────────────

// AddFactory binds f to an exact service key. It takes precedence over
// capability factories and the type's own constructor.
func (l *Locator) AddFactory(key string, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("locator: nil factory for key [%s]", key))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keyFactories[key] = f
}

// AddCapabilityFactory binds f to a capability. Create delegates to it for any
// mapped type satisfying the capability, unless a key factory applies.
func (l *Locator) AddCapabilityFactory(capability Capability, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("locator: nil factory for capability [%s]", capability))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capabilityFactories[capability] = f
}

// ── Construction ──────────────────────────────────────────────────────────────

// Create builds a new instance of the service mapped to key on every call. It
// never reads or fills the singleton cache.
//
// Construction is delegated, in order, to: the factory bound to key; the single
// capability factory matching the type; the type's constructor. A constructed
// value that is itself a Factory is asked for the real instance.
func (l *Locator) Create(key string) (any, error) {
	l.mu.RLock()
	if !l.initialized {
		l.mu.RUnlock()
		return nil, ErrNotInitialized
	}
	t, ok := l.mappings[key]
	factory := l.keyFactories[key]
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	if factory == nil {
		f, err := l.capabilityFactory(t)
		if err != nil {
			return nil, fmt.Errorf("create %q: %w", key, err)
		}
		factory = f
	}

	var (
		service any
		err     error
	)
	if factory != nil {
		l.logger.Debug("creating service via factory", zap.String("key", key), zap.String("type", t.Name))
		service, err = build(factory.NewInstance)
	} else {
		service, err = build(t.New)
		if f, isFactory := service.(Factory); err == nil && isFactory {
			l.logger.Debug("creating service via factory type", zap.String("key", key), zap.String("type", t.Name))
			service, err = build(f.NewInstance)
		}
	}

	if err == nil && service == nil {
		err = errors.New("nil result")
	}
	if err != nil {
		l.logger.Error("could not create service",
			zap.String("key", key),
			zap.String("type", t.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w %q: %w", ErrConstruction, key, err)
	}
	return service, nil
}

// Singleton returns the shared instance for key, creating it on first use.
// Failed constructions are not cached.
//
// One lock covers the check, the construction and the store for every key, so
// singleton materializations never run in parallel. Factories therefore must
// not call Singleton on the same Locator.
func (l *Locator) Singleton(key string) (any, error) {
	l.singletonMu.Lock()
	defer l.singletonMu.Unlock()

	l.mu.RLock()
	inst, ok := l.instances[key]
	l.mu.RUnlock()
	if ok {
		return inst, nil
	}

	inst, err := l.Create(key)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.instances[key] = inst
	l.mu.Unlock()
	return inst, nil
}

// capabilityFactory returns the capability factory applying to t, nil if none.
func (l *Locator) capabilityFactory(t *Type) (Factory, error) {
	l.mu.RLock()
	if len(l.capabilityFactories) == 0 {
		l.mu.RUnlock()
		return nil, nil
	}
	l.mu.RUnlock()

	caps := l.capabilitiesOf(t.Name)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		found   Factory
		matched []string
	)
	for _, c := range caps {
		if f, ok := l.capabilityFactories[c]; ok {
			found = f
			matched = append(matched, string(c))
		}
	}
	if len(matched) > 1 {
		return nil, fmt.Errorf("%w: type %q matches capabilities [%s]",
			ErrAmbiguousFactory, t.Name, strings.Join(matched, ", "))
	}
	return found, nil
}

// capabilitiesOf returns the discovered capability set of a type, computing and
// caching it on first use. The cache is dropped when the catalog changes.
func (l *Locator) capabilitiesOf(typeName string) []Capability {
	gen := l.catalog.Generation()

	l.mu.RLock()
	caps, ok := l.capabilities[typeName]
	fresh := l.capGen == gen
	l.mu.RUnlock()
	if ok && fresh {
		return caps
	}

	caps = l.catalog.Capabilities(typeName)

	l.mu.Lock()
	if l.capGen < gen {
		l.capabilities = make(map[string][]Capability)
		l.capGen = gen
	}
	if l.capGen == gen {
		l.capabilities[typeName] = caps
	}
	l.mu.Unlock()
	return caps
}

// build runs a constructor, turning a panic into an error.
func build(fn func() (any, error)) (service any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			service = nil
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Descriptor summarizes one class mapping.
type Descriptor struct {
	Key          string       `json:"key"`
	Type         string       `json:"type"`
	Capabilities []Capability `json:"capabilities"`
	Resolved     bool         `json:"resolved"`
}

// Keys returns the sorted keys of all class mappings.
func (l *Locator) Keys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.mappings))
	for k := range l.mappings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Describe returns the mapping for key.
func (l *Locator) Describe(key string) (Descriptor, bool) {
	l.mu.RLock()
	t, ok := l.mappings[key]
	_, resolved := l.instances[key]
	l.mu.RUnlock()
	if !ok {
		return Descriptor{}, false
	}

	caps := l.capabilitiesOf(t.Name)
	if caps == nil {
		caps = []Capability{}
	}
	return Descriptor{
		Key:          key,
		Type:         t.Name,
		Capabilities: caps,
		Resolved:     resolved,
	}, true
}

// Resolved reports whether a singleton has been materialized for key.
func (l *Locator) Resolved(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.instances[key]
	return ok
}

// ValueKeys returns the sorted keys of all registered values.
func (l *Locator) ValueKeys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.values))
	for k := range l.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
