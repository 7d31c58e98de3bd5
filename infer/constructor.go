package infer

import (
	"sync"

	"go.uber.org/zap"

	"typeshape/internal/common"
	"typeshape/typedesc"
)

// DefaultConstructor returns the exported constructor of t with the fewest
// parameters. Among constructors with the same count the first one in t's
// constructor order wins.
func DefaultConstructor(t typedesc.Type) (typedesc.Constructor, bool) {
	if t == nil {
		return typedesc.Constructor{}, false
	}

	var exported []typedesc.Constructor
	for _, c := range t.Constructors() {
		if c.Exported {
			exported = append(exported, c)
		}
	}

	return common.MinBy(exported, typedesc.Constructor.Arity)
}

// ConstructorParameters is the cached parameter list of a type's default
// constructor. Values are shared between callers and must not be modified.
type ConstructorParameters struct {
	Type        typedesc.Type
	Constructor string
	Params      []typedesc.Parameter
}

// Option configures a ConstructorCache.
type Option func(*ConstructorCache)

// WithLogger sets the logger used for cache events.
func WithLogger(l *zap.Logger) Option {
	return func(c *ConstructorCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// ConstructorCache memoizes default constructor parameters per type.
//
// Lookups never block. Concurrent first requests for the same type may each
// compute the parameters, but only the first stored value is kept and every
// caller receives it. Entries are never evicted.
type ConstructorCache struct {
	entries sync.Map // type ID -> *ConstructorParameters
	logger  *zap.Logger
}

// NewConstructorCache creates an empty cache.
func NewConstructorCache(opts ...Option) *ConstructorCache {
	c := &ConstructorCache{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Parameters returns the parameters of t's default constructor. It reports
// false when t has no exported constructor; such types are not cached.
func (c *ConstructorCache) Parameters(t typedesc.Type) (*ConstructorParameters, bool) {
	if t == nil {
		return nil, false
	}

	key := t.ID()
	if v, ok := c.entries.Load(key); ok {
		return v.(*ConstructorParameters), true
	}

	ctor, ok := DefaultConstructor(t)
	if !ok {
		c.logger.Debug("no exported constructor", zap.String("type", key))
		return nil, false
	}

	computed := &ConstructorParameters{Type: t, Constructor: ctor.Name, Params: ctor.Params}

	v, loaded := c.entries.LoadOrStore(key, computed)
	if loaded {
		c.logger.Debug("discarded concurrently computed constructor parameters", zap.String("type", key))
	} else {
		c.logger.Debug("cached constructor parameters",
			zap.String("type", key),
			zap.String("constructor", ctor.Name),
			zap.Int("params", len(ctor.Params)))
	}

	return v.(*ConstructorParameters), true
}

// Len returns the number of cached types.
func (c *ConstructorCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// defaultCache is the process-wide cache, alive until exit.
var defaultCache = NewConstructorCache()

// DefaultCache returns the process-wide constructor cache.
func DefaultCache() *ConstructorCache {
	return defaultCache
}

// ConstructorParametersOf looks up t in the process-wide cache.
func ConstructorParametersOf(t typedesc.Type) (*ConstructorParameters, bool) {
	return defaultCache.Parameters(t)
}
