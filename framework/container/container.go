package container

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotBound is returned when nothing is registered for an abstract.
var ErrNotBound = errors.New("container: no binding registered")

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container.
type Factory func(c *Container) (any, error)

type binding struct {
	factory   Factory
	singleton bool
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the component graph the configuration bindings live in. It
// keeps the Laravel vocabulary:
//
//   - Bind / Singleton / Instance / Alias
//   - Make / Resolve (generic)
//   - Tags (group abstracts under one name)
//   - Defer (load a provider on first use)
//   - AfterResolving callbacks
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract
	aliases map[string]string

	// tag → []abstract
	tags map[string][]string

	// abstract → loader run before the first Make
	deferred map[string]func() error

	afterResolving []func(string, any)
}

// New creates an empty container bound to itself as "container".
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
		tags:      make(map[string][]string),
		deferred:  make(map[string]func() error),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory (new value on every Make).
//
//	// Laravel: $app->bind(Report::class, fn($app) => new Report($app))
//	c.Bind("report", func(c *container.Container) (any, error) { return newReport(), nil })
func (c *Container) Bind(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	// Laravel: $app->singleton(Config::class, fn($app) => Config::load())
//	c.Singleton("config", func(c *container.Container) (any, error) { return config.Load() })
func (c *Container) Singleton(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.deferred, key)
	c.instances[key] = instance
}

func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	key := c.canonical(abstract)
	delete(c.instances, key)
	delete(c.deferred, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

// Alias registers an alternative name for an abstract.
//
//	// Laravel: $app->alias(ServerConfig::class, 'server')
//	c.Alias("config.mapping.ServerConfig@server", "config.mapping.ServerConfig")
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// Defer registers load to run the first time abstract is resolved. load is
// expected to bind abstract.
func (c *Container) Defer(abstract string, load func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deferred[c.canonical(abstract)] = load
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates abstracts with a named group.
//
//	// Laravel: $app->tag([UrlResolver::class, SemverResolver::class], 'config.resolvers')
//	c.Tag([]string{"config.resolver.url", "config.resolver.semver"}, "config.resolvers")
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// Tagged resolves every abstract registered under tag, in tagging order.
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	abstracts := append([]string(nil), c.tags[tag]...)
	c.mu.RUnlock()

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		v, err := c.Make(abs)
		if err != nil {
			return nil, fmt.Errorf("container: tag %q: %w", tag, err)
		}
		result = append(result, v)
	}
	return result, nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract. The error wraps ErrNotBound when nothing is
// registered for it.
//
//	// Laravel: $app->make('config')
//	v, err := c.Make("config")
func (c *Container) Make(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	inst, ok := c.instances[key]
	load := c.deferred[key]
	c.mu.RUnlock()
	if ok {
		return inst, nil
	}

	if load != nil {
		c.mu.Lock()
		delete(c.deferred, key)
		c.mu.Unlock()
		if err := load(); err != nil {
			return nil, fmt.Errorf("container: load deferred [%s]: %w", abstract, err)
		}
		return c.Make(abstract)
	}

	c.mu.RLock()
	b, ok := c.bindings[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for [%s]", ErrNotBound, abstract)
	}

	instance, err := b.factory(c)
	if err != nil {
		return nil, fmt.Errorf("container: build [%s]: %w", abstract, err)
	}
	if b.singleton {
		c.mu.Lock()
		c.instances[key] = instance
		c.mu.Unlock()
	}
	c.fireAfterResolving(key, instance)
	return instance, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether abstract can be resolved.
//
//	// Laravel: $app->bound('config.report')
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	_, hasDeferred := c.deferred[key]
	return hasBinding || hasInstance || hasDeferred
}

// Resolved reports whether abstract holds a built instance.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget removes the binding and instance of abstract.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
	delete(c.deferred, key)
}

// Flush resets the container.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.tags = make(map[string][]string)
	c.deferred = make(map[string]func() error)
}

// Bindings returns every registered abstract key, sorted.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool, len(c.bindings)+len(c.instances)+len(c.deferred))
	for k := range c.bindings {
		seen[k] = true
	}
	for k := range c.instances {
		seen[k] = true
	}
	for k := range c.deferred {
		seen[k] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// canonical follows aliases to the registered key (must hold mu).
func (c *Container) canonical(abstract string) string {
	for i, n := 0, len(c.aliases)+1; i < n; i++ {
		target, ok := c.aliases[abstract]
		if !ok {
			break
		}
		abstract = target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after a factory builds a value.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	cfg, err := container.Resolve[*config.Config](c, "config")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, abstract, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
//
//	cfg := container.MustResolve[*config.Config](c, "config")
func MustResolve[T any](c *Container, abstract string) T {
	v, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}
