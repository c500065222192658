// Package container provides the Laravel-style IoC container and Service
// Provider system the configuration bindings are registered into.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&ConfigServiceProvider{})
//  3. Validate configuration (see package inject)
//  4. Boot: registry.Boot()
//
// # Bindings
//
//	// Transient, new value every Make()
//	c.Bind("report", func(c *container.Container) (any, error) { return newReport(), nil })
//
//	// Singleton, created once
//	c.Singleton("config", func(c *container.Container) (any, error) { return config.Load() })
//
//	// Pre-built value
//	c.Instance("config.report", report)
//
//	// Alias
//	c.Alias("config.mapping.ServerConfig@server", "config.mapping.ServerConfig")
//
// # Resolving
//
//	raw, err := c.Make("config")
//	cfg, err := container.Resolve[*config.Config](c, "config")
//	cfg := container.MustResolve[*config.Config](c, "config")
//
// Unknown abstracts fail with ErrNotBound.
//
// # Tags
//
//	c.Tag([]string{"config.resolver.url", "config.resolver.semver"}, "config.resolvers")
//	resolvers, err := c.Tagged("config.resolvers")
//
// # Deferred Providers
//
// A deferred provider is registered the first time one of its Provides()
// abstracts is resolved:
//
//	type DiagnosticsProvider struct{ container.BaseProvider }
//
//	func (p *DiagnosticsProvider) IsDeferred() bool   { return true }
//	func (p *DiagnosticsProvider) Provides() []string { return []string{"diagnostics"} }
package container
