package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Register binds services. Boot runs after every provider is registered and
// after configuration has been validated, so it may resolve anything.
//
//	type CheckoutServiceProvider struct{ container.BaseProvider }
//
//	func (p *CheckoutServiceProvider) Register(app *container.Container) {
//	    app.Singleton("checkout", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return shop.NewCheckout(cfg), nil
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides returns the abstracts a deferred provider registers.
	//
	//	// Laravel: public function provides(): array { return ['diagnostics']; }
	Provides() []string

	// IsDeferred returns true if the provider is only registered when one of
	// its Provides() abstracts is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider gives no-op Boot, Provides and IsDeferred.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders, including deferred
// ones. It mirrors Laravel's Application::registerConfiguredProviders and
// Application::bootProviders.
type ProviderRegistry struct {
	app        *Container
	all        []ServiceProvider
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	loaded     map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers are registered immediately;
// deferred ones when one of their abstracts is first resolved.
//
//	// Laravel: $app->register(new ConfigServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true
	r.all = append(r.all, provider)

	if provider.IsDeferred() {
		for _, abstract := range provider.Provides() {
			r.app.Defer(abstract, func() error { return r.load(provider) })
		}
		return nil
	}

	provider.Register(r.app)
	r.loaded[provider] = true
	r.eager = append(r.eager, provider)

	if r.booted {
		return r.boot(provider)
	}
	return nil
}

// load registers a deferred provider on first use, booting it if the
// registry has already booted.
func (r *ProviderRegistry) load(provider ServiceProvider) error {
	if r.loaded[provider] {
		return nil
	}
	r.loaded[provider] = true
	provider.Register(r.app)
	if r.booted {
		return r.boot(provider)
	}
	return nil
}

// Boot calls Boot on every eager provider, stopping at the first error.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := r.boot(provider); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) boot(provider ServiceProvider) error {
	if err := provider.Boot(r.app); err != nil {
		return fmt.Errorf("container: boot %T: %w", provider, err)
	}
	return nil
}

// Booted returns true once Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	return append([]ServiceProvider(nil), r.eager...)
}

// All returns every registered provider, eager and deferred, in
// registration order.
func (r *ProviderRegistry) All() []ServiceProvider {
	return append([]ServiceProvider(nil), r.all...)
}
