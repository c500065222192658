package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/container"
	"github.com/km-arc/configinject/framework/inject"
	"github.com/km-arc/configinject/framework/logging"
	"github.com/km-arc/configinject/framework/providers"
	"github.com/km-arc/configinject/framework/routing"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly,
// like $app in Laravel's bootstrap/app.php.
//
// Boot validates every declared configuration binding before any provider
// is booted. A misconfigured deployment never starts serving.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	declarers []inject.Declarer
	report    *inject.Report
}

// New creates the application with the framework providers registered.
// Extra sources (YAML files, flags) may be layered over env and .env.
func New(envFiles []string, sources ...config.Source) *Application {
	c := container.New()
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}
	c.Instance("app", app)

	// Same order as Laravel: configuration, then routing.
	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles, Sources: sources},
		&providers.RoutingServiceProvider{},
		&providers.DiagnosticsServiceProvider{},
	}
	for _, p := range core {
		if err := app.Register(p); err != nil {
			panic(fmt.Sprintf("app: register %T: %v", p, err))
		}
	}
	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Declare adds components that are not providers to configuration discovery.
func (a *Application) Declare(declarers ...inject.Declarer) {
	a.declarers = append(a.declarers, declarers...)
}

// Boot discovers every configuration binding, registers resolvers and
// mapping handlers, and validates them. Providers are booted only when the
// configuration is valid; otherwise the report is returned as the error.
//
// Deferred providers take part in discovery even though they are not
// registered yet.
func (a *Application) Boot() error {
	if a.Providers.Booted() {
		return nil
	}
	cfg, err := container.Resolve[*config.Config](a.Container, "config")
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	log, err := container.Resolve[logging.Logger](a.Container, "logger")
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	pipeline := inject.NewPipeline(cfg, a.Container, inject.WithLogger(log))
	reg, registration, report, err := pipeline.Run(a.components()...)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	a.report = report
	a.Instance("config.registry", reg)
	a.Instance("config.registration", registration)
	a.Instance("config.report", report)

	if err := report.Err(); err != nil {
		log.Error("refusing to boot", "problems", report.Len())
		return err
	}
	return a.Providers.Boot()
}

func (a *Application) components() []inject.Declarer {
	var out []inject.Declarer
	for _, p := range a.Providers.All() {
		if d, ok := p.(inject.Declarer); ok {
			out = append(out, d)
		}
	}
	return append(out, a.declarers...)
}

// Report returns the validation report of the last Boot, or nil.
func (a *Application) Report() *inject.Report { return a.report }

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Logger resolves the framework logger from the container.
func (a *Application) Logger() logging.Logger {
	return container.MustResolve[logging.Logger](a.Container, "logger")
}

// Settings returns the validated app.* settings. Boot must have succeeded.
func (a *Application) Settings() (config.AppConfig, error) {
	return providers.AppSettings(a.Container)
}

// Run boots the application (if needed) and serves HTTP on app.port until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	settings, err := a.Settings()
	if err != nil {
		return err
	}
	log := a.Logger()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(settings.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("server started", "app", settings.Name, "addr", srv.Addr, "env", settings.Env)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}

// Environment returns app.env. Before Boot it reads the raw value with the
// AppConfig default.
func (a *Application) Environment() string {
	if s, err := a.Settings(); err == nil {
		return s.Env
	}
	return a.Config().Get("app.env", appDefault("env"))
}

// IsDebug returns app.debug, falling back to the AppConfig default.
func (a *Application) IsDebug() bool {
	if s, err := a.Settings(); err == nil {
		return s.Debug
	}
	def, _ := strconv.ParseBool(appDefault("debug"))
	return a.Config().GetBool("app.debug", def)
}

func (a *Application) IsLocal() bool      { return a.Environment() == "local" }
func (a *Application) IsProduction() bool { return a.Environment() == "production" }
func (a *Application) IsTesting() bool    { return a.Environment() == "testing" }
func (a *Application) Version() string    { return Version }

func appDefault(name string) string {
	for _, p := range config.AppMapping.Properties {
		if p.Name == name {
			v, _ := p.Default.Get()
			return v
		}
	}
	return ""
}

// Version of the framework.
const Version = "0.2.0"
