package providers

import (
	"io"
	"os"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/container"
	"github.com/km-arc/configinject/framework/diagnostics"
	"github.com/km-arc/configinject/framework/inject"
	"github.com/km-arc/configinject/framework/logging"
	"github.com/km-arc/configinject/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads configuration from the environment and .env
// files and declares the framework's own mappings for validation.
//
// Bound abstracts:
//   - "config"  → *config.Config
//   - "logger"  → logging.Logger (logging.level / logging.format)
//
// Until validation has run the logger reads the raw keys; Boot rebinds it
// from the validated LoggingConfig mapping.
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
	// Sources are added on top of env and .env (YAML files, flags).
	Sources []config.Source
	// Output receives log records. Defaults to os.Stderr.
	Output io.Writer
}

func (p *ConfigServiceProvider) output() io.Writer {
	if p.Output == nil {
		return os.Stderr
	}
	return p.Output
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles, extra := p.EnvFiles, p.Sources
	app.Singleton("config", func(*container.Container) (any, error) {
		if len(envFiles) == 0 {
			envFiles = []string{".env"}
		}
		dotenv, err := config.NewDotenvSource(envFiles...)
		if err != nil {
			return nil, err
		}
		srcs := append([]config.Source{config.NewEnvSource(), dotenv}, extra...)
		return config.New(config.WithSources(srcs...)), nil
	})
	app.Alias("config", "configuration")

	app.Singleton("logger", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Get("logging.level", "info"), cfg.Get("logging.format", "text"), p.output()), nil
	})
}

// Boot replaces the bootstrap logger with one built from the validated
// logging settings.
func (p *ConfigServiceProvider) Boot(app *container.Container) error {
	h, err := container.Resolve[*inject.MappingHandler](app, "config.mapping."+config.LoggingMapping.Name)
	if err != nil {
		return err
	}
	v, err := h.Values()
	if err != nil {
		return err
	}
	settings := config.LoggingFrom(v)
	app.Instance("logger", logging.New(settings.Level, settings.Format, p.output()))
	return nil
}

// AppSettings returns the validated app.* settings bound by the last
// validation pass. It fails when the AppConfig mapping did not bind.
func AppSettings(c *container.Container) (config.AppConfig, error) {
	h, err := container.Resolve[*inject.MappingHandler](c, "config.mapping."+config.AppMapping.Name)
	if err != nil {
		return config.AppConfig{}, err
	}
	v, err := h.Values()
	if err != nil {
		return config.AppConfig{}, err
	}
	return config.AppFrom(v), nil
}

// ConfigTypes declares the app and logging mappings, so a bad APP_PORT or
// LOGGING_LEVEL stops the application before it boots.
func (p *ConfigServiceProvider) ConfigTypes() []*config.Mapping {
	return []*config.Mapping{config.AppMapping, config.LoggingMapping}
}

func (p *ConfigServiceProvider) ConfigSites() []inject.Site { return nil }

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container) (any, error) {
		log, err := container.Resolve[logging.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return routing.New(log), nil
	})
}

// ── DiagnosticsServiceProvider ────────────────────────────────────────────────

// DiagnosticsServiceProvider mounts the /_config endpoints on the router.
// It reads what the kernel bound during validation.
//
// Boot only runs once the configuration is valid, so the mounted report is
// always empty. When boot is refused, "diagnostics" can still be resolved
// and mounted on another router to serve the 422 report.
//
// Bound abstracts:
//   - "diagnostics" → *diagnostics.Handler
type DiagnosticsServiceProvider struct {
	container.BaseProvider
}

func (p *DiagnosticsServiceProvider) Register(app *container.Container) {
	app.Singleton("diagnostics", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		reg, err := container.Resolve[*inject.Registry](c, "config.registry")
		if err != nil {
			return nil, err
		}
		registration, err := container.Resolve[inject.Registration](c, "config.registration")
		if err != nil {
			return nil, err
		}
		report, err := container.Resolve[*inject.Report](c, "config.report")
		if err != nil {
			return nil, err
		}
		state := diagnostics.State{Registry: reg, Registration: registration, Report: report}
		// Raw values stay hidden unless the validated settings enable debug.
		settings, err := AppSettings(c)
		reveal := err == nil && settings.Debug
		return diagnostics.NewHandler(cfg, state, diagnostics.WithReveal(reveal)), nil
	})
}

func (p *DiagnosticsServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}
	h, err := container.Resolve[*diagnostics.Handler](app, "diagnostics")
	if err != nil {
		return err
	}
	h.Routes(router)
	return nil
}
