package providers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/container"
	"github.com/km-arc/configinject/framework/inject"
	"github.com/km-arc/configinject/framework/logging"
	"github.com/km-arc/configinject/framework/providers"
	"github.com/km-arc/configinject/framework/routing"
)

func register(t *testing.T, props map[string]string) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	c := container.New()
	r := container.NewProviderRegistry(c)
	require.NoError(t, r.Register(&providers.ConfigServiceProvider{
		EnvFiles: []string{"testdata/absent.env"},
		Sources:  []config.Source{config.NewMapSource("test", 500, props)},
	}))
	require.NoError(t, r.Register(&providers.RoutingServiceProvider{}))
	require.NoError(t, r.Register(&providers.DiagnosticsServiceProvider{}))
	return c, r
}

func TestConfigServiceProvider(t *testing.T) {
	c, _ := register(t, map[string]string{"app.name": "Shop"})

	cfg, err := container.Resolve[*config.Config](c, "config")
	require.NoError(t, err)
	assert.Equal(t, "Shop", cfg.Get("app.name", ""))

	alias, err := container.Resolve[*config.Config](c, "configuration")
	require.NoError(t, err)
	assert.Same(t, cfg, alias)

	_, err = container.Resolve[logging.Logger](c, "logger")
	require.NoError(t, err)
}

func TestConfigServiceProvider_Declares(t *testing.T) {
	var d inject.Declarer = &providers.ConfigServiceProvider{}
	assert.Equal(t, []*config.Mapping{config.AppMapping, config.LoggingMapping}, d.ConfigTypes())
	assert.Empty(t, d.ConfigSites())
}

func TestRoutingServiceProvider(t *testing.T) {
	c, _ := register(t, nil)
	router, err := container.Resolve[*routing.Router](c, "router")
	require.NoError(t, err)
	assert.NotNil(t, router)
}

func TestDiagnosticsServiceProvider_NeedsValidation(t *testing.T) {
	_, r := register(t, nil)
	// Nothing validated yet, so config.registry is not bound.
	assert.Error(t, r.Boot())
}

func TestDiagnosticsServiceProvider_Boot(t *testing.T) {
	c, r := register(t, nil)
	cfg := container.MustResolve[*config.Config](c, "config")

	p := &providers.ConfigServiceProvider{}
	_, registration, report, err := inject.NewPipeline(cfg, c).Run(p)
	require.NoError(t, err)
	require.True(t, report.Empty(), report.Error())

	c.Instance("config.registry", inject.NewBuilder().Build())
	c.Instance("config.registration", registration)
	c.Instance("config.report", report)
	require.NoError(t, r.Boot())

	rec := httptest.NewRecorder()
	container.MustResolve[*routing.Router](c, "router").
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_config/report", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigServiceProvider_BootUsesValidatedLogging(t *testing.T) {
	var out bytes.Buffer
	c := container.New()
	r := container.NewProviderRegistry(c)
	p := &providers.ConfigServiceProvider{
		EnvFiles: []string{"testdata/absent.env"},
		Sources: []config.Source{config.NewMapSource("test", 500, map[string]string{
			"logging.level":  "debug",
			"logging.format": "json",
		})},
		Output: &out,
	}
	require.NoError(t, r.Register(p))

	cfg := container.MustResolve[*config.Config](c, "config")
	_, _, report, err := inject.NewPipeline(cfg, c).Run(p)
	require.NoError(t, err)
	require.True(t, report.Empty(), report.Error())
	bootstrap := container.MustResolve[logging.Logger](c, "logger")
	require.NoError(t, r.Boot())

	booted := container.MustResolve[logging.Logger](c, "logger")
	assert.NotSame(t, bootstrap, booted)
	booted.Debug("booted", "component", "config")
	assert.Contains(t, out.String(), `"msg":"booted"`)
	assert.Contains(t, out.String(), `"level":"DEBUG"`)
}

func TestConfigServiceProvider_BootNeedsValidation(t *testing.T) {
	c := container.New()
	p := &providers.ConfigServiceProvider{EnvFiles: []string{"testdata/absent.env"}}
	p.Register(c)
	assert.Error(t, p.Boot(c))
}

func TestAppSettings(t *testing.T) {
	c, _ := register(t, map[string]string{"app.port": "9000"})
	_, err := providers.AppSettings(c)
	assert.Error(t, err, "not validated yet")

	cfg := container.MustResolve[*config.Config](c, "config")
	_, _, report, err := inject.NewPipeline(cfg, c).Run(&providers.ConfigServiceProvider{})
	require.NoError(t, err)
	require.True(t, report.Empty(), report.Error())

	settings, err := providers.AppSettings(c)
	require.NoError(t, err)
	assert.Equal(t, 9000, settings.Port)
	assert.True(t, settings.Debug, "AppConfig default")
}
