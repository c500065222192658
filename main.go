// Example shop application. Every configuration binding it declares is
// validated at boot, including those of the deferred checkout provider:
//
//	SERVER_HOST=0.0.0.0 CHECKOUT_GATEWAY=https://pay.example.com go run .
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/km-arc/configinject/framework/app"
	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/container"
	gohttp "github.com/km-arc/configinject/framework/http"
	"github.com/km-arc/configinject/framework/inject"
	"github.com/km-arc/configinject/framework/routing"
)

// ServerConfig is bound at "server"; the admin listener reuses it at "admin".
var ServerConfig = &config.Mapping{
	Name:   "ServerConfig",
	Prefix: "server",
	Properties: []config.Property{
		{Name: "host", Type: config.Scalar("string")},
		{Name: "port", Type: config.Scalar("int"), Default: config.DefaultValue("8080"), Rules: "integer|gte:1|lte:65535"},
		{Name: "tls", Type: config.Optional(config.Scalar("bool"))},
	},
}

// storefront declares the mapping type; it is not a provider.
type storefront struct{}

func (storefront) ConfigTypes() []*config.Mapping { return []*config.Mapping{ServerConfig} }
func (storefront) ConfigSites() []inject.Site     { return nil }

// Checkout is built on first use by CheckoutServiceProvider.
type Checkout struct {
	Timeout time.Duration
	Gateway *url.URL
	Retries config.SupplierFunc
	Admin   *config.MappedValues
}

// CheckoutServiceProvider is deferred: it is registered when "checkout" is
// first resolved, but its bindings are checked when the application boots.
type CheckoutServiceProvider struct {
	container.BaseProvider
}

func (p *CheckoutServiceProvider) Provides() []string { return []string{"checkout"} }
func (p *CheckoutServiceProvider) IsDeferred() bool   { return true }

func (p *CheckoutServiceProvider) ConfigTypes() []*config.Mapping { return nil }

func (p *CheckoutServiceProvider) ConfigSites() []inject.Site {
	return []inject.Site{
		inject.PropertySite("shop.Checkout", "timeout", "checkout.timeout", config.Scalar("duration"), config.DefaultValue("30s")),
		inject.PropertySite("shop.Checkout", "gateway", "checkout.gateway", config.Custom("url"), config.NoDefault()),
		inject.PropertySite("shop.Checkout", "retries", "checkout.retries", config.Supplier(config.Scalar("int")), config.DefaultValue("3")),
		inject.MappingInjection("shop.Checkout", "admin", ServerConfig, "admin"),
	}
}

func (p *CheckoutServiceProvider) Register(app *container.Container) {
	app.Singleton("checkout", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		timeout, err := cfg.Resolve("checkout.timeout", config.Scalar("duration"), config.DefaultValue("30s"))
		if err != nil {
			return nil, err
		}
		urls, err := container.Resolve[*inject.ResolverEntry](c, inject.ResolverKey(config.Custom("url")))
		if err != nil {
			return nil, err
		}
		gateway, err := urls.Resolve("checkout.gateway", config.NoDefault())
		if err != nil {
			return nil, err
		}
		retries, err := cfg.Resolve("checkout.retries", config.Supplier(config.Scalar("int")), config.DefaultValue("3"))
		if err != nil {
			return nil, err
		}
		admin, err := container.Resolve[*inject.MappingHandler](c, inject.MappingKey(ServerConfig, "admin"))
		if err != nil {
			return nil, err
		}
		adminValues, err := admin.Values()
		if err != nil {
			return nil, err
		}
		return &Checkout{
			Timeout: timeout.(time.Duration),
			Gateway: gateway.(*url.URL),
			Retries: retries.(config.SupplierFunc),
			Admin:   adminValues,
		}, nil
	})
}

func routes(application *app.Application) {
	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome to the shop"})
	})

	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/checkout", func(w http.ResponseWriter, _ *http.Request) {
			res := gohttp.NewResponse(w)
			checkout, err := container.Resolve[*Checkout](application.Container, "checkout")
			if err != nil {
				res.ServerError(err.Error())
				return
			}
			retries, err := checkout.Retries()
			if err != nil {
				res.ServerError(err.Error())
				return
			}
			res.Success(map[string]any{
				"timeout": checkout.Timeout.String(),
				"gateway": checkout.Gateway.Host,
				"retries": retries,
				"admin":   fmt.Sprintf("%s:%d", checkout.Admin.String("host"), checkout.Admin.Int("port")),
			})
		})
	})
}

func main() {
	application := app.New(nil)
	if err := application.Register(&CheckoutServiceProvider{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	application.Declare(storefront{})

	if err := application.Boot(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	routes(application)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := application.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
