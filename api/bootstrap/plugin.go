package bootstrap

import (
	"net/http"

	"github.com/tbeaudouin05/stripe-plugin/api/middleware"
	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

// RouteMiddleware is HTTP middleware the host mounts in front of Route.
type RouteMiddleware struct {
	Route   string
	Handler func(http.Handler) http.Handler
}

// HostConfig is the part of the host configuration the plugin extends.
type HostConfig struct {
	PaymentMethodHandlers []stripeapp.Service
	CustomerFields        []stripeapp.CustomFieldDefinition
	Middleware            []RouteMiddleware
}

// Plugin is what the Stripe integration contributes to the host: a payment
// method handler, the stripeCustomerId customer field, the raw body capture
// and the webhook route.
type Plugin struct {
	Handler     stripeapp.Service
	WebhookPath string
}

// NewPlugin builds the plugin from the wired service. Call after Ensure.
func NewPlugin(webhookPath string) Plugin {
	return Plugin{Handler: GetStripeService(), WebhookPath: webhookPath}
}

// Configure registers the plugin's contributions on cfg and returns it.
func (p Plugin) Configure(cfg *HostConfig) *HostConfig {
	if cfg == nil {
		cfg = &HostConfig{}
	}
	if p.Handler != nil {
		cfg.PaymentMethodHandlers = append(cfg.PaymentMethodHandlers, p.Handler)
	}
	cfg.CustomerFields = append(cfg.CustomerFields, stripeapp.CustomerFields()...)
	cfg.Middleware = append(cfg.Middleware, RouteMiddleware{Route: p.WebhookPath, Handler: middleware.RawBody})
	return cfg
}
