package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"

	bootstrap "github.com/tbeaudouin05/stripe-plugin/api/bootstrap"
	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	"github.com/tbeaudouin05/stripe-plugin/api/middleware"
	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
	grpcserver "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/grpc"
)

// Options tunes the HTTP surface built by NewHandler.
type Options struct {
	WebhookPath string
	// RateLimiter throttles the webhook route when set. The caller owns its
	// Cleanup loop.
	RateLimiter *middleware.RateLimiter
	// Server backs the gateway routes. Pass the one registered on the gRPC
	// server so /healthz follows its Shutdown; nil builds a private one.
	Server *grpcserver.Server
	Logger *slog.Logger
}

// NewRouter returns the central HTTP router for the API using grpc-gateway,
// wired to the bootstrapped service and process config. It applies no rate
// limiting: a limiter needs a Cleanup loop tied to a process lifetime, which
// only the serve command has. Use NewHandler with Options.RateLimiter for that.
func NewRouter() http.Handler {
	// Initialize app dependencies (non-fatal if it fails here; requests re-check).
	if err := bootstrap.Ensure(); err != nil {
		slog.Error("bootstrap ensure failed", "err", err)
	}

	h, err := NewHandler(bootstrap.GetStripeService(), routerOptions(config.AppConfig))
	if err != nil {
		slog.Error("failed to register grpc-gateway", "err", err)
		return http.NotFoundHandler()
	}
	return h
}

func routerOptions(cfg *config.Config) Options {
	opts := Options{WebhookPath: "/stripe/webhook", Logger: slog.Default()}
	if cfg != nil {
		opts.WebhookPath = cfg.WebhookPath
	}
	return opts
}

// NewHandler mounts the webhook and health routes for svc. The webhook route
// gets the middleware the plugin registers on the host, plus rate limiting
// when opts.RateLimiter is set.
func NewHandler(svc stripeapp.Service, opts Options) (http.Handler, error) {
	if opts.WebhookPath == "" {
		opts.WebhookPath = "/stripe/webhook"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	mux := runtime.NewServeMux(runtime.WithIncomingHeaderMatcher(grpcserver.HeaderMatcher))
	srv := opts.Server
	if srv == nil {
		srv = grpcserver.New(svc)
	}
	if err := grpcserver.RegisterGateway(context.Background(), mux, srv, opts.WebhookPath); err != nil {
		return nil, fmt.Errorf("register gateway: %w", err)
	}

	host := bootstrap.Plugin{Handler: svc, WebhookPath: opts.WebhookPath}.Configure(&bootstrap.HostConfig{})

	routeMiddleware := map[string][]func(http.Handler) http.Handler{}
	if opts.RateLimiter != nil {
		routeMiddleware[opts.WebhookPath] = append(routeMiddleware[opts.WebhookPath], opts.RateLimiter.Middleware)
	}
	for _, m := range host.Middleware {
		routeMiddleware[m.Route] = append(routeMiddleware[m.Route], m.Handler)
	}

	root := http.NewServeMux()
	root.Handle("/", mux)
	for route, mws := range routeMiddleware {
		root.Handle(route, middleware.Chain(mux, mws...))
	}

	return middleware.Chain(root,
		middleware.Recovery,
		middleware.RequestID(opts.Logger),
		middleware.Logging,
	), nil
}
