package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	bootstrap "github.com/tbeaudouin05/stripe-plugin/api/bootstrap"
	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	"github.com/tbeaudouin05/stripe-plugin/api/middleware"
	"github.com/tbeaudouin05/stripe-plugin/api/router"
	grpcserver "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/grpc"
)

const (
	shutdownTimeout       = 30 * time.Second
	visitorCleanupEvery   = time.Minute
	httpReadHeaderTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook over HTTP and the payment method handler over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if err := bootstrap.Ensure(); err != nil {
		return err
	}
	defer func() {
		if err := bootstrap.Close(); err != nil {
			slog.Error("failed to close connections", "err", err)
		}
	}()

	cfg := config.AppConfig
	logger := slog.Default()
	svc := bootstrap.GetStripeService()

	// One Server for both listeners so Shutdown flips /healthz and grpc.health together.
	handlerServer := grpcserver.New(svc)

	limiter := middleware.NewRateLimiter(cfg.WebhookRateLimit, cfg.WebhookRateBurst)
	handler, err := router.NewHandler(svc, router.Options{
		WebhookPath: cfg.WebhookPath,
		RateLimiter: limiter,
		Server:      handlerServer,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: httpReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryLogging(logger)))
	handlerServer.Register(grpcServer)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc on :%s: %w", cfg.GRPCPort, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limiter.Cleanup(gctx, visitorCleanupEvery)
		return nil
	})
	g.Go(func() error {
		logger.InfoContext(gctx, "starting http server", "port", cfg.HTTPPort, "webhook_path", cfg.WebhookPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.InfoContext(gctx, "starting grpc server", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, initiating graceful shutdown")
		handlerServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		httpErr := httpServer.Shutdown(shutdownCtx)
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
		if httpErr != nil {
			return fmt.Errorf("http server shutdown failed: %w", httpErr)
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}
