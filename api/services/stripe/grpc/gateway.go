package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	"github.com/tbeaudouin05/stripe-plugin/api/logger"
	"github.com/tbeaudouin05/stripe-plugin/api/middleware"
	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

const HealthPath = "/healthz"

// HeaderMatcher forwards the Stripe signature and request id alongside the
// default grpc-gateway header set.
func HeaderMatcher(key string) (string, bool) {
	switch textproto.CanonicalMIMEHeaderKey(key) {
	case config.StripeSignatureHeader:
		return "stripe-signature", true
	case middleware.RequestIDHeader:
		return "x-request-id", true
	}
	return runtime.DefaultHeaderMatcher(key)
}

// RegisterGateway mounts the webhook and health routes on mux.
func RegisterGateway(_ context.Context, mux *runtime.ServeMux, srv *Server, webhookPath string) error {
	if err := mux.HandlePath(http.MethodPost, webhookPath, srv.handleWebhook(mux)); err != nil {
		return fmt.Errorf("register webhook route %s: %w", webhookPath, err)
	}
	if err := mux.HandlePath(http.MethodGet, HealthPath, srv.handleHealth(mux)); err != nil {
		return fmt.Errorf("register health route: %w", err)
	}
	return nil
}

func (s *Server) handleWebhook(mux *runtime.ServeMux) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		// HandlePath routes carry no ServerMetadata; runtime.HTTPError expects one.
		ctx := runtime.NewServerMetadataContext(r.Context(), runtime.ServerMetadata{})
		_, outbound := runtime.MarshalerForRequest(mux, r)

		body, ok := middleware.RawBodyFromContext(ctx)
		if !ok {
			var err error
			body, err = io.ReadAll(io.LimitReader(r.Body, config.MaxWebhookBodyBytes))
			if err != nil {
				runtime.HTTPError(ctx, mux, outbound, w, r, toStatus(fmt.Errorf("%w: read body: %v", stripeapp.ErrBadEvent, err)))
				return
			}
		}

		resp, err := s.svc.HandleWebhook(ctx, stripeapp.WebhookRequest{
			Body:      body,
			Signature: r.Header.Get(config.StripeSignatureHeader),
		})
		switch {
		case errors.Is(err, stripeapp.ErrUnknownEventType):
			w.WriteHeader(http.StatusBadRequest)
			return
		case errors.Is(err, stripeapp.ErrInvalidSignature):
			logger.FromContext(ctx).WarnContext(ctx, "stripe webhook signature rejected", "err", err)
			writeWebhookError(w, err)
			return
		case err != nil:
			logger.FromContext(ctx).WarnContext(ctx, "stripe webhook rejected", "err", err)
			runtime.HTTPError(ctx, mux, outbound, w, r, toStatus(err))
			return
		}

		msg, err := structpb.NewStruct(map[string]any{"received": resp.Received})
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, toStatus(err))
			return
		}
		writeMessage(ctx, w, outbound, msg)
	}
}

// writeWebhookError answers a failed signature check the way Stripe's own
// examples do: 400 with a plain text "Webhook Error: <msg>" body.
func writeWebhookError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = io.WriteString(w, "Webhook Error: "+err.Error())
}

func (s *Server) handleHealth(mux *runtime.ServeMux) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		ctx := runtime.NewServerMetadataContext(r.Context(), runtime.ServerMetadata{})
		_, outbound := runtime.MarshalerForRequest(mux, r)
		resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			w.Header().Set("Content-Type", outbound.ContentType(resp))
			w.WriteHeader(http.StatusServiceUnavailable)
			buf, _ := outbound.Marshal(resp)
			_, _ = w.Write(buf)
			return
		}
		writeMessage(ctx, w, outbound, resp)
	}
}

func writeMessage(ctx context.Context, w http.ResponseWriter, m runtime.Marshaler, msg proto.Message) {
	buf, err := m.Marshal(msg)
	if err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "failed to marshal response", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", m.ContentType(msg))
	_, _ = w.Write(buf)
}
