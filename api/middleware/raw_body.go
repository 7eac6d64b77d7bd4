package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
)

type rawBodyKey struct{}

// RawBody keeps the exact request bytes of signed Stripe deliveries so the
// signature can be checked against them after the body has been decoded.
// Requests without a Stripe-Signature header pass through untouched.
func RawBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(config.StripeSignatureHeader) == "" || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, config.MaxWebhookBodyBytes+1))
		_ = r.Body.Close()
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if len(body) > config.MaxWebhookBodyBytes {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), rawBodyKey{}, body)))
	})
}

// RawBodyFromContext returns the bytes captured by RawBody.
func RawBodyFromContext(ctx context.Context) ([]byte, bool) {
	b, ok := ctx.Value(rawBodyKey{}).([]byte)
	return b, ok
}
