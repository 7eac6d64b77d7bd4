package config

import "strings"

const (
	// ProdDbId marks production connection strings; tests refuse to run against them
	ProdDbId = "old-cloud"

	// PaymentMethodCode is the code the Stripe handler is registered under in the host
	PaymentMethodCode = "stripe"

	// StripeSignatureHeader carries the webhook signature computed by Stripe
	StripeSignatureHeader = "Stripe-Signature"

	// MaxWebhookBodyBytes caps the raw body kept for signature verification
	MaxWebhookBodyBytes = 1 << 20
)

// TB is the subset of testing.TB the production guard needs.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// CheckNotProdDB fails tb when the configured database or Redis URL contains ProdDbId.
// Call it at the start of any test that talks to a real backend.
func CheckNotProdDB(tb TB) {
	tb.Helper()
	cfg, err := LoadConfig()
	if err != nil {
		tb.Fatalf("failed to load config: %v", err)
		return
	}
	for name, url := range map[string]string{"DATABASE_URL": cfg.DatabaseURL, "REDIS_URL": cfg.RedisURL} {
		if strings.Contains(url, ProdDbId) {
			tb.Fatalf("tests aborted: %s contains production identifier %s", name, ProdDbId)
		}
	}
}
