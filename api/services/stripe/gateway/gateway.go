package gateway

import (
	"context"

	stripe "github.com/stripe/stripe-go"
)

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock_gateway

// StripeGateway abstracts Stripe SDK operations needed by the app layer.
// Methods return values (not pointers) to respect the project's preference
// to avoid pointer types in public interfaces.
type StripeGateway interface {
	CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (stripe.Customer, error)
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (stripe.PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, id string, params *stripe.PaymentIntentCaptureParams) (stripe.PaymentIntent, error)
	CreateRefund(ctx context.Context, params *stripe.RefundParams) (stripe.Refund, error)
}

// Factory returns a gateway authenticated with the given secret key. The key
// depends on the payment method's test/live mode, so it is chosen per call.
type Factory func(secretKey string) StripeGateway
