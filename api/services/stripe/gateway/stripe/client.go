package stripegw

import (
	"context"

	stripe "github.com/stripe/stripe-go"
	stripeclient "github.com/stripe/stripe-go/client"

	gw "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/gateway"
)

const (
	appName    = "StripePaymentPlugin"
	appVersion = "0.1.0"
	appURL     = "https://github.com/tbeaudouin05/stripe-plugin"
)

// SetAppInfo identifies the plugin in Stripe's User-Agent once during bootstrap.
func SetAppInfo() {
	stripe.SetAppInfo(&stripe.AppInfo{Name: appName, Version: appVersion, URL: appURL})
}

// client is the Stripe SDK-backed implementation of the gateway.
type client struct{ api *stripeclient.API }

// New returns a StripeGateway backed by the official Stripe SDK and authenticated with key.
func New(key string) gw.StripeGateway {
	return client{api: stripeclient.New(key, nil)}
}

// Factory builds gateways on demand; it satisfies gateway.Factory.
func Factory(key string) gw.StripeGateway { return New(key) }

func (c client) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (stripe.Customer, error) {
	params.Context = ctx
	custPtr, err := c.api.Customers.New(params)
	if err != nil {
		return stripe.Customer{}, err
	}
	if custPtr == nil {
		return stripe.Customer{}, nil
	}
	return *custPtr, nil
}

func (c client) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (stripe.PaymentIntent, error) {
	params.Context = ctx
	piPtr, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return stripe.PaymentIntent{}, err
	}
	if piPtr == nil {
		return stripe.PaymentIntent{}, nil
	}
	return *piPtr, nil
}

func (c client) CapturePaymentIntent(ctx context.Context, id string, params *stripe.PaymentIntentCaptureParams) (stripe.PaymentIntent, error) {
	params.Context = ctx
	piPtr, err := c.api.PaymentIntents.Capture(id, params)
	if err != nil {
		return stripe.PaymentIntent{}, err
	}
	if piPtr == nil {
		return stripe.PaymentIntent{}, nil
	}
	return *piPtr, nil
}

func (c client) CreateRefund(ctx context.Context, params *stripe.RefundParams) (stripe.Refund, error) {
	params.Context = ctx
	refPtr, err := c.api.Refunds.New(params)
	if err != nil {
		return stripe.Refund{}, err
	}
	if refPtr == nil {
		return stripe.Refund{}, nil
	}
	return *refPtr, nil
}
