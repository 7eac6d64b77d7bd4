package grpcserver

import (
	"context"

	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

// fakeService records what the transport passed in and returns canned results.
type fakeService struct {
	args    stripeapp.PaymentMethodArgs
	argsErr error

	createRes stripeapp.CreatePaymentResult
	createErr error
	settleRes stripeapp.SettlePaymentResult
	refundRes stripeapp.CreateRefundResult

	webhookRes stripeapp.WebhookResponse
	webhookErr error

	gotOrder    stripeapp.Order
	gotMetadata stripeapp.Metadata
	gotPayment  stripeapp.Payment
	gotRefund   stripeapp.RefundInput
	gotTotal    int64
	gotWebhook  stripeapp.WebhookRequest
}

func (f *fakeService) Code() string        { return "stripe" }
func (f *fakeService) Description() string { return "Stripe Payment Gateway" }

func (f *fakeService) PaymentMethodArgs(context.Context) (stripeapp.PaymentMethodArgs, error) {
	return f.args, f.argsErr
}

func (f *fakeService) CreatePayment(_ context.Context, order stripeapp.Order, _ stripeapp.PaymentMethodArgs, metadata stripeapp.Metadata) (stripeapp.CreatePaymentResult, error) {
	f.gotOrder, f.gotMetadata = order, metadata
	return f.createRes, f.createErr
}

func (f *fakeService) SettlePayment(_ context.Context, order stripeapp.Order, payment stripeapp.Payment, _ stripeapp.PaymentMethodArgs) (stripeapp.SettlePaymentResult, error) {
	f.gotOrder, f.gotPayment = order, payment
	return f.settleRes, nil
}

func (f *fakeService) CreateRefund(_ context.Context, input stripeapp.RefundInput, total int64, order stripeapp.Order, payment stripeapp.Payment, _ stripeapp.PaymentMethodArgs) (stripeapp.CreateRefundResult, error) {
	f.gotRefund, f.gotTotal, f.gotOrder, f.gotPayment = input, total, order, payment
	return f.refundRes, nil
}

func (f *fakeService) HandleWebhook(_ context.Context, req stripeapp.WebhookRequest) (stripeapp.WebhookResponse, error) {
	f.gotWebhook = req
	return f.webhookRes, f.webhookErr
}
