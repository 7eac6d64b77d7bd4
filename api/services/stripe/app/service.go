package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	"github.com/tbeaudouin05/stripe-plugin/api/logger"
	gw "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/gateway"
)

const description = "Stripe Payment Gateway"

// Service defines the business operations of the Stripe payment method: the
// handler callbacks the host invokes and the webhook it forwards.
type Service interface {
	Code() string
	Description() string
	PaymentMethodArgs(ctx context.Context) (PaymentMethodArgs, error)
	CreatePayment(ctx context.Context, order Order, args PaymentMethodArgs, metadata Metadata) (CreatePaymentResult, error)
	SettlePayment(ctx context.Context, order Order, payment Payment, args PaymentMethodArgs) (SettlePaymentResult, error)
	CreateRefund(ctx context.Context, input RefundInput, total int64, order Order, payment Payment, args PaymentMethodArgs) (CreateRefundResult, error)
	HandleWebhook(ctx context.Context, req WebhookRequest) (WebhookResponse, error)
}

type serviceImpl struct {
	newGateway gw.Factory
	store      Store
	events     EventLog
	newKey     func() string
}

// NewService wires the payment method to Stripe through newGateway and to the
// host through store. events deduplicates webhook deliveries.
func NewService(newGateway gw.Factory, store Store, events EventLog) Service {
	return serviceImpl{
		newGateway: newGateway,
		store:      store,
		events:     events,
		newKey:     uuid.NewString,
	}
}

func (serviceImpl) Code() string        { return config.PaymentMethodCode }
func (serviceImpl) Description() string { return description }

// PaymentMethodArgs loads and parses the stripe payment method's config args.
func (s serviceImpl) PaymentMethodArgs(ctx context.Context) (PaymentMethodArgs, error) {
	raw, err := s.store.PaymentMethodArgs(ctx, config.PaymentMethodCode)
	if err != nil {
		return PaymentMethodArgs{}, err
	}
	return ParseArgs(raw)
}

// CreatePayment charges the order. Stripe and store failures come back as a
// result in the Error state; a Go error means the order itself was unusable.
func (s serviceImpl) CreatePayment(ctx context.Context, order Order, args PaymentMethodArgs, metadata Metadata) (CreatePaymentResult, error) {
	log := logger.FromContext(ctx).With("order_code", order.Code)
	if order.Total <= 0 {
		return CreatePaymentResult{}, fmt.Errorf("%w: total must be positive, got %d", ErrInvalidOrder, order.Total)
	}
	if order.CurrencyCode == "" {
		return CreatePaymentResult{}, fmt.Errorf("%w: currency code is required", ErrInvalidOrder)
	}

	failed := func(err error) (CreatePaymentResult, error) {
		log.ErrorContext(ctx, "stripe create payment failed", "err", err)
		return CreatePaymentResult{Amount: order.Total, State: PaymentStateError, ErrorMessage: errorMessage(err)}, nil
	}

	pmID := paymentMethodID(metadata)
	if pmID == "" {
		return failed(fmt.Errorf("%w: metadata.paymentMethod.id is required", ErrBadEvent))
	}

	gateway := s.newGateway(args.SecretKey())

	stripeCustomerID, err := s.ensureStripeCustomer(ctx, gateway, order.Customer, args)
	if err != nil {
		return failed(err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(order.Total),
		Currency:           stripe.String(strings.ToLower(order.CurrencyCode)),
		PaymentMethod:      stripe.String(pmID),
		CaptureMethod:      stripe.String(string(args.captureMethod())),
		ConfirmationMethod: stripe.String(string(args.confirmationMethod())),
		Confirm:            stripe.Bool(true),
	}
	if stripeCustomerID != "" {
		params.Customer = stripe.String(stripeCustomerID)
	}
	if args.StatementDescriptor != "" {
		params.StatementDescriptor = stripe.String(args.StatementDescriptor)
	}
	if args.EnableReceipts && order.Customer != nil && order.Customer.EmailAddress != "" {
		params.ReceiptEmail = stripe.String(order.Customer.EmailAddress)
	}
	params.AddMetadata("order_code", order.Code)
	params.SetIdempotencyKey(s.newKey())

	intent, err := gateway.CreatePaymentIntent(ctx, params)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrGateway, err))
	}

	state := PaymentStateAuthorized
	if args.AutomaticCapture {
		state = PaymentStateSettled
	}
	log.InfoContext(ctx, "stripe payment created", "payment_intent", intent.ID, "state", state)
	return CreatePaymentResult{
		Amount:        order.Total,
		State:         state,
		TransactionID: intent.ID,
		Metadata:      toMetadata(intent),
	}, nil
}

// ensureStripeCustomer returns the customer's Stripe id, creating the Stripe
// customer first when customers are enabled and none is recorded yet.
func (s serviceImpl) ensureStripeCustomer(ctx context.Context, gateway gw.StripeGateway, customer *Customer, args PaymentMethodArgs) (string, error) {
	if customer == nil {
		return "", nil
	}
	if customer.StripeCustomerID != "" {
		return customer.StripeCustomerID, nil
	}
	if customer.ID != "" {
		id, err := s.store.StripeCustomerID(ctx, customer.ID)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrDatabase, err)
		}
		if id != "" {
			customer.StripeCustomerID = id
			return id, nil
		}
	}
	if !args.EnableCustomers {
		return "", nil
	}

	params := &stripe.CustomerParams{}
	if customer.EmailAddress != "" {
		params.Email = stripe.String(customer.EmailAddress)
	}
	if name := customerName(customer); name != "" {
		params.Name = stripe.String(name)
	}
	if customer.ID != "" {
		params.AddMetadata("customer_id", customer.ID)
	}
	params.SetIdempotencyKey(s.newKey())

	created, err := gateway.CreateCustomer(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGateway, err)
	}
	customer.StripeCustomerID = created.ID
	if customer.ID != "" {
		if err := s.store.SetStripeCustomerID(ctx, customer.ID, created.ID); err != nil {
			return "", fmt.Errorf("%w: %w", ErrDatabase, err)
		}
	}
	logger.FromContext(ctx).InfoContext(ctx, "stripe customer created", "customer_id", customer.ID, "stripe_customer_id", created.ID)
	return created.ID, nil
}

// SettlePayment captures an authorized PaymentIntent for the order total.
func (s serviceImpl) SettlePayment(ctx context.Context, order Order, payment Payment, args PaymentMethodArgs) (SettlePaymentResult, error) {
	log := logger.FromContext(ctx).With("order_code", order.Code, "payment_id", payment.ID)
	intentID := paymentIntentID(payment)
	if intentID == "" {
		log.ErrorContext(ctx, "stripe settle payment failed: no payment intent on payment")
		return SettlePaymentResult{Success: false, ErrorMessage: "payment has no Stripe payment intent"}, nil
	}

	params := &stripe.PaymentIntentCaptureParams{AmountToCapture: stripe.Int64(order.Total)}
	params.SetIdempotencyKey(s.newKey())

	intent, err := s.newGateway(args.SecretKey()).CapturePaymentIntent(ctx, intentID, params)
	if err != nil {
		log.ErrorContext(ctx, "stripe settle payment failed", "payment_intent", intentID, "err", err)
		res := SettlePaymentResult{Success: false, ErrorMessage: errorMessage(err)}
		if stripeErr, ok := asStripeError(err); ok {
			res.Metadata = toMetadata(stripeErr)
		}
		return res, nil
	}

	log.InfoContext(ctx, "stripe payment settled", "payment_intent", intent.ID)
	return SettlePaymentResult{Success: true, Metadata: toMetadata(intent)}, nil
}

// CreateRefund refunds total against the payment's PaymentIntent.
func (s serviceImpl) CreateRefund(ctx context.Context, input RefundInput, total int64, order Order, payment Payment, args PaymentMethodArgs) (CreateRefundResult, error) {
	log := logger.FromContext(ctx).With("order_code", order.Code, "payment_id", payment.ID)
	intentID := paymentIntentID(payment)
	if intentID == "" {
		log.ErrorContext(ctx, "stripe refund failed: no payment intent on payment")
		return CreateRefundResult{
			State:         RefundStateFailed,
			TransactionID: payment.TransactionID,
			Metadata:      Metadata{"errorMessage": "payment has no Stripe payment intent"},
		}, nil
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(total),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	if input.Reason != "" {
		params.AddMetadata("reason", input.Reason)
	}
	params.SetIdempotencyKey(s.newKey())

	refund, err := s.newGateway(args.SecretKey()).CreateRefund(ctx, params)
	if err != nil {
		log.ErrorContext(ctx, "stripe refund failed", "payment_intent", intentID, "err", err)
		stripeErr, ok := asStripeError(err)
		if ok && stripeErr.Type == stripe.ErrorTypeInvalidRequest && stripeErr.Code == errCodeChargeAlreadyRefunded {
			return CreateRefundResult{
				State:         RefundStateFailed,
				TransactionID: payment.TransactionID,
				Metadata:      Metadata{"response": toMetadata(stripeErr)},
			}, nil
		}
		return CreateRefundResult{
			State:         RefundStateFailed,
			TransactionID: payment.TransactionID,
			Metadata:      Metadata{"errorMessage": errorMessage(err)},
		}, nil
	}

	if refund.Status == stripe.RefundStatusFailed {
		log.WarnContext(ctx, "stripe refund failed", "refund_id", refund.ID)
		return CreateRefundResult{State: RefundStateFailed, TransactionID: refund.ID, Metadata: toMetadata(refund)}, nil
	}

	log.InfoContext(ctx, "stripe refund created", "refund_id", refund.ID, "status", refund.Status)
	return CreateRefundResult{State: RefundStateSettled, TransactionID: refund.ID, Metadata: toMetadata(refund)}, nil
}
