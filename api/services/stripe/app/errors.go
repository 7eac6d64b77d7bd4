package app

import "errors"

// Typed errors for the Stripe app layer. These enable HTTP and gRPC mapping
// without relying on SDK-specific error types at the transport layer.
var (
	// ErrBadEvent indicates the incoming event payload is invalid or missing required fields.
	ErrBadEvent = errors.New("bad event")
	// ErrDatabase indicates a database-related failure.
	ErrDatabase = errors.New("database error")
	// ErrGateway indicates a failure from the Stripe gateway / API calls.
	ErrGateway = errors.New("gateway error")

	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrUnknownEventType      = errors.New("unexpected event type")
	ErrWebhooksDisabled      = errors.New("stripe webhooks are disabled")
	ErrPaymentMethodNotFound = errors.New("could not find Stripe payment method")
	// ErrInvalidArgs indicates the payment method configuration cannot be used.
	ErrInvalidArgs = errors.New("invalid payment method args")
	// ErrInvalidOrder indicates the host passed an order Stripe cannot charge.
	ErrInvalidOrder = errors.New("invalid order")
)
