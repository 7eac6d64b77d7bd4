package app

import "context"

// ConfigStore reads payment method config args from the host's config store.
// Implementations return ErrPaymentMethodNotFound when no method has the code.
type ConfigStore interface {
	PaymentMethodArgs(ctx context.Context, code string) ([]ConfigArg, error)
}

// CustomerStore reads and writes the customer's stripeCustomerId custom field.
// StripeCustomerID returns "" when the customer has none.
type CustomerStore interface {
	StripeCustomerID(ctx context.Context, customerID string) (string, error)
	SetStripeCustomerID(ctx context.Context, customerID, stripeCustomerID string) error
}

// Store is everything the service needs from the host's persistence.
type Store interface {
	ConfigStore
	CustomerStore
}

// EventLog records webhook deliveries so a redelivered event is handled once.
type EventLog interface {
	// Claim records eventID and reports whether this call was the first to do so.
	Claim(ctx context.Context, eventID, eventType string) (bool, error)
	// Complete marks a claimed event as handled.
	Complete(ctx context.Context, eventID string) error
	// Release drops an unfinished claim so a retry is handled again.
	Release(ctx context.Context, eventID string) error
}
