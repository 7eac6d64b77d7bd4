package app

import (
	"context"
	"fmt"
	"maps"
	"slices"

	go_json "github.com/goccy/go-json"
	stripe "github.com/stripe/stripe-go"

	"github.com/tbeaudouin05/stripe-plugin/api/logger"
)

type eventHandler func(ctx context.Context, event stripe.Event) error

// eventHandlers maps the Stripe event types the plugin subscribes to onto
// their handlers. Handlers only record the event; order and payment state
// transitions stay with the host.
var eventHandlers = map[string]eventHandler{
	"source.chargeable":                        logEvent("payment source chargeable", describeSource),
	"source.canceled":                          logEvent("payment source canceled", describeSource),
	"charge.succeeded":                         logEvent("charge succeeded", describeCharge),
	"charge.failed":                            logEvent("charge failed", describeCharge),
	"charge.captured":                          logEvent("charge captured", describeCharge),
	"charge.refunded":                          logEvent("charge refunded", describeCharge),
	"charge.dispute.created":                   logEvent("charge disputed", describeDispute),
	"review.opened":                            logEvent("review opened", describeReview),
	"review.closed":                            logEvent("review closed", describeReview),
	"payment_intent.succeeded":                 logEvent("payment intent updated", describePaymentIntent),
	"payment_intent.payment_failed":            logEvent("payment intent updated", describePaymentIntent),
	"payment_intent.amount_capturable_updated": logEvent("payment intent updated", describePaymentIntent),
	"setup_intent.succeeded":                   logEvent("setup intent updated", describeSetupIntent),
	"setup_intent.setup_failed":                logEvent("setup intent updated", describeSetupIntent),
}

// SupportedEventTypes lists the event types HandleWebhook accepts, sorted.
func SupportedEventTypes() []string {
	return slices.Sorted(maps.Keys(eventHandlers))
}

// logEvent decodes data.object as T and logs the attributes describe picks out.
func logEvent[T any](msg string, describe func(T) []any) eventHandler {
	return func(ctx context.Context, event stripe.Event) error {
		var obj T
		if err := decodeObject(event, &obj); err != nil {
			return err
		}
		logger.FromContext(ctx).InfoContext(ctx, msg, describe(obj)...)
		return nil
	}
}

func decodeObject(event stripe.Event, v any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return fmt.Errorf("%w: event %s has no data.object", ErrBadEvent, event.ID)
	}
	if err := go_json.Unmarshal(event.Data.Raw, v); err != nil {
		return fmt.Errorf("%w: decoding %s object: %v", ErrBadEvent, event.Type, err)
	}
	return nil
}

func describeSource(s stripe.Source) []any {
	return []any{"source_id", s.ID, "amount", s.Amount, "status", s.Status}
}

func describeCharge(c stripe.Charge) []any {
	return []any{
		"charge_id", c.ID,
		"amount", c.Amount,
		"amount_refunded", c.AmountRefunded,
		"currency", c.Currency,
		"paid", c.Paid,
		"captured", c.Captured,
		"failure_code", c.FailureCode,
	}
}

func describeDispute(d stripe.Dispute) []any {
	return []any{"dispute_id", d.ID, "amount", d.Amount, "reason", d.Reason, "status", d.Status}
}

func describeReview(r stripe.Review) []any {
	return []any{"review_id", r.ID, "open", r.Open, "reason", r.Reason}
}

func describePaymentIntent(pi stripe.PaymentIntent) []any {
	return []any{
		"payment_intent", pi.ID,
		"amount", pi.Amount,
		"amount_capturable", pi.AmountCapturable,
		"status", pi.Status,
	}
}

func describeSetupIntent(si stripe.SetupIntent) []any {
	return []any{"setup_intent", si.ID, "status", si.Status}
}
