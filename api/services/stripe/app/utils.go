package app

import (
	"errors"
	"fmt"
	"strings"

	go_json "github.com/goccy/go-json"
	stripe "github.com/stripe/stripe-go"
)

// errCodeChargeAlreadyRefunded is returned by Stripe when refunding a fully refunded charge.
const errCodeChargeAlreadyRefunded stripe.ErrorCode = "charge_already_refunded"

// toMetadata converts a Stripe object into the opaque JSON object the host stores.
func toMetadata(v any) Metadata {
	raw, err := go_json.Marshal(v)
	if err != nil {
		return Metadata{"error": fmt.Sprintf("unencodable metadata: %v", err)}
	}
	var m Metadata
	if err := go_json.Unmarshal(raw, &m); err != nil {
		return Metadata{"error": fmt.Sprintf("metadata is not an object: %v", err)}
	}
	return m
}

// paymentMethodID extracts metadata.paymentMethod.id as sent by the storefront.
func paymentMethodID(metadata Metadata) string {
	pm, ok := metadata["paymentMethod"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := pm["id"].(string)
	return id
}

// paymentIntentID returns the PaymentIntent behind a host payment: its
// transaction id, or the id kept in its metadata for payments created before
// transaction ids were recorded.
func paymentIntentID(p Payment) string {
	if p.TransactionID != "" {
		return p.TransactionID
	}
	id, _ := p.Metadata["id"].(string)
	return id
}

func asStripeError(err error) (*stripe.Error, bool) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr, true
	}
	return nil, false
}

// errorMessage prefers Stripe's human readable message over the SDK's full error text.
func errorMessage(err error) string {
	if stripeErr, ok := asStripeError(err); ok && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}

func customerName(c *Customer) string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
