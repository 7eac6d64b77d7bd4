package app

import (
	"fmt"

	go_json "github.com/goccy/go-json"
	stripe "github.com/stripe/stripe-go"
)

// WarmCodecs compiles the go-json encoders and decoders for the Stripe types
// the service handles, so the first payment or webhook after start does not
// pay for it.
func WarmCodecs() error {
	for _, v := range []any{
		&stripe.PaymentIntent{},
		&stripe.Refund{},
		&stripe.Customer{},
		&stripe.Error{},
	} {
		raw, err := go_json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %T: %w", v, err)
		}
		var m Metadata
		if err := go_json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("decode %T as metadata: %w", v, err)
		}
	}
	for _, v := range []any{
		&stripe.Source{},
		&stripe.Charge{},
		&stripe.Dispute{},
		&stripe.Review{},
		&stripe.PaymentIntent{},
		&stripe.SetupIntent{},
	} {
		if err := go_json.Unmarshal([]byte(`{}`), v); err != nil {
			return fmt.Errorf("decode %T: %w", v, err)
		}
	}
	return nil
}
