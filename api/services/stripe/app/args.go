package app

import (
	"fmt"
	"slices"
	"strconv"

	stripe "github.com/stripe/stripe-go"
)

type ArgType string

const (
	ArgTypeBoolean ArgType = "boolean"
	ArgTypeString  ArgType = "string"
)

// ArgDefinition is one entry of the payment method's config schema as the host
// renders it in its admin UI.
type ArgDefinition struct {
	Name  string  `json:"name"`
	Type  ArgType `json:"type"`
	Label string  `json:"label,omitempty"`
}

// ConfigArg is a name/value pair as stored by the host for a payment method.
type ConfigArg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const (
	ArgTestMode             = "stripeTestMode"
	ArgAutomaticCapture     = "stripeAutomaticCapture"
	ArgEnableReceipts       = "enableStripeReceipts"
	ArgTestPublishableKey   = "testPublishableKey"
	ArgTestSecretKey        = "testSecretKey"
	ArgLivePublishableKey   = "livePublishableKey"
	ArgLiveSecretKey        = "liveSecretKey"
	ArgStatementDescriptor  = "statementDescriptor"
	ArgEnableWebhooks       = "enableStripeWebhooks"
	ArgTestWebhookSecretKey = "testWebhookSecretKey"
	ArgLiveWebhookSecretKey = "liveWebhookSecretKey"
	ArgEnableCustomers      = "enableStripeCustomers"
)

var argDefinitions = []ArgDefinition{
	{Name: ArgTestMode, Type: ArgTypeBoolean, Label: "Enable Stripe Test Mode"},
	{Name: ArgAutomaticCapture, Type: ArgTypeBoolean, Label: "Enable Automatic Capture"},
	{Name: ArgEnableReceipts, Type: ArgTypeBoolean, Label: "Enable Stripe Receipts"},
	{Name: ArgTestPublishableKey, Type: ArgTypeString, Label: "Test Publishable Key"},
	{Name: ArgTestSecretKey, Type: ArgTypeString, Label: "Test Secret Key"},
	{Name: ArgLivePublishableKey, Type: ArgTypeString, Label: "Live Publishable Key"},
	{Name: ArgLiveSecretKey, Type: ArgTypeString, Label: "Live Secret Key"},
	{Name: ArgStatementDescriptor, Type: ArgTypeString, Label: "Statement Descriptor"},
	{Name: ArgEnableWebhooks, Type: ArgTypeBoolean, Label: "Enable Stripe Webhooks"},
	{Name: ArgTestWebhookSecretKey, Type: ArgTypeString, Label: "Test Webhook Secret Key"},
	{Name: ArgLiveWebhookSecretKey, Type: ArgTypeString, Label: "Live Webhook Secret Key"},
	{Name: ArgEnableCustomers, Type: ArgTypeBoolean, Label: "Enable Stripe Customers"},
}

// ArgDefinitions returns the payment method's config schema in display order.
func ArgDefinitions() []ArgDefinition {
	return slices.Clone(argDefinitions)
}

// PaymentMethodArgs is the typed view of the Stripe payment method's config args.
type PaymentMethodArgs struct {
	TestMode             bool
	AutomaticCapture     bool
	EnableReceipts       bool
	TestPublishableKey   string
	TestSecretKey        string
	LivePublishableKey   string
	LiveSecretKey        string
	StatementDescriptor  string
	EnableWebhooks       bool
	TestWebhookSecretKey string
	LiveWebhookSecretKey string
	EnableCustomers      bool
}

// ParseArgs folds the host's name/value list into PaymentMethodArgs.
// Unknown names are ignored; an empty boolean value means false.
func ParseArgs(args []ConfigArg) (PaymentMethodArgs, error) {
	var out PaymentMethodArgs
	bools := map[string]*bool{
		ArgTestMode:         &out.TestMode,
		ArgAutomaticCapture: &out.AutomaticCapture,
		ArgEnableReceipts:   &out.EnableReceipts,
		ArgEnableWebhooks:   &out.EnableWebhooks,
		ArgEnableCustomers:  &out.EnableCustomers,
	}
	strs := map[string]*string{
		ArgTestPublishableKey:   &out.TestPublishableKey,
		ArgTestSecretKey:        &out.TestSecretKey,
		ArgLivePublishableKey:   &out.LivePublishableKey,
		ArgLiveSecretKey:        &out.LiveSecretKey,
		ArgStatementDescriptor:  &out.StatementDescriptor,
		ArgTestWebhookSecretKey: &out.TestWebhookSecretKey,
		ArgLiveWebhookSecretKey: &out.LiveWebhookSecretKey,
	}

	for _, a := range args {
		if p, ok := bools[a.Name]; ok {
			if a.Value == "" {
				*p = false
				continue
			}
			v, err := strconv.ParseBool(a.Value)
			if err != nil {
				return PaymentMethodArgs{}, fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidArgs, a.Name, a.Value)
			}
			*p = v
			continue
		}
		if p, ok := strs[a.Name]; ok {
			*p = a.Value
		}
	}
	return out, nil
}

// SecretKey returns the API secret key for the configured mode.
func (a PaymentMethodArgs) SecretKey() string {
	if a.TestMode {
		return a.TestSecretKey
	}
	return a.LiveSecretKey
}

// PublishableKey returns the publishable key for the configured mode.
func (a PaymentMethodArgs) PublishableKey() string {
	if a.TestMode {
		return a.TestPublishableKey
	}
	return a.LivePublishableKey
}

// WebhookSecret returns the webhook signing secret for the configured mode.
func (a PaymentMethodArgs) WebhookSecret() string {
	if a.TestMode {
		return a.TestWebhookSecretKey
	}
	return a.LiveWebhookSecretKey
}

func (a PaymentMethodArgs) captureMethod() stripe.PaymentIntentCaptureMethod {
	if a.AutomaticCapture {
		return stripe.PaymentIntentCaptureMethodAutomatic
	}
	return stripe.PaymentIntentCaptureMethodManual
}

func (a PaymentMethodArgs) confirmationMethod() stripe.PaymentIntentConfirmationMethod {
	if a.AutomaticCapture {
		return stripe.PaymentIntentConfirmationMethodAutomatic
	}
	return stripe.PaymentIntentConfirmationMethodManual
}

// ToConfigArgs renders args back into the host's name/value form, in schema order.
func (a PaymentMethodArgs) ToConfigArgs() []ConfigArg {
	b := strconv.FormatBool
	values := map[string]string{
		ArgTestMode:             b(a.TestMode),
		ArgAutomaticCapture:     b(a.AutomaticCapture),
		ArgEnableReceipts:       b(a.EnableReceipts),
		ArgTestPublishableKey:   a.TestPublishableKey,
		ArgTestSecretKey:        a.TestSecretKey,
		ArgLivePublishableKey:   a.LivePublishableKey,
		ArgLiveSecretKey:        a.LiveSecretKey,
		ArgStatementDescriptor:  a.StatementDescriptor,
		ArgEnableWebhooks:       b(a.EnableWebhooks),
		ArgTestWebhookSecretKey: a.TestWebhookSecretKey,
		ArgLiveWebhookSecretKey: a.LiveWebhookSecretKey,
		ArgEnableCustomers:      b(a.EnableCustomers),
	}
	out := make([]ConfigArg, 0, len(argDefinitions))
	for _, d := range argDefinitions {
		out = append(out, ConfigArg{Name: d.Name, Value: values[d.Name]})
	}
	return out
}
