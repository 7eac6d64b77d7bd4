package app

// PaymentState is the host payment state a handler result moves the payment to.
type PaymentState string

// RefundState is the host refund state a refund result moves the refund to.
type RefundState string

const (
	PaymentStateAuthorized PaymentState = "Authorized"
	PaymentStateSettled    PaymentState = "Settled"
	PaymentStateDeclined   PaymentState = "Declined"
	PaymentStateError      PaymentState = "Error"
)

const (
	RefundStatePending RefundState = "Pending"
	RefundStateSettled RefundState = "Settled"
	RefundStateFailed  RefundState = "Failed"
)

// Metadata is an opaque JSON object stored by the host next to a payment.
type Metadata map[string]any

// Customer carries the host customer fields the plugin reads and writes.
type Customer struct {
	ID               string `json:"id"`
	EmailAddress     string `json:"emailAddress"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`
}

// Order is the subset of a host order needed to charge it. Total is in minor units.
type Order struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Total        int64     `json:"total"`
	CurrencyCode string    `json:"currencyCode"`
	Customer     *Customer `json:"customer,omitempty"`
}

// Payment is the host payment a settle or refund acts on.
type Payment struct {
	ID            string   `json:"id"`
	Amount        int64    `json:"amount"`
	State         string   `json:"state"`
	TransactionID string   `json:"transactionId"`
	Metadata      Metadata `json:"metadata,omitempty"`
}

// RefundInput is what the host knows about the refund being requested.
type RefundInput struct {
	PaymentID string `json:"paymentId"`
	Reason    string `json:"reason,omitempty"`
}

type CreatePaymentResult struct {
	Amount        int64        `json:"amount"`
	State         PaymentState `json:"state"`
	TransactionID string       `json:"transactionId,omitempty"`
	ErrorMessage  string       `json:"errorMessage,omitempty"`
	Metadata      Metadata     `json:"metadata,omitempty"`
}

type SettlePaymentResult struct {
	Success      bool     `json:"success"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
	Metadata     Metadata `json:"metadata,omitempty"`
}

type CreateRefundResult struct {
	State         RefundState `json:"state"`
	TransactionID string      `json:"transactionId,omitempty"`
	Metadata      Metadata    `json:"metadata,omitempty"`
}

// WebhookRequest is a webhook delivery as received: the exact body bytes and
// the Stripe-Signature header.
type WebhookRequest struct {
	Body      []byte
	Signature string
}

// WebhookResponse acknowledges a delivery to Stripe.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// CustomFieldDefinition describes a custom field the plugin adds to a host entity.
type CustomFieldDefinition struct {
	Name     string  `json:"name"`
	Type     ArgType `json:"type"`
	Public   bool    `json:"public"`
	Nullable bool    `json:"nullable"`
}

// StripeCustomerIDField is the custom customer field holding the Stripe customer id.
const StripeCustomerIDField = "stripeCustomerId"

// CustomerFields returns the custom fields the plugin adds to the host customer.
func CustomerFields() []CustomFieldDefinition {
	return []CustomFieldDefinition{
		{Name: StripeCustomerIDField, Type: ArgTypeString, Public: true, Nullable: true},
	}
}
