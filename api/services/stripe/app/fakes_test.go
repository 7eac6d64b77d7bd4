package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/golang/mock/gomock"
	stripe "github.com/stripe/stripe-go"

	gw "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/gateway"
	mock_gateway "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/gateway/mock"
)

type fakeStore struct {
	args      []ConfigArg
	argsErr   error
	customers map[string]string
	setErr    error
}

func (f *fakeStore) PaymentMethodArgs(_ context.Context, code string) ([]ConfigArg, error) {
	if f.argsErr != nil {
		return nil, f.argsErr
	}
	return f.args, nil
}

func (f *fakeStore) StripeCustomerID(_ context.Context, customerID string) (string, error) {
	return f.customers[customerID], nil
}

func (f *fakeStore) SetStripeCustomerID(_ context.Context, customerID, stripeCustomerID string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.customers == nil {
		f.customers = map[string]string{}
	}
	f.customers[customerID] = stripeCustomerID
	return nil
}

type fakeEventLog struct {
	claimed   map[string]string
	completed map[string]bool
	released  []string
}

func newFakeEventLog() *fakeEventLog {
	return &fakeEventLog{claimed: map[string]string{}, completed: map[string]bool{}}
}

func (f *fakeEventLog) Claim(_ context.Context, eventID, eventType string) (bool, error) {
	if _, ok := f.claimed[eventID]; ok {
		return false, nil
	}
	f.claimed[eventID] = eventType
	return true, nil
}

func (f *fakeEventLog) Complete(_ context.Context, eventID string) error {
	f.completed[eventID] = true
	return nil
}

func (f *fakeEventLog) Release(_ context.Context, eventID string) error {
	delete(f.claimed, eventID)
	f.released = append(f.released, eventID)
	return nil
}

// testService builds a service around a mock gateway and records the secret
// key every gateway was built with.
func testService(t *testing.T, store *fakeStore, events *fakeEventLog) (serviceImpl, *mock_gateway.MockStripeGateway, *[]string) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockGW := mock_gateway.NewMockStripeGateway(ctrl)
	var keys []string
	factory := func(key string) gw.StripeGateway {
		keys = append(keys, key)
		return mockGW
	}
	svc := NewService(factory, store, events).(serviceImpl)
	n := 0
	svc.newKey = func() string {
		n++
		return fmt.Sprintf("idem-%d", n)
	}
	return svc, mockGW, &keys
}

func testArgs() PaymentMethodArgs {
	return PaymentMethodArgs{
		TestMode:             true,
		TestSecretKey:        "sk_test_123",
		LiveSecretKey:        "sk_live_123",
		EnableWebhooks:       true,
		TestWebhookSecretKey: "whsec_test",
		LiveWebhookSecretKey: "whsec_live",
	}
}

// signPayload builds a Stripe-Signature header for payload the way Stripe does:
// t=<unix>,v1=hex(HMAC-SHA256(secret, "<unix>.<payload>")).
func signPayload(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", ts)))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(t *testing.T, id, eventType string, object map[string]any) []byte {
	t.Helper()
	raw, err := go_json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"created":     time.Now().Unix(),
		"livemode":    false,
		"data":        map[string]any{"object": object},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return raw
}
