package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	"github.com/tbeaudouin05/stripe-plugin/api/middleware"
	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

type stubService struct{ stripeapp.Service }

func (stubService) Code() string { return "stripe" }

func TestPlugin_Configure(t *testing.T) {
	existing := stripeapp.CustomFieldDefinition{Name: "loyaltyId", Type: stripeapp.ArgTypeString}
	cfg := &HostConfig{CustomerFields: []stripeapp.CustomFieldDefinition{existing}}

	p := Plugin{Handler: stubService{}, WebhookPath: "/stripe/webhook"}
	got := p.Configure(cfg)

	require.Same(t, cfg, got)
	require.Len(t, got.PaymentMethodHandlers, 1)
	assert.Equal(t, "stripe", got.PaymentMethodHandlers[0].Code())
	assert.Equal(t, []stripeapp.CustomFieldDefinition{
		existing,
		{Name: stripeapp.StripeCustomerIDField, Type: stripeapp.ArgTypeString, Public: true, Nullable: true},
	}, got.CustomerFields)

	require.Len(t, got.Middleware, 1)
	assert.Equal(t, "/stripe/webhook", got.Middleware[0].Route)

	// the registered middleware is the raw body capture
	var captured bool
	h := got.Middleware[0].Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, captured = middleware.RawBodyFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader("{}"))
	req.Header.Set(config.StripeSignatureHeader, "t=1,v1=x")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, captured)
}

func TestPlugin_ConfigureNil(t *testing.T) {
	got := Plugin{WebhookPath: "/hooks"}.Configure(nil)
	require.NotNil(t, got)
	assert.Empty(t, got.PaymentMethodHandlers)
	assert.Len(t, got.CustomerFields, 1)
}

func TestInit_InjectedServiceSkipsWiring(t *testing.T) {
	prev := GetStripeService()
	t.Cleanup(func() { SetStripeService(prev) })

	SetStripeService(stubService{})
	require.NoError(t, Init())
	assert.Equal(t, "stripe", GetStripeService().Code())
	assert.Equal(t, "stripe", NewPlugin("/x").Handler.Code())
}

func TestNewEventLog_PostgresWhenNoRedis(t *testing.T) {
	events, err := newEventLog(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, stripeapp.EventLog(store), events)
}
