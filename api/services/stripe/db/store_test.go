package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
	stripedb "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/db"
)

func newMockStore(t *testing.T) (*stripedb.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return stripedb.New(db), mock
}

func TestStore_PaymentMethodArgs(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM payment_method WHERE code = \$1\)`).
			WithArgs("stripe").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT name, value FROM payment_method_arg WHERE payment_method_code = \$1`).
			WithArgs("stripe").
			WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).
				AddRow("stripeTestMode", "true").
				AddRow("testSecretKey", "sk_test_1"))

		args, err := store.PaymentMethodArgs(ctx, "stripe")
		require.NoError(t, err)
		assert.Equal(t, []stripeapp.ConfigArg{
			{Name: "stripeTestMode", Value: "true"},
			{Name: "testSecretKey", Value: "sk_test_1"},
		}, args)
	})

	t.Run("NotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("stripe").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := store.PaymentMethodArgs(ctx, "stripe")
		assert.ErrorIs(t, err, stripeapp.ErrPaymentMethodNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("stripe").
			WillReturnError(errors.New("db down"))

		_, err := store.PaymentMethodArgs(ctx, "stripe")
		assert.ErrorIs(t, err, stripeapp.ErrDatabase)
	})
}

func TestStore_SavePaymentMethodArgs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payment_method \(code\) VALUES \(\$1\) ON CONFLICT \(code\) DO NOTHING`).
		WithArgs("stripe").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO payment_method_arg`).
		WithArgs("stripe", "stripeTestMode", "true").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO payment_method_arg`).
		WithArgs("stripe", "testSecretKey", "sk_test_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.SavePaymentMethodArgs(context.Background(), "stripe", []stripeapp.ConfigArg{
		{Name: "stripeTestMode", Value: "true"},
		{Name: "testSecretKey", Value: "sk_test_1"},
	})
	assert.NoError(t, err)
}

func TestStore_SavePaymentMethodArgs_RollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payment_method`).
		WithArgs("stripe").
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := store.SavePaymentMethodArgs(context.Background(), "stripe", nil)
	assert.ErrorIs(t, err, stripeapp.ErrDatabase)
}

func TestStore_StripeCustomerID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT stripe_customer_id FROM customer_custom_field WHERE customer_id = \$1`).
			WithArgs("cust-1").
			WillReturnRows(sqlmock.NewRows([]string{"stripe_customer_id"}).AddRow("cus_1"))

		id, err := store.StripeCustomerID(ctx, "cust-1")
		require.NoError(t, err)
		assert.Equal(t, "cus_1", id)
	})

	t.Run("Missing", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT stripe_customer_id`).
			WithArgs("cust-2").
			WillReturnError(sql.ErrNoRows)

		id, err := store.StripeCustomerID(ctx, "cust-2")
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("Null", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT stripe_customer_id`).
			WithArgs("cust-3").
			WillReturnRows(sqlmock.NewRows([]string{"stripe_customer_id"}).AddRow(nil))

		id, err := store.StripeCustomerID(ctx, "cust-3")
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}

func TestStore_SetStripeCustomerID(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO customer_custom_field`).
		WithArgs("cust-1", "cus_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.SetStripeCustomerID(context.Background(), "cust-1", "cus_1"))
}

func TestStore_EventLog(t *testing.T) {
	ctx := context.Background()

	t.Run("ClaimNew", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO stripe_webhook_event`).
			WithArgs("evt_1", "charge.succeeded", stripedb.DefaultStaleClaimAfter.Seconds()).
			WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow("evt_1"))

		claimed, err := store.Claim(ctx, "evt_1", "charge.succeeded")
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("ClaimDuplicate", func(t *testing.T) {
		store, mock := newMockStore(t)
		// a fresh or processed conflicting row is left alone and returns no rows
		mock.ExpectQuery(`INSERT INTO stripe_webhook_event`).
			WithArgs("evt_1", "charge.succeeded", stripedb.DefaultStaleClaimAfter.Seconds()).
			WillReturnError(sql.ErrNoRows)

		claimed, err := store.Claim(ctx, "evt_1", "charge.succeeded")
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("ClaimTakesOverStalePending", func(t *testing.T) {
		store, mock := newMockStore(t)
		store = store.WithStaleClaimAfter(time.Minute)
		mock.ExpectQuery(`ON CONFLICT \(event_id\) DO UPDATE[\s\S]*WHERE stripe_webhook_event.processed_at IS NULL\s+AND stripe_webhook_event.received_at < NOW\(\) - make_interval\(secs => \$3\)`).
			WithArgs("evt_1", "charge.succeeded", float64(60)).
			WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow("evt_1"))

		claimed, err := store.Claim(ctx, "evt_1", "charge.succeeded")
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("ClaimError", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO stripe_webhook_event`).
			WillReturnError(errors.New("db error"))

		_, err := store.Claim(ctx, "evt_1", "charge.succeeded")
		assert.Error(t, err)
	})

	t.Run("Complete", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE stripe_webhook_event SET processed_at = NOW\(\) WHERE event_id = \$1`).
			WithArgs("evt_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Complete(ctx, "evt_1"))
	})

	t.Run("Release", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM stripe_webhook_event WHERE event_id = \$1 AND processed_at IS NULL`).
			WithArgs("evt_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Release(ctx, "evt_1"))
	})
}
