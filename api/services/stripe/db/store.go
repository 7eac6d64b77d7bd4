package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

// Store is the Postgres-backed host store: payment method config args, the
// customer's stripeCustomerId field and the webhook event log.
type Store struct {
	db              *sql.DB
	staleClaimAfter time.Duration
}

// DefaultStaleClaimAfter is how long a claimed but unfinished event blocks
// redeliveries before a new Claim may take it over.
const DefaultStaleClaimAfter = 15 * time.Minute

var (
	_ stripeapp.Store    = (*Store)(nil)
	_ stripeapp.EventLog = (*Store)(nil)
)

func New(db *sql.DB) *Store {
	return &Store{db: db, staleClaimAfter: DefaultStaleClaimAfter}
}

// WithStaleClaimAfter returns a copy of s that takes over pending claims older than d.
func (s *Store) WithStaleClaimAfter(d time.Duration) *Store {
	c := *s
	c.staleClaimAfter = d
	return &c
}

// PaymentMethodArgs returns the config args stored for the payment method code.
func (s *Store) PaymentMethodArgs(ctx context.Context, code string) ([]stripeapp.ConfigArg, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM payment_method WHERE code = $1)`, code,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%w: looking up payment method %s: %v", stripeapp.ErrDatabase, code, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: code %q", stripeapp.ErrPaymentMethodNotFound, code)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM payment_method_arg WHERE payment_method_code = $1 ORDER BY name`, code)
	if err != nil {
		return nil, fmt.Errorf("%w: loading args for %s: %v", stripeapp.ErrDatabase, code, err)
	}
	defer rows.Close()

	var args []stripeapp.ConfigArg
	for rows.Next() {
		var a stripeapp.ConfigArg
		if err := rows.Scan(&a.Name, &a.Value); err != nil {
			return nil, fmt.Errorf("%w: scanning arg: %v", stripeapp.ErrDatabase, err)
		}
		args = append(args, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating args: %v", stripeapp.ErrDatabase, err)
	}
	return args, nil
}

// SavePaymentMethodArgs creates the payment method if needed and upserts args.
func (s *Store) SavePaymentMethodArgs(ctx context.Context, code string, args []stripeapp.ConfigArg) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", stripeapp.ErrDatabase, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO payment_method (code) VALUES ($1) ON CONFLICT (code) DO NOTHING`, code,
	); err != nil {
		return fmt.Errorf("%w: inserting payment method: %v", stripeapp.ErrDatabase, err)
	}
	for _, a := range args {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payment_method_arg (payment_method_code, name, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (payment_method_code, name) DO UPDATE SET value = EXCLUDED.value`,
			code, a.Name, a.Value,
		); err != nil {
			return fmt.Errorf("%w: upserting arg %s: %v", stripeapp.ErrDatabase, a.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", stripeapp.ErrDatabase, err)
	}
	return nil
}

// StripeCustomerID returns the customer's stripeCustomerId, or "" if unset.
func (s *Store) StripeCustomerID(ctx context.Context, customerID string) (string, error) {
	var id sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT stripe_customer_id FROM customer_custom_field WHERE customer_id = $1`, customerID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id.String, nil
}

func (s *Store) SetStripeCustomerID(ctx context.Context, customerID, stripeCustomerID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customer_custom_field (customer_id, stripe_customer_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (customer_id) DO UPDATE
		SET stripe_customer_id = EXCLUDED.stripe_customer_id, updated_at = NOW()`,
		customerID, stripeCustomerID,
	)
	return err
}

// Claim inserts the event. A conflicting row means it was already delivered,
// unless that delivery never finished and was claimed longer ago than the
// stale window, in which case the claim is taken over.
func (s *Store) Claim(ctx context.Context, eventID, eventType string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO stripe_webhook_event (event_id, event_type)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO UPDATE
		SET event_type = EXCLUDED.event_type, received_at = NOW()
		WHERE stripe_webhook_event.processed_at IS NULL
		  AND stripe_webhook_event.received_at < NOW() - make_interval(secs => $3)
		RETURNING event_id`,
		eventID, eventType, s.staleClaimAfter.Seconds(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Complete(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE stripe_webhook_event SET processed_at = NOW() WHERE event_id = $1`, eventID)
	return err
}

func (s *Store) Release(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM stripe_webhook_event WHERE event_id = $1 AND processed_at IS NULL`, eventID)
	return err
}
