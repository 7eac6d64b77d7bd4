package app

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/webhook"

	"github.com/tbeaudouin05/stripe-plugin/api/logger"
)

// HandleWebhook verifies a Stripe delivery and dispatches it on its event type.
// A redelivered event is acknowledged without running its handler again.
func (s serviceImpl) HandleWebhook(ctx context.Context, req WebhookRequest) (WebhookResponse, error) {
	args, err := s.PaymentMethodArgs(ctx)
	if err != nil {
		return WebhookResponse{}, err
	}
	if !args.EnableWebhooks {
		return WebhookResponse{}, ErrWebhooksDisabled
	}
	secret := args.WebhookSecret()
	if secret == "" {
		return WebhookResponse{}, fmt.Errorf("%w: webhook secret is not configured", ErrInvalidArgs)
	}
	if req.Signature == "" {
		return WebhookResponse{}, fmt.Errorf("%w: missing Stripe-Signature header", ErrInvalidSignature)
	}

	event, err := webhook.ConstructEvent(req.Body, req.Signature, secret)
	if err != nil {
		return WebhookResponse{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	log := logger.FromContext(ctx).With("event_id", event.ID, "event_type", event.Type)
	handle, ok := eventHandlers[event.Type]
	if !ok {
		log.WarnContext(ctx, "unexpected stripe event type")
		return WebhookResponse{}, fmt.Errorf("%w: %s", ErrUnknownEventType, event.Type)
	}

	claimed, err := s.events.Claim(ctx, event.ID, event.Type)
	if err != nil {
		return WebhookResponse{}, fmt.Errorf("%w: claiming event: %v", ErrDatabase, err)
	}
	if !claimed {
		log.InfoContext(ctx, "duplicate stripe event ignored")
		return WebhookResponse{Received: true}, nil
	}

	if err := handle(logger.WithContext(ctx, log), event); err != nil {
		if relErr := s.events.Release(ctx, event.ID); relErr != nil {
			log.ErrorContext(ctx, "failed to release stripe event", "err", relErr)
		}
		return WebhookResponse{}, err
	}
	if err := s.events.Complete(ctx, event.ID); err != nil {
		// the handler ran; a failed bookkeeping write must not make Stripe retry it
		log.ErrorContext(ctx, "failed to mark stripe event processed", "err", err)
	}
	return WebhookResponse{Received: true}, nil
}
