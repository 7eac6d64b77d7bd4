package grpcserver

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

// toStatus maps app layer errors to gRPC status codes. grpc-gateway turns
// these into HTTP statuses on the webhook route.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, stripeapp.ErrInvalidSignature),
		errors.Is(err, stripeapp.ErrBadEvent),
		errors.Is(err, stripeapp.ErrUnknownEventType),
		errors.Is(err, stripeapp.ErrInvalidOrder):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, stripeapp.ErrWebhooksDisabled):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, stripeapp.ErrInvalidArgs):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, stripeapp.ErrGateway):
		return status.Error(codes.Unavailable, err.Error())
	default:
		// ErrPaymentMethodNotFound and ErrDatabase included
		return status.Error(codes.Internal, err.Error())
	}
}
