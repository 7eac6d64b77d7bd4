package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

// Server exposes the Stripe payment method handler to the host over gRPC and
// serves the webhook through grpc-gateway.
type Server struct {
	svc    stripeapp.Service
	health *health.Server
}

var _ PaymentMethodHandlerServer = (*Server)(nil)

func New(svc stripeapp.Service) *Server {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(PaymentMethodHandler_ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Server{svc: svc, health: h}
}

// Register adds the handler and health services to s.
func (s *Server) Register(gs *grpc.Server) {
	RegisterPaymentMethodHandlerServer(gs, s)
	healthpb.RegisterHealthServer(gs, s.health)
}

// Shutdown flips every health status to NOT_SERVING.
func (s *Server) Shutdown() { s.health.Shutdown() }

type createPaymentRequest struct {
	Order    stripeapp.Order    `json:"order"`
	Metadata stripeapp.Metadata `json:"metadata"`
}

type settlePaymentRequest struct {
	Order   stripeapp.Order   `json:"order"`
	Payment stripeapp.Payment `json:"payment"`
}

type createRefundRequest struct {
	Input   stripeapp.RefundInput `json:"input"`
	Total   int64                 `json:"total"`
	Order   stripeapp.Order       `json:"order"`
	Payment stripeapp.Payment     `json:"payment"`
}

type configSchema struct {
	Code         string                            `json:"code"`
	Description  string                            `json:"description"`
	Args         []stripeapp.ArgDefinition         `json:"args"`
	CustomFields []stripeapp.CustomFieldDefinition `json:"customFields"`
	EventTypes   []string                          `json:"eventTypes"`
}

func (s *Server) CreatePayment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req createPaymentRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	args, err := s.svc.PaymentMethodArgs(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := s.svc.CreatePayment(ctx, req.Order, args, req.Metadata)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) SettlePayment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req settlePaymentRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	args, err := s.svc.PaymentMethodArgs(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := s.svc.SettlePayment(ctx, req.Order, req.Payment, args)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) CreateRefund(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req createRefundRequest
	if err := decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Total <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "refund total must be positive, got %d", req.Total)
	}
	args, err := s.svc.PaymentMethodArgs(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := s.svc.CreateRefund(ctx, req.Input, req.Total, req.Order, req.Payment, args)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) GetConfigSchema(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(configSchema{
		Code:         s.svc.Code(),
		Description:  s.svc.Description(),
		Args:         stripeapp.ArgDefinitions(),
		CustomFields: stripeapp.CustomerFields(),
		EventTypes:   stripeapp.SupportedEventTypes(),
	})
}
