package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages on this service are google.protobuf.Struct documents carrying the
// JSON shape of the app layer types.
const (
	PaymentMethodHandler_ServiceName = "stripe.v1.PaymentMethodHandler"

	PaymentMethodHandler_CreatePayment_FullMethodName   = "/stripe.v1.PaymentMethodHandler/CreatePayment"
	PaymentMethodHandler_SettlePayment_FullMethodName   = "/stripe.v1.PaymentMethodHandler/SettlePayment"
	PaymentMethodHandler_CreateRefund_FullMethodName    = "/stripe.v1.PaymentMethodHandler/CreateRefund"
	PaymentMethodHandler_GetConfigSchema_FullMethodName = "/stripe.v1.PaymentMethodHandler/GetConfigSchema"
)

// PaymentMethodHandlerServer is the server API for the stripe.v1.PaymentMethodHandler service.
type PaymentMethodHandlerServer interface {
	CreatePayment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SettlePayment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateRefund(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetConfigSchema(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(PaymentMethodHandlerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PaymentMethodHandlerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PaymentMethodHandlerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var paymentMethodHandlerServiceDesc = grpc.ServiceDesc{
	ServiceName: PaymentMethodHandler_ServiceName,
	HandlerType: (*PaymentMethodHandlerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreatePayment",
			Handler:    unaryHandler(PaymentMethodHandler_CreatePayment_FullMethodName, PaymentMethodHandlerServer.CreatePayment),
		},
		{
			MethodName: "SettlePayment",
			Handler:    unaryHandler(PaymentMethodHandler_SettlePayment_FullMethodName, PaymentMethodHandlerServer.SettlePayment),
		},
		{
			MethodName: "CreateRefund",
			Handler:    unaryHandler(PaymentMethodHandler_CreateRefund_FullMethodName, PaymentMethodHandlerServer.CreateRefund),
		},
		{
			MethodName: "GetConfigSchema",
			Handler:    unaryHandler(PaymentMethodHandler_GetConfigSchema_FullMethodName, PaymentMethodHandlerServer.GetConfigSchema),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stripe/v1/payment_method_handler.proto",
}

func RegisterPaymentMethodHandlerServer(s grpc.ServiceRegistrar, srv PaymentMethodHandlerServer) {
	s.RegisterService(&paymentMethodHandlerServiceDesc, srv)
}

// PaymentMethodHandlerClient is the client API for the stripe.v1.PaymentMethodHandler service.
type PaymentMethodHandlerClient interface {
	CreatePayment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SettlePayment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateRefund(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetConfigSchema(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type paymentMethodHandlerClient struct {
	cc grpc.ClientConnInterface
}

func NewPaymentMethodHandlerClient(cc grpc.ClientConnInterface) PaymentMethodHandlerClient {
	return &paymentMethodHandlerClient{cc}
}

func (c *paymentMethodHandlerClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentMethodHandlerClient) CreatePayment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PaymentMethodHandler_CreatePayment_FullMethodName, in, opts...)
}

func (c *paymentMethodHandlerClient) SettlePayment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PaymentMethodHandler_SettlePayment_FullMethodName, in, opts...)
}

func (c *paymentMethodHandlerClient) CreateRefund(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PaymentMethodHandler_CreateRefund_FullMethodName, in, opts...)
}

func (c *paymentMethodHandlerClient) GetConfigSchema(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PaymentMethodHandler_GetConfigSchema_FullMethodName, in, opts...)
}
