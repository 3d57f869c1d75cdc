package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The query service is described directly on protobuf well-known types, so
// any client can call it with the standard struct/wrapper messages.
const (
	ServiceName = "telemetry.TelemetryQuery"

	GetLatestFullMethodName    = "/telemetry.TelemetryQuery/GetLatest"
	GetLatestForFullMethodName = "/telemetry.TelemetryQuery/GetLatestFor"
	GetBatteryFullMethodName   = "/telemetry.TelemetryQuery/GetBattery"
	GetHistoryFullMethodName   = "/telemetry.TelemetryQuery/GetHistory"
	PostLimiterFullMethodName  = "/telemetry.TelemetryQuery/PostLimiter"
)

type TelemetryQueryServer interface {
	GetLatest(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetLatestFor(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetBattery(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// GetHistory takes {device_id, field, from, to}.
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// PostLimiter takes {device_id, device_rate, device_burst}.
	PostLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterTelemetryQueryServer(s grpc.ServiceRegistrar, srv TelemetryQueryServer) {
	s.RegisterService(&TelemetryQueryServiceDesc, srv)
}

func unaryHandler[Req any](
	fullMethod string,
	call func(TelemetryQueryServer, context.Context, *Req) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TelemetryQueryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TelemetryQueryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TelemetryQueryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TelemetryQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetLatest",
			Handler:    unaryHandler(GetLatestFullMethodName, TelemetryQueryServer.GetLatest),
		},
		{
			MethodName: "GetLatestFor",
			Handler:    unaryHandler(GetLatestForFullMethodName, TelemetryQueryServer.GetLatestFor),
		},
		{
			MethodName: "GetBattery",
			Handler:    unaryHandler(GetBatteryFullMethodName, TelemetryQueryServer.GetBattery),
		},
		{
			MethodName: "GetHistory",
			Handler:    unaryHandler(GetHistoryFullMethodName, TelemetryQueryServer.GetHistory),
		},
		{
			MethodName: "PostLimiter",
			Handler:    unaryHandler(PostLimiterFullMethodName, TelemetryQueryServer.PostLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "telemetry_query.proto",
}

type TelemetryQueryClient interface {
	GetLatest(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetLatestFor(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetBattery(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PostLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type telemetryQueryClient struct {
	cc grpc.ClientConnInterface
}

func NewTelemetryQueryClient(cc grpc.ClientConnInterface) TelemetryQueryClient {
	return &telemetryQueryClient{cc}
}

func (c *telemetryQueryClient) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *telemetryQueryClient) GetLatest(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetLatestFullMethodName, in, opts...)
}

func (c *telemetryQueryClient) GetLatestFor(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetLatestForFullMethodName, in, opts...)
}

func (c *telemetryQueryClient) GetBattery(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetBatteryFullMethodName, in, opts...)
}

func (c *telemetryQueryClient) GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetHistoryFullMethodName, in, opts...)
}

func (c *telemetryQueryClient) PostLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PostLimiterFullMethodName, in, opts...)
}
