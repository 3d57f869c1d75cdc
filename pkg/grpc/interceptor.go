package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
)

// requestDeviceID finds the device a request is scoped to, or "" for
// requests that are not device scoped.
func requestDeviceID(req any) string {
	switch r := req.(type) {
	case *wrapperspb.StringValue:
		return r.GetValue()
	case *structpb.Struct:
		return r.GetFields()["device_id"].GetStringValue()
	}
	return ""
}

func (s *TelemetryServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targetMethodMap := common.Reducer(targetMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetMethodMap[info.FullMethod]; ok {
			if deviceID := requestDeviceID(req); deviceID != "" {
				if !s.CheckDeviceLimiter(deviceID) {
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}
