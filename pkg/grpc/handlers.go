package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
	"liyu1981.xyz/sensor-telemetry-service/pkg/telemetry"
)

func validateDeviceID(deviceID *string) z.ZogIssueList {
	var deviceIdValidator = z.String().Min(1).Required()
	return deviceIdValidator.Validate(deviceID)
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// response builds {status: {success, message}, ...extra}.
func response(success bool, message string, extra map[string]any) (*structpb.Struct, error) {
	fields := map[string]any{
		"status": map[string]any{"success": success, "message": message},
	}
	for k, v := range extra {
		fields[k] = v
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func failure(message string) (*structpb.Struct, error) {
	return response(false, message, nil)
}

func (s *TelemetryServer) failWith(method string, err error) (*structpb.Struct, error) {
	switch {
	case errors.Is(err, telemetry.ErrInvalidField), errors.Is(err, telemetry.ErrInvalidDate):
		return failure(fmt.Sprintf("validation error: %v", err))
	case errors.Is(err, telemetry.ErrStoreUnavailable):
		common.GetLoggerWith(common.LoggerNameGrpcServer).
			Error("Store unavailable", zap.String("method", method), zap.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	common.GetLoggerWith(common.LoggerNameGrpcServer).
		Error("Request failed", zap.String("method", method), zap.Error(err))
	return nil, status.Error(codes.Internal, err.Error())
}

func readingFields(r *models.LatestReading) map[string]any {
	return map[string]any{
		"device_id":      r.DeviceID,
		"application_id": r.ApplicationID,
		"temperature":    optional(r.Temperature),
		"humidity":       optional(r.Humidity),
		"motion":         optional(r.Motion),
		"light":          optional(r.Light),
		"vdd":            optional(r.Vdd),
		"received_at":    r.ReceivedAt.Format(time.RFC3339Nano),
	}
}

func latestResponse(result models.LatestResult) (*structpb.Struct, error) {
	if !result.Found() {
		return failure(result.Message())
	}
	return response(true, "OK", map[string]any{"reading": readingFields(result.Reading)})
}

func (s *TelemetryServer) GetLatest(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.Telemetry.Query.GetLatest(ctx)
	if err != nil {
		return s.failWith("GetLatest", err)
	}
	return latestResponse(result)
}

func (s *TelemetryServer) GetLatestFor(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	deviceID := req.GetValue()
	if err := validateDeviceID(&deviceID); err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	result, err := s.Telemetry.Query.GetLatestFor(ctx, deviceID)
	if err != nil {
		return s.failWith("GetLatestFor", err)
	}
	return latestResponse(result)
}

func (s *TelemetryServer) GetBattery(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	deviceID := req.GetValue()
	if err := validateDeviceID(&deviceID); err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	battery, err := s.Telemetry.Query.GetBattery(ctx, deviceID)
	if errors.Is(err, telemetry.ErrNotFound) {
		return failure(fmt.Sprintf("no data found for device_id '%s'", deviceID))
	}
	if err != nil {
		return s.failWith("GetBattery", err)
	}

	return response(true, "OK", map[string]any{
		"battery": map[string]any{
			"device_id":       battery.DeviceID,
			"vdd":             optional(battery.Vdd),
			"battery_percent": optional(battery.BatteryPercent),
			"received_at":     battery.ReceivedAt.Format(time.RFC3339Nano),
		},
	})
}

func (s *TelemetryServer) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	deviceID := fields["device_id"].GetStringValue()
	if err := validateDeviceID(&deviceID); err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	points, err := s.Telemetry.Query.History(ctx,
		deviceID,
		fields["field"].GetStringValue(),
		fields["from"].GetStringValue(),
		fields["to"].GetStringValue(),
	)
	if err != nil {
		return s.failWith("GetHistory", err)
	}

	return response(true, "OK", map[string]any{
		"points": common.Mapper(points, func(p models.HistoryPoint) any {
			return map[string]any{
				"value":       optional(p.Value),
				"received_at": p.ReceivedAt.Format(time.RFC3339Nano),
			}
		}),
	})
}

func (s *TelemetryServer) PostLimiter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	deviceID := fields["device_id"].GetStringValue()
	if err := validateDeviceID(&deviceID); err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	deviceRate := fields["device_rate"].GetNumberValue()
	var rateValidator = z.Float64().Required()
	if err := rateValidator.Validate(&deviceRate); err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	deviceBurst := int(fields["device_burst"].GetNumberValue())
	var burstValidator = z.Int().Required()
	if err := burstValidator.Validate(&deviceBurst); err != nil {
		return failure(fmt.Sprintf("validation error: %v", err))
	}

	if s.RateLimiterStore == nil {
		return failure("RateLimiterStore is not used. No effect.")
	}

	s.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
	return response(true, "OK", nil)
}
