package grpc

import (
	"golang.org/x/time/rate"

	"liyu1981.xyz/sensor-telemetry-service/pkg/telemetry"
)

type TelemetryServer struct {
	Telemetry        *telemetry.Telemetry
	RateLimiterStore *telemetry.RateLimiterStore
}

var _ TelemetryQueryServer = (*TelemetryServer)(nil)

func (s *TelemetryServer) GetLimiter(deviceID string) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	} else {
		return s.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (s *TelemetryServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := s.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}
