package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"liyu1981.xyz/sensor-telemetry-service/pkg/ingest"
	"liyu1981.xyz/sensor-telemetry-service/pkg/telemetry"
)

// PipelineStatus is the read-only view of the ingestion pipeline used by
// the health endpoint.
type PipelineStatus interface {
	State() ingest.State
	Stats() ingest.Stats
}

type RestfulServer struct {
	Server           *gin.Engine
	Telemetry        *telemetry.Telemetry
	RateLimiterStore *telemetry.RateLimiterStore
	Pipeline         PipelineStatus
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	api := rs.Server.Group("/api")
	{
		api.GET("/status", rs.GetLatest)
		api.GET("/status/:device_id", rs.GetLatestFor)
		api.GET("/status/:device_id/battery", rs.GetBattery)
		api.GET("/status/:device_id/history", rs.GetHistory)
		api.POST("/limiter/:device_id", rs.PostLimiter)
	}
}
