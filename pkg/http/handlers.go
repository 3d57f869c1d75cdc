package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/telemetry"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, telemetry.ErrInvalidField), errors.Is(err, telemetry.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, telemetry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, telemetry.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (rs *RestfulServer) abortWithError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).
			Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (rs *RestfulServer) GetLatest(c *gin.Context) {
	result, err := rs.Telemetry.Query.GetLatest(c.Request.Context())
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	if !result.Found() {
		c.JSON(http.StatusOK, gin.H{"message": result.Message()})
		return
	}

	c.JSON(http.StatusOK, result.Reading)
}

func (rs *RestfulServer) GetLatestFor(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	result, err := rs.Telemetry.Query.GetLatestFor(c.Request.Context(), deviceID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	if !result.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": result.Message()})
		return
	}

	c.JSON(http.StatusOK, result.Reading)
}

func (rs *RestfulServer) GetBattery(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	status, err := rs.Telemetry.Query.GetBattery(c.Request.Context(), deviceID)
	if errors.Is(err, telemetry.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no data found for device_id '%s'", deviceID)})
		return
	}
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

type HistoryRequest struct {
	Field string `form:"field"`
	From  string `form:"from"`
	To    string `form:"to"`
}

var historyRequestSchema = z.Struct(z.Shape{
	"Field": z.String().Required(),
	"From":  z.String().Len(10).Required(),
	"To":    z.String().Len(10).Required(),
})

func (rs *RestfulServer) GetHistory(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	req := HistoryRequest{
		Field: c.Query("field"),
		From:  c.Query("from"),
		To:    c.Query("to"),
	}
	if err := historyRequestSchema.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	points, err := rs.Telemetry.Query.History(c.Request.Context(), deviceID, req.Field, req.From, req.To)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	if rs.Pipeline == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "pipeline_state": "disabled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"pipeline_state": rs.Pipeline.State().String(),
		"pipeline_stats": rs.Pipeline.Stats(),
	})
}
