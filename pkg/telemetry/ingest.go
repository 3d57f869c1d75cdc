package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

// ingestPayload turns one raw message into one stored reading. Nothing is
// written when parsing fails, so an invalid message never registers a device.
func (t *Telemetry) ingestPayload(ctx context.Context, raw []byte, receivedAt time.Time) (*models.Payload, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameTelemetryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryIngest),
	)

	reading, err := t.parser().Parse(raw)
	if err != nil {
		logger.Warn("Rejected payload", zap.Error(err), zap.Int("size", len(raw)))
		return nil, err
	}

	if !t.Limiter.Allow(reading.DeviceID) {
		logger.Warn("Rate limit exceeded, dropping reading", zap.String("device_id", reading.DeviceID))
		return nil, ErrRateLimited
	}

	deviceRef, err := t.Registry.ResolveOrCreate(ctx, reading.DeviceID, reading.ApplicationID)
	if err != nil {
		logger.Error("Failed to resolve device", zap.String("device_id", reading.DeviceID), zap.Error(err))
		return nil, err
	}

	payload, err := t.Store.Append(ctx, deviceRef, reading, receivedAt)
	if err != nil {
		logger.Error("Failed to store reading", zap.String("device_id", reading.DeviceID), zap.Error(err))
		return nil, err
	}

	logger.Info("Received reading",
		zap.String("device_id", reading.DeviceID),
		zap.Uint("payload_id", payload.ID),
		zap.String("received_at", payload.ReceivedAt))

	return payload, nil
}

type IIngestImpl struct {
	telemetry *Telemetry
}

func (ii *IIngestImpl) IngestPayload(ctx context.Context, raw []byte, receivedAt time.Time) (*models.Payload, error) {
	return ii.telemetry.ingestPayload(ctx, raw, receivedAt)
}

func (t *Telemetry) GetIIngest() IIngest {
	return &IIngestImpl{telemetry: t}
}
