package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

func (t *Telemetry) getLatest(ctx context.Context) (models.LatestResult, error) {
	reading, err := t.Store.LatestGlobal(ctx)
	if errors.Is(err, ErrNotFound) {
		return models.LatestResult{Outcome: models.OutcomeNoData}, nil
	}
	if err != nil {
		return models.LatestResult{}, err
	}
	return models.LatestResult{Outcome: models.OutcomeFound, DeviceID: reading.DeviceID, Reading: reading}, nil
}

// getLatestFor reports OutcomeDeviceNotFound both for an id the registry has
// never seen and for a registered device that has no readings yet.
func (t *Telemetry) getLatestFor(ctx context.Context, deviceID string) (models.LatestResult, error) {
	reading, err := t.Store.LatestForDevice(ctx, deviceID)
	if errors.Is(err, ErrNotFound) {
		t.logUnknownOrSilent(ctx, deviceID)
		return models.LatestResult{Outcome: models.OutcomeDeviceNotFound, DeviceID: deviceID}, nil
	}
	if err != nil {
		return models.LatestResult{}, err
	}
	return models.LatestResult{Outcome: models.OutcomeFound, DeviceID: deviceID, Reading: reading}, nil
}

// logUnknownOrSilent records which of the two not-found cases a lookup hit.
// Callers see a single outcome either way.
func (t *Telemetry) logUnknownOrSilent(ctx context.Context, deviceID string) {
	logger := common.GetLoggerWith(
		common.LoggerNameTelemetryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryQuery),
	)

	device, err := t.Registry.FindByExternalID(ctx, deviceID)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Debug("Unknown device", zap.String("device_id", deviceID))
	case err != nil:
		logger.Warn("Device lookup failed", zap.String("device_id", deviceID), zap.Error(err))
	default:
		logger.Debug("Device has no readings",
			zap.String("device_id", deviceID),
			zap.Uint("internal_id", device.ID))
	}
}

func (t *Telemetry) parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), t.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return d, nil
}

func (t *Telemetry) queryHistory(ctx context.Context, deviceID, field, fromDate, toDate string) ([]models.HistoryPoint, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameTelemetryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryQuery),
	)

	f, err := models.ParseField(field)
	if err != nil {
		return nil, err
	}
	from, err := t.parseDate(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := t.parseDate(toDate)
	if err != nil {
		return nil, err
	}

	points, err := t.Store.History(ctx, deviceID, f, from, to)
	if err != nil {
		return nil, err
	}

	logger.Debug("Queried history",
		zap.String("device_id", deviceID),
		zap.String("field", string(f)),
		zap.String("from", fromDate),
		zap.String("to", toDate),
		zap.Int("points", len(points)))

	return points, nil
}

func (t *Telemetry) getBattery(ctx context.Context, deviceID string) (*models.BatteryStatus, error) {
	reading, err := t.Store.LatestForDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	status := &models.BatteryStatus{
		DeviceID:   reading.DeviceID,
		Vdd:        reading.Vdd,
		ReceivedAt: reading.ReceivedAt,
	}
	if reading.Vdd != nil {
		percent := VddPercent(*reading.Vdd)
		status.BatteryPercent = &percent
	}
	return status, nil
}

type IQueryImpl struct {
	telemetry *Telemetry
}

func (iq *IQueryImpl) GetLatest(ctx context.Context) (models.LatestResult, error) {
	return iq.telemetry.getLatest(ctx)
}

func (iq *IQueryImpl) GetLatestFor(ctx context.Context, deviceID string) (models.LatestResult, error) {
	return iq.telemetry.getLatestFor(ctx, deviceID)
}

func (iq *IQueryImpl) History(ctx context.Context, deviceID, field, fromDate, toDate string) ([]models.HistoryPoint, error) {
	return iq.telemetry.queryHistory(ctx, deviceID, field, fromDate, toDate)
}

func (iq *IQueryImpl) GetBattery(ctx context.Context, deviceID string) (*models.BatteryStatus, error) {
	return iq.telemetry.getBattery(ctx, deviceID)
}

func (t *Telemetry) GetIQuery() IQuery {
	return &IQueryImpl{telemetry: t}
}
