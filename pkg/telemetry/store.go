package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

const dateLayout = "2006-01-02"

const latestReadingQuery = `
SELECT d.device_id, d.application_id,
       p.temperature, p.humidity, p.motion, p.light, p.vdd, p.received_at
FROM payloads p
JOIN devices d ON d.id = p.device_ref`

// Ties on received_at go to the most recently inserted row.
const latestOrder = ` ORDER BY p.received_at DESC, p.id DESC LIMIT 1`

type latestRow struct {
	DeviceID      string
	ApplicationID string
	Temperature   *float64
	Humidity      *float64
	Motion        *bool
	Light         *float64
	Vdd           *int64
	ReceivedAt    string
}

func (r latestRow) toLatestReading() (*models.LatestReading, error) {
	receivedAt, err := time.Parse(models.ReceivedAtLayout, r.ReceivedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt received_at %q: %w", r.ReceivedAt, err)
	}
	return &models.LatestReading{
		DeviceID:      r.DeviceID,
		ApplicationID: r.ApplicationID,
		Temperature:   r.Temperature,
		Humidity:      r.Humidity,
		Motion:        r.Motion,
		Light:         r.Light,
		Vdd:           r.Vdd,
		ReceivedAt:    receivedAt,
	}, nil
}

func (t *Telemetry) appendReading(ctx context.Context, deviceRef uint, reading *models.Reading, receivedAt time.Time) (*models.Payload, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameTelemetryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryStore),
	)

	payload := models.Payload{
		DeviceRef:   deviceRef,
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		Motion:      reading.Motion,
		Light:       reading.Light,
		Vdd:         reading.Vdd,
		ReceivedAt:  receivedAt.In(t.location()).Format(models.ReceivedAtLayout),
	}

	if err := t.Db.Conn.WithContext(ctx).Create(&payload).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	logger.Debug("Stored reading", zap.Reflect("payload", payload))

	return &payload, nil
}

// CheckStoredOffset fails when the newest stored reading was stamped with an
// offset other than the configured one. received_at is compared as text, so
// mixing offsets in one database breaks ordering and history bounds.
func (t *Telemetry) CheckStoredOffset(ctx context.Context) error {
	var stamps []string
	err := t.Db.Conn.WithContext(ctx).
		Model(&models.Payload{}).
		Order("id DESC").
		Limit(1).
		Pluck("received_at", &stamps).Error
	if err != nil {
		return storeUnavailable(err)
	}
	if len(stamps) == 0 {
		return nil
	}

	stored, err := time.Parse(models.ReceivedAtLayout, stamps[0])
	if err != nil {
		return fmt.Errorf("corrupt received_at %q: %w", stamps[0], err)
	}
	_, storedOffset := stored.Zone()
	_, configuredOffset := stored.In(t.location()).Zone()
	if storedOffset != configuredOffset {
		return fmt.Errorf("%w: stored %s, configured %s",
			ErrOffsetMismatch, stored.Format("-07:00"), stored.In(t.location()).Format("-07:00"))
	}
	return nil
}

func (t *Telemetry) scanLatest(ctx context.Context, query string, args ...any) (*models.LatestReading, error) {
	var rows []latestRow
	if err := t.Db.Conn.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	reading, err := rows[0].toLatestReading()
	if err != nil {
		return nil, storeUnavailable(err)
	}
	return reading, nil
}

func (t *Telemetry) latestGlobal(ctx context.Context) (*models.LatestReading, error) {
	return t.scanLatest(ctx, latestReadingQuery+latestOrder)
}

// latestForDevice returns ErrNotFound both for an unknown device and for a
// known device without readings.
func (t *Telemetry) latestForDevice(ctx context.Context, deviceID string) (*models.LatestReading, error) {
	return t.scanLatest(ctx, latestReadingQuery+` WHERE d.device_id = ?`+latestOrder, deviceID)
}

// history returns field values for readings whose received_at calendar date
// (in the store's offset) lies in [from, to]. Only the dates of from and to
// are used.
func (t *Telemetry) history(ctx context.Context, deviceID string, field models.Field, from, to time.Time) ([]models.HistoryPoint, error) {
	column := field.Column()
	if column == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	lower := from.Format(dateLayout)
	upper := to.AddDate(0, 0, 1).Format(dateLayout)

	points := make([]models.HistoryPoint, 0)
	if lower >= upper {
		return points, nil
	}

	rows, err := t.Db.Conn.WithContext(ctx).Raw(`
SELECT p.`+column+`, p.received_at
FROM payloads p
JOIN devices d ON d.id = p.device_ref
WHERE d.device_id = ? AND p.received_at >= ? AND p.received_at < ?
ORDER BY p.received_at ASC, p.id ASC`, deviceID, lower, upper).Rows()
	if err != nil {
		return nil, storeUnavailable(err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw any
		var receivedAtText string
		if err := rows.Scan(&raw, &receivedAtText); err != nil {
			return nil, storeUnavailable(err)
		}
		receivedAt, err := time.Parse(models.ReceivedAtLayout, receivedAtText)
		if err != nil {
			return nil, storeUnavailable(fmt.Errorf("corrupt received_at %q: %w", receivedAtText, err))
		}
		value, err := numericValue(raw)
		if err != nil {
			return nil, storeUnavailable(err)
		}
		points = append(points, models.HistoryPoint{Value: value, ReceivedAt: receivedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, storeUnavailable(err)
	}

	return points, nil
}

// numericValue flattens a sqlite column value; booleans become 0 or 1.
func numericValue(raw any) (*float64, error) {
	var v float64
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		v = x
	case int64:
		v = float64(x)
	case bool:
		if x {
			v = 1
		}
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric column value %q", string(x))
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric column value %q", x)
		}
		v = f
	default:
		return nil, fmt.Errorf("unexpected column type %T", raw)
	}
	return &v, nil
}

type IStoreImpl struct {
	telemetry *Telemetry
}

func (is *IStoreImpl) Append(ctx context.Context, deviceRef uint, reading *models.Reading, receivedAt time.Time) (*models.Payload, error) {
	return is.telemetry.appendReading(ctx, deviceRef, reading, receivedAt)
}

func (is *IStoreImpl) LatestGlobal(ctx context.Context) (*models.LatestReading, error) {
	return is.telemetry.latestGlobal(ctx)
}

func (is *IStoreImpl) LatestForDevice(ctx context.Context, deviceID string) (*models.LatestReading, error) {
	return is.telemetry.latestForDevice(ctx, deviceID)
}

func (is *IStoreImpl) History(ctx context.Context, deviceID string, field models.Field, from, to time.Time) ([]models.HistoryPoint, error) {
	return is.telemetry.history(ctx, deviceID, field, from, to)
}

func (t *Telemetry) GetIStore() IStore {
	return &IStoreImpl{telemetry: t}
}
