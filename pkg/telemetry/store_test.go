package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
	_ "liyu1981.xyz/sensor-telemetry-service/pkg/testing"
)

func appendAt(t *testing.T, tel *Telemetry, deviceID string, temperature float64, at time.Time) *models.Payload {
	t.Helper()
	ctx := context.Background()
	ref, err := tel.Registry.ResolveOrCreate(ctx, deviceID, "app")
	require.NoError(t, err)
	payload, err := tel.Store.Append(ctx, ref, &models.Reading{
		DeviceID:    deviceID,
		Temperature: ptr(temperature),
		Humidity:    ptr(50.0),
		Motion:      ptr(true),
		Light:       ptr(10.0),
		Vdd:         ptr(int64(3600)),
	}, at)
	require.NoError(t, err)
	return payload
}

func TestAppend_FormatsReceivedAtInOffset(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()
	tel.Location = time.FixedZone("", 8*3600)

	at := time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC)
	payload := appendAt(t, tel, "dev-1", 20, at)

	assert.Equal(t, "2024-01-02T00:30:00.000000000+08:00", payload.ReceivedAt)
}

func TestAppend_UnknownDeviceRef(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	_, err := tel.Store.Append(context.Background(), 4242, &models.Reading{Temperature: ptr(1.0)}, time.Now())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestLatest(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()
	ctx := context.Background()

	_, err := tel.Store.LatestGlobal(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	appendAt(t, tel, "dev-a", 1, base)
	appendAt(t, tel, "dev-b", 2, base.Add(time.Minute))
	appendAt(t, tel, "dev-a", 3, base.Add(2*time.Minute))

	latest, err := tel.Store.LatestGlobal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dev-a", latest.DeviceID)
	assert.Equal(t, 3.0, *latest.Temperature)
	assert.True(t, latest.ReceivedAt.Equal(base.Add(2*time.Minute)))

	latestB, err := tel.Store.LatestForDevice(ctx, "dev-b")
	require.NoError(t, err)
	assert.Equal(t, 2.0, *latestB.Temperature)
	assert.Equal(t, "app", latestB.ApplicationID)
	assert.Equal(t, int64(3600), *latestB.Vdd)
	assert.True(t, *latestB.Motion)

	_, err = tel.Store.LatestForDevice(ctx, "unknown-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatest_TieGoesToLastInserted(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	appendAt(t, tel, "dev-a", 1, at)
	appendAt(t, tel, "dev-b", 2, at)

	latest, err := tel.Store.LatestGlobal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev-b", latest.DeviceID)
}

func TestHistory(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()
	ctx := context.Background()
	utc8 := time.FixedZone("", 8*3600)
	tel.Location = utc8

	// 2023-12-31 UTC but 2024-01-01 at +08:00
	appendAt(t, tel, "dev-1", 1, time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC))
	appendAt(t, tel, "dev-1", 2, time.Date(2024, 1, 4, 9, 0, 0, 0, utc8))
	appendAt(t, tel, "dev-1", 3, time.Date(2024, 1, 7, 23, 59, 59, 0, utc8))
	appendAt(t, tel, "dev-1", 4, time.Date(2024, 1, 8, 0, 0, 0, 0, utc8))
	appendAt(t, tel, "dev-2", 5, time.Date(2024, 1, 4, 9, 0, 0, 0, utc8))

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, utc8)
	to := time.Date(2024, 1, 7, 0, 0, 0, 0, utc8)

	points, err := tel.Store.History(ctx, "dev-1", models.FieldTemperature, from, to)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 1.0, *points[0].Value)
	assert.Equal(t, 2.0, *points[1].Value)
	assert.Equal(t, 3.0, *points[2].Value)
	assert.True(t, points[0].ReceivedAt.Before(points[1].ReceivedAt))

	motion, err := tel.Store.History(ctx, "dev-1", models.FieldMotion, from, to)
	require.NoError(t, err)
	require.Len(t, motion, 3)
	assert.Equal(t, 1.0, *motion[0].Value)

	vdd, err := tel.Store.History(ctx, "dev-1", models.FieldVdd, from, to)
	require.NoError(t, err)
	assert.Equal(t, 3600.0, *vdd[0].Value)
}

func TestHistory_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()
	ctx := context.Background()

	day := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	appendAt(t, tel, "dev-1", 1, day.Add(time.Hour))

	points, err := tel.Store.History(ctx, "dev-1", models.FieldTemperature, day.AddDate(1, 0, 0), day.AddDate(1, 0, 7))
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)

	points, err = tel.Store.History(ctx, "unknown-id", models.FieldTemperature, day, day)
	require.NoError(t, err)
	assert.Empty(t, points)

	points, err = tel.Store.History(ctx, "dev-1", models.FieldTemperature, day.AddDate(0, 0, 1), day)
	require.NoError(t, err)
	assert.Empty(t, points, "from after to")

	points, err = tel.Store.History(ctx, "dev-1", models.FieldTemperature, day, day)
	require.NoError(t, err)
	assert.Len(t, points, 1, "single day range is inclusive")

	_, err = tel.Store.History(ctx, "dev-1", models.Field("temperature; DROP TABLE payloads"), day, day)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestHistory_NullValues(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()
	ctx := context.Background()

	ref, err := tel.Registry.ResolveOrCreate(ctx, "dev-1", "")
	require.NoError(t, err)
	at := time.Date(2024, 1, 4, 1, 0, 0, 0, time.UTC)
	_, err = tel.Store.Append(ctx, ref, &models.Reading{Temperature: ptr(1.0)}, at)
	require.NoError(t, err)

	points, err := tel.Store.History(ctx, "dev-1", models.FieldLight, at, at)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Nil(t, points[0].Value)
}

func TestCheckStoredOffset(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()
	ctx := context.Background()
	tel.Location = time.FixedZone("+08:00", 8*3600)

	// empty database accepts any offset
	require.NoError(t, tel.CheckStoredOffset(ctx))

	appendAt(t, tel, "dev-1", 20, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, tel.CheckStoredOffset(ctx))

	tel.Location = time.FixedZone("+02:00", 2*3600)
	err := tel.CheckStoredOffset(ctx)
	assert.ErrorIs(t, err, ErrOffsetMismatch)
	assert.ErrorContains(t, err, "stored +08:00, configured +02:00")
}

func TestNumericValue(t *testing.T) {
	v, err := numericValue(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7.0, *v)

	v, err = numericValue([]byte("1.5"))
	require.NoError(t, err)
	assert.Equal(t, 1.5, *v)

	v, err = numericValue(true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, *v)

	v, err = numericValue(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = numericValue("abc")
	assert.Error(t, err)
	_, err = numericValue(struct{}{})
	assert.Error(t, err)
}
