package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
	_ "liyu1981.xyz/sensor-telemetry-service/pkg/testing"
)

func TestResolveOrCreate(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	ctx := context.Background()
	deviceID := uuid.NewString()

	first, err := tel.Registry.ResolveOrCreate(ctx, deviceID, "app-1")
	require.NoError(t, err)
	assert.NotZero(t, first)

	second, err := tel.Registry.ResolveOrCreate(ctx, deviceID, "app-2")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	device, err := tel.Registry.FindByExternalID(ctx, deviceID)
	require.NoError(t, err)
	assert.Equal(t, first, device.ID)
	assert.Equal(t, "app-1", device.ApplicationID, "application_id is first-write-wins")

	other, err := tel.Registry.ResolveOrCreate(ctx, uuid.NewString(), "app-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestResolveOrCreate_Concurrent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	ctx := context.Background()
	deviceID := uuid.NewString()

	const workers = 16
	ids := make([]uint, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = tel.Registry.ResolveOrCreate(ctx, deviceID, "app")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, tel.Db.Conn.Model(&models.Device{}).Where("device_id = ?", deviceID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindByExternalID_NeverCreates(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	device, err := tel.Registry.FindByExternalID(context.Background(), "unknown-id")
	assert.Nil(t, device)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, tel.Db.Conn.Model(&models.Device{}).Count(&count).Error)
	assert.Zero(t, count)
}
