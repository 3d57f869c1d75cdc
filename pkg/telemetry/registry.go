package telemetry

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

// resolveOrCreate is insert-or-fetch on the unique device_id index. A racing
// insert for the same id hits the conflict and both callers read back the
// single surviving row. application_id is first-write-wins.
func (t *Telemetry) resolveOrCreate(ctx context.Context, deviceID, applicationID string) (uint, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameTelemetryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRegistry),
	)

	conn := t.Db.Conn.WithContext(ctx)

	device := models.Device{
		DeviceID:      deviceID,
		ApplicationID: applicationID,
	}

	result := conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoNothing: true,
	}).Create(&device)
	if result.Error != nil {
		return 0, storeUnavailable(result.Error)
	}

	var existing models.Device
	if err := conn.Where("device_id = ?", deviceID).Take(&existing).Error; err != nil {
		return 0, storeUnavailable(err)
	}

	if result.RowsAffected > 0 {
		logger.Info("Registered new device",
			zap.String("device_id", existing.DeviceID),
			zap.String("application_id", existing.ApplicationID),
			zap.Uint("internal_id", existing.ID))
	}

	return existing.ID, nil
}

func (t *Telemetry) findByExternalID(ctx context.Context, deviceID string) (*models.Device, error) {
	var device models.Device
	err := t.Db.Conn.WithContext(ctx).Where("device_id = ?", deviceID).Take(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}
	return &device, nil
}

type IRegistryImpl struct {
	telemetry *Telemetry
}

func (ir *IRegistryImpl) ResolveOrCreate(ctx context.Context, deviceID, applicationID string) (uint, error) {
	return ir.telemetry.resolveOrCreate(ctx, deviceID, applicationID)
}

func (ir *IRegistryImpl) FindByExternalID(ctx context.Context, deviceID string) (*models.Device, error) {
	return ir.telemetry.findByExternalID(ctx, deviceID)
}

func (t *Telemetry) GetIRegistry() IRegistry {
	return &IRegistryImpl{telemetry: t}
}
