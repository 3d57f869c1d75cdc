package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

// Open connects, migrates the devices/payloads schema and returns an owned
// handle. Each call yields an independent connection pool.
func Open(dialector gorm.Dialector) (*DB, error) {
	var logger = common.GetLogger()

	gormCfg := &gorm.Config{}
	if common.IsTestEnv() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	if isMemoryDialector(dialector) {
		// a shared-cache memory db reports SQLITE_LOCKED instead of waiting
		// on a busy connection, so funnel everything through one.
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable sqlite foreign key support: %w", err)
	}

	instance := &DB{Conn: conn}

	if err := instance.Conn.AutoMigrate(&models.Device{}, &models.Payload{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed")

	return instance, nil
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func UseSqliteDialector(dbPath string) gorm.Dialector {
	if dbPath == "" {
		dbPath = common.DefaultDbPath
	}
	return sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000", dbPath))
}

// UseMemorySqliteDialector returns a dialector for a fresh, uniquely named
// in-memory database, so callers never observe each other's rows.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()))
}

func isMemoryDialector(dialector gorm.Dialector) bool {
	d, ok := dialector.(*sqlite.Dialector)
	return ok && strings.Contains(d.DSN, "mode=memory")
}
