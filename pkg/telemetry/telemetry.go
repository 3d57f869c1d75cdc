package telemetry

import (
	"context"
	"time"

	"liyu1981.xyz/sensor-telemetry-service/pkg/db"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks liyu1981.xyz/sensor-telemetry-service/pkg/telemetry IRegistry,IStore,IQuery,IIngest

type IRegistry interface {
	ResolveOrCreate(ctx context.Context, deviceID, applicationID string) (uint, error)
	FindByExternalID(ctx context.Context, deviceID string) (*models.Device, error)
}

type IStore interface {
	Append(ctx context.Context, deviceRef uint, reading *models.Reading, receivedAt time.Time) (*models.Payload, error)
	LatestGlobal(ctx context.Context) (*models.LatestReading, error)
	LatestForDevice(ctx context.Context, deviceID string) (*models.LatestReading, error)
	History(ctx context.Context, deviceID string, field models.Field, from, to time.Time) ([]models.HistoryPoint, error)
}

type IQuery interface {
	GetLatest(ctx context.Context) (models.LatestResult, error)
	GetLatestFor(ctx context.Context, deviceID string) (models.LatestResult, error)
	History(ctx context.Context, deviceID, field, fromDate, toDate string) ([]models.HistoryPoint, error)
	GetBattery(ctx context.Context, deviceID string) (*models.BatteryStatus, error)
}

type IIngest interface {
	IngestPayload(ctx context.Context, raw []byte, receivedAt time.Time) (*models.Payload, error)
}

type Telemetry struct {
	Db db.DB

	// Location is the fixed offset for received_at and history dates.
	// nil means UTC.
	Location *time.Location
	Parser   *Parser
	// Limiter guards ingestion per external device id. nil disables it.
	Limiter *RateLimiterStore

	Registry IRegistry
	Store    IStore
	Query    IQuery
	Ingest   IIngest
}

type ServiceOpts struct {
	Registry IRegistry
	Store    IStore
	Query    IQuery
	Ingest   IIngest
}

func (t *Telemetry) WithServices(opts ServiceOpts) *Telemetry {
	if opts.Registry != nil {
		t.Registry = opts.Registry
	}
	if opts.Store != nil {
		t.Store = opts.Store
	}
	if opts.Query != nil {
		t.Query = opts.Query
	}
	if opts.Ingest != nil {
		t.Ingest = opts.Ingest
	}
	return t
}

// WithDefaultServices wires the sqlite-backed implementation of every service.
func (t *Telemetry) WithDefaultServices() *Telemetry {
	return t.WithServices(ServiceOpts{
		Registry: t.GetIRegistry(),
		Store:    t.GetIStore(),
		Query:    t.GetIQuery(),
		Ingest:   t.GetIIngest(),
	})
}

func (t *Telemetry) location() *time.Location {
	if t.Location == nil {
		return time.UTC
	}
	return t.Location
}

func (t *Telemetry) parser() *Parser {
	if t.Parser == nil {
		return NewParser(models.AllFields...)
	}
	return t.Parser
}
