package models

import "time"

// ReceivedAtLayout is how received_at is persisted. All rows share one
// fixed offset, so lexical order of the column equals chronological order.
const ReceivedAtLayout = "2006-01-02T15:04:05.000000000-07:00"

// Device is owned by the registry. DeviceID is the external identifier
// asserted by the message source.
type Device struct {
	ID            uint   `gorm:"primaryKey"`
	DeviceID      string `gorm:"uniqueIndex;not null"`
	ApplicationID string

	Payloads []Payload `gorm:"foreignKey:DeviceRef;references:ID"`
}

// Payload is one immutable reading row. Absent sensor values are NULL.
type Payload struct {
	ID          uint `gorm:"primaryKey"`
	DeviceRef   uint `gorm:"not null;index:idx_payloads_device_received,priority:1"`
	Temperature *float64
	Humidity    *float64
	Motion      *bool
	Light       *float64
	Vdd         *int64
	ReceivedAt  string `gorm:"not null;index:idx_payloads_received_at;index:idx_payloads_device_received,priority:2"`
}

// Reading is a parsed sensor message before it is attached to a device.
type Reading struct {
	DeviceID      string
	ApplicationID string
	Temperature   *float64
	Humidity      *float64
	Motion        *bool
	Light         *float64
	Vdd           *int64
}

// LatestReading is a stored reading joined with its device identifiers.
type LatestReading struct {
	DeviceID      string    `json:"device_id"`
	ApplicationID string    `json:"application_id"`
	Temperature   *float64  `json:"temperature"`
	Humidity      *float64  `json:"humidity"`
	Motion        *bool     `json:"motion"`
	Light         *float64  `json:"light"`
	Vdd           *int64    `json:"vdd"`
	ReceivedAt    time.Time `json:"received_at"`
}

type HistoryPoint struct {
	Value      *float64  `json:"value"`
	ReceivedAt time.Time `json:"received_at"`
}

type BatteryStatus struct {
	DeviceID       string    `json:"device_id"`
	Vdd            *int64    `json:"vdd"`
	BatteryPercent *int      `json:"battery_percent"`
	ReceivedAt     time.Time `json:"received_at"`
}
