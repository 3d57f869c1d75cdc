package models

import "fmt"

type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNoData
	OutcomeDeviceNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNoData:
		return "no_data"
	case OutcomeDeviceNotFound:
		return "device_not_found"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// LatestResult is either a reading (OutcomeFound) or one of the two
// explicit empty outcomes. Reading is nil unless Outcome is OutcomeFound.
type LatestResult struct {
	Outcome  Outcome
	DeviceID string
	Reading  *LatestReading
}

func (r LatestResult) Found() bool {
	return r.Outcome == OutcomeFound && r.Reading != nil
}

// Message is the client-facing text for the empty outcomes.
func (r LatestResult) Message() string {
	switch r.Outcome {
	case OutcomeNoData:
		return "no data found"
	case OutcomeDeviceNotFound:
		return fmt.Sprintf("no data found for device_id '%s'", r.DeviceID)
	}
	return ""
}
