package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	z "github.com/Oudwins/zog"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

// Parser decodes uplink documents. It accepts The Things Stack v3 uplink
// envelopes and flat {"device_id": ..., "temperature": ...} documents.
type Parser struct {
	required []models.Field
}

func NewParser(required ...models.Field) *Parser {
	return &Parser{required: required}
}

func (p *Parser) Required() []models.Field {
	return p.required
}

type sensorValues struct {
	Temperature *float64     `json:"temperature"`
	Humidity    *float64     `json:"humidity"`
	Motion      *motionValue `json:"motion"`
	Light       *float64     `json:"light"`
	Vdd         *int64       `json:"vdd"`
}

type endDeviceIDs struct {
	DeviceID       string `json:"device_id"`
	ApplicationIDs struct {
		ApplicationID string `json:"application_id"`
	} `json:"application_ids"`
}

type uplinkMessage struct {
	DecodedPayload *sensorValues `json:"decoded_payload"`
}

type uplinkDocument struct {
	EndDeviceIDs  *endDeviceIDs  `json:"end_device_ids"`
	UplinkMessage *uplinkMessage `json:"uplink_message"`

	DeviceID      string `json:"device_id"`
	ApplicationID string `json:"application_id"`
	sensorValues
}

// motionValue accepts a JSON boolean or a number; motion counters report
// non-zero when movement was seen in the sample window.
type motionValue bool

func (m *motionValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*m = motionValue(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("motion must be a boolean or a number, got %s", string(data))
	}
	*m = n != 0
	return nil
}

var deviceIDValidator = z.String().Min(1).Max(256).Required()

// Parse is a pure function of raw. Any error wraps ErrPayloadInvalid.
func (p *Parser) Parse(raw []byte) (*models.Reading, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, payloadInvalid("empty payload")
	}

	var doc uplinkDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, payloadInvalid("undecodable document: %v", err)
	}

	reading := &models.Reading{
		DeviceID:      strings.TrimSpace(doc.DeviceID),
		ApplicationID: strings.TrimSpace(doc.ApplicationID),
	}
	if doc.EndDeviceIDs != nil {
		if id := strings.TrimSpace(doc.EndDeviceIDs.DeviceID); id != "" {
			reading.DeviceID = id
		}
		if app := strings.TrimSpace(doc.EndDeviceIDs.ApplicationIDs.ApplicationID); app != "" {
			reading.ApplicationID = app
		}
	}

	if issues := deviceIDValidator.Validate(&reading.DeviceID); issues != nil {
		return nil, payloadInvalid("device id: %v", issues)
	}

	values := doc.sensorValues
	if doc.UplinkMessage != nil && doc.UplinkMessage.DecodedPayload != nil {
		values = *doc.UplinkMessage.DecodedPayload
	}
	reading.Temperature = values.Temperature
	reading.Humidity = values.Humidity
	reading.Light = values.Light
	reading.Vdd = values.Vdd
	if values.Motion != nil {
		motion := bool(*values.Motion)
		reading.Motion = &motion
	}

	var missing []string
	for _, f := range p.required {
		if !reading.Present(f) {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, payloadInvalid("missing required field(s) %s for device %q", strings.Join(missing, ","), reading.DeviceID)
	}

	return reading, nil
}
