package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
)

type Config struct {
	DBType string `envconfig:"DB_TYPE" default:"file"`
	DBPath string `envconfig:"DB_PATH" default:"sensordata.db"`

	HTTPHostPort string `envconfig:"HTTP_HOST_PORT" default:":1080"`
	GrpcHostPort string `envconfig:"GRPC_HOST_PORT"`

	MQTTBroker   string `envconfig:"MQTT_BROKER" default:"tcp://localhost:1883"`
	MQTTClientID string `envconfig:"MQTT_CLIENT_ID"`
	MQTTUsername string `envconfig:"MQTT_USERNAME"`
	MQTTPassword string `envconfig:"MQTT_PASSWORD"`
	MQTTTopic    string `envconfig:"MQTT_TOPIC" default:"v3/+/devices/+/up"`
	MQTTQoS      byte   `envconfig:"MQTT_QOS" default:"1"`

	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"10s"`
	InitialBackoff time.Duration `envconfig:"INITIAL_BACKOFF" default:"1s"`
	MaxBackoff     time.Duration `envconfig:"MAX_BACKOFF" default:"30s"`
	QueueSize      int           `envconfig:"QUEUE_SIZE" default:"256"`

	// UTCOffset must not change once a database holds readings: received_at
	// is ordered as text. The server refuses to start on a mismatch.
	UTCOffset      string   `envconfig:"UTC_OFFSET" default:"+00:00"`
	RequiredFields []string `envconfig:"REQUIRED_FIELDS" default:"temperature,humidity,motion,light,vdd"`

	DefaultRate  float64 `envconfig:"DEFAULT_RATE" default:"0"`
	DefaultBurst int     `envconfig:"DEFAULT_BURST" default:"0"`
}

// Load reads an optional .env file and then the TELEMETRY_* environment.
// A missing .env is not an error; the process environment alone is enough.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process(common.EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("unable to build configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "file", "memory":
	default:
		return fmt.Errorf("unknown %s: %q", common.EnvKeyDBType, c.DBType)
	}
	if c.MQTTQoS > 2 {
		return fmt.Errorf("invalid MQTT QoS %d, must be 0, 1 or 2", c.MQTTQoS)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("invalid queue size %d", c.QueueSize)
	}
	if c.InitialBackoff <= 0 || c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("invalid backoff: initial=%v max=%v", c.InitialBackoff, c.MaxBackoff)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the fixed zone used to stamp received_at and to
// interpret history date ranges.
func (c *Config) Location() (*time.Location, error) {
	return ParseUTCOffset(c.UTCOffset)
}

// ParseUTCOffset parses "+HH:MM", "-HH:MM" or "Z" into a fixed zone.
func ParseUTCOffset(offset string) (*time.Location, error) {
	offset = strings.TrimSpace(offset)
	if offset == "" || offset == "Z" || offset == "UTC" {
		return time.FixedZone("+00:00", 0), nil
	}
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return nil, fmt.Errorf("invalid UTC offset %q, expected +HH:MM", offset)
	}
	hours, err := strconv.Atoi(offset[1:3])
	if err != nil || hours > 14 {
		return nil, fmt.Errorf("invalid UTC offset %q, expected +HH:MM", offset)
	}
	minutes, err := strconv.Atoi(offset[4:6])
	if err != nil || minutes > 59 {
		return nil, fmt.Errorf("invalid UTC offset %q, expected +HH:MM", offset)
	}
	seconds := hours*3600 + minutes*60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone(offset, seconds), nil
}
