package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "liyu1981.xyz/sensor-telemetry-service/pkg/testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.DBType)
	assert.Equal(t, "sensordata.db", cfg.DBPath)
	assert.Equal(t, ":1080", cfg.HTTPHostPort)
	assert.Equal(t, "v3/+/devices/+/up", cfg.MQTTTopic)
	assert.Equal(t, byte(1), cfg.MQTTQoS)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.Equal(t, 30*time.Second, cfg.MaxBackoff)
	assert.Equal(t, []string{"temperature", "humidity", "motion", "light", "vdd"}, cfg.RequiredFields)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TELEMETRY_DB_TYPE", "memory")
	t.Setenv("TELEMETRY_MQTT_TOPIC", "sensors/#")
	t.Setenv("TELEMETRY_MAX_BACKOFF", "1m")
	t.Setenv("TELEMETRY_REQUIRED_FIELDS", "temperature,vdd")
	t.Setenv("TELEMETRY_UTC_OFFSET", "+02:00")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DBType)
	assert.Equal(t, "sensors/#", cfg.MQTTTopic)
	assert.Equal(t, time.Minute, cfg.MaxBackoff)
	assert.Equal(t, []string{"temperature", "vdd"}, cfg.RequiredFields)

	loc, err := cfg.Location()
	require.NoError(t, err)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7200, offset)
}

func TestLoad_EdgeCases(t *testing.T) {
	{
		t.Setenv("TELEMETRY_DB_TYPE", "postgres")
		_, err := Load("does-not-exist.env")
		assert.Error(t, err)
		t.Setenv("TELEMETRY_DB_TYPE", "file")
	}

	{
		t.Setenv("TELEMETRY_MQTT_QOS", "3")
		_, err := Load("does-not-exist.env")
		assert.Error(t, err)
		t.Setenv("TELEMETRY_MQTT_QOS", "1")
	}

	{
		t.Setenv("TELEMETRY_INITIAL_BACKOFF", "10s")
		t.Setenv("TELEMETRY_MAX_BACKOFF", "1s")
		_, err := Load("does-not-exist.env")
		assert.Error(t, err)
	}
}

func TestParseUTCOffset(t *testing.T) {
	cases := map[string]int{
		"":       0,
		"Z":      0,
		"+00:00": 0,
		"+02:00": 2 * 3600,
		"-05:30": -(5*3600 + 30*60),
	}
	for in, want := range cases {
		loc, err := ParseUTCOffset(in)
		require.NoError(t, err, in)
		_, offset := time.Date(2024, 6, 1, 12, 0, 0, 0, loc).Zone()
		assert.Equal(t, want, offset, in)
	}

	for _, bad := range []string{"2", "+2:00", "+25:00", "+02:75", "Europe/Berlin"} {
		_, err := ParseUTCOffset(bad)
		assert.Error(t, err, bad)
	}
}
