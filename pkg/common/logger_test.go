package common

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/sensor-telemetry-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestLoggingCapture_NamedWithCategory(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLoggerWith(LoggerNameTelemetryCore, zap.String(LoggerFieldCategory, LoggerCategoryStore))
	logger.Debug("hidden below level")
	logger.Info("Stored reading")

	logOutput := buf.String()
	if strings.Contains(logOutput, "hidden below level") {
		t.Errorf("expected debug message to be filtered, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, `"logger":"telemetry_core"`) ||
		!strings.Contains(logOutput, `"category":"store"`) {
		t.Errorf("expected logger name and category in output, got: %s", logOutput)
	}
}

func TestStdLoggerBridge(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	std := GetStdLogger("paho", zapcore.WarnLevel)
	std.Printf("connection %s", "reset")

	if !strings.Contains(buf.String(), "connection reset") {
		t.Errorf("expected bridged message, got: %s", buf.String())
	}
}

func TestMapperReducer(t *testing.T) {
	doubled := Mapper([]int{1, 2, 3}, func(i int) int { return i * 2 })
	if len(doubled) != 3 || doubled[2] != 6 {
		t.Errorf("unexpected mapped result: %v", doubled)
	}

	sum := Reducer(doubled, func(acc int, i int) int { return acc + i }, 0)
	if sum != 12 {
		t.Errorf("expected 12, got %d", sum)
	}
}
