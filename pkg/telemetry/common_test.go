package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/sensor-telemetry-service/pkg/db"
	"liyu1981.xyz/sensor-telemetry-service/pkg/telemetry/mocks"
)

func GetMockTelemetryWithMemorySqliteDialector(t *testing.T, useMockRegistry, useMockStore bool) (
	*gomock.Controller,
	*Telemetry,
	*mocks.MockIRegistry,
	*mocks.MockIStore,
) {
	ctrl := gomock.NewController(t)

	mockIRegistry := mocks.NewMockIRegistry(ctrl)
	mockIStore := mocks.NewMockIStore(ctrl)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbInstance.Close() })

	telemetryInstance := &Telemetry{Db: *dbInstance}

	registryService := telemetryInstance.GetIRegistry()
	if useMockRegistry {
		registryService = mockIRegistry
	}

	storeService := telemetryInstance.GetIStore()
	if useMockStore {
		storeService = mockIStore
	}

	telemetryInstance.WithServices(ServiceOpts{
		Registry: registryService,
		Store:    storeService,
		Query:    telemetryInstance.GetIQuery(),
		Ingest:   telemetryInstance.GetIIngest(),
	})

	return ctrl, telemetryInstance, mockIRegistry, mockIStore
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func flatPayload(deviceID string, temperature float64) []byte {
	return fmt.Appendf(nil,
		`{"device_id":%q,"application_id":"app-1","temperature":%v,"humidity":55.5,"motion":false,"light":120,"vdd":3600}`,
		deviceID, temperature)
}

func ptr[T any](v T) *T {
	return &v
}
