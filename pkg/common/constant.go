package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	// EnvPrefix is the envconfig prefix, e.g. TELEMETRY_DB_PATH.
	EnvPrefix string = "TELEMETRY"

	EnvKeyDBType string = "TELEMETRY_DB_TYPE"
	EnvKeyDbPath string = "TELEMETRY_DB_PATH"

	DefaultDbPath string = "sensordata.db"

	LoggerNameTelemetryCore  string = "telemetry_core"
	LoggerNameIngestPipeline string = "ingest_pipeline"
	LoggerNameMQTTTransport  string = "mqtt_transport"
	LoggerNameRestfulServer  string = "restful_server"
	LoggerNameGrpcServer     string = "grpc_server"

	LoggerFieldCategory     string = "category"
	LoggerCategoryParser    string = "parser"
	LoggerCategoryRegistry  string = "registry"
	LoggerCategoryStore     string = "store"
	LoggerCategoryQuery     string = "query"
	LoggerCategoryIngest    string = "ingest"
	LoggerCategoryTransport string = "transport"
)
