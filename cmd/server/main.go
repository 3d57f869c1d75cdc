package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/config"
	"liyu1981.xyz/sensor-telemetry-service/pkg/db"
	telemetryGrpc "liyu1981.xyz/sensor-telemetry-service/pkg/grpc"
	telemetryHttp "liyu1981.xyz/sensor-telemetry-service/pkg/http"
	"liyu1981.xyz/sensor-telemetry-service/pkg/ingest"
	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
	"liyu1981.xyz/sensor-telemetry-service/pkg/telemetry"
	"liyu1981.xyz/sensor-telemetry-service/pkg/transport"
)

const shutdownTimeout = 10 * time.Second

// newLimiterStore returns nil when limiting is disabled.
func newLimiterStore(cfg *config.Config) *telemetry.RateLimiterStore {
	if cfg.DefaultRate <= 0 {
		return nil
	}
	return telemetry.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := common.GetLogger()
	transport.InstallLoggers(common.IsDevelopment())

	var dialector gorm.Dialector
	switch cfg.DBType {
	case "file":
		dialector = db.UseSqliteDialector(cfg.DBPath)
	case "memory":
		dialector = db.UseMemorySqliteDialector()
	}

	dbInstance, err := db.Open(dialector)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = dbInstance.Close() }()

	location, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	required, err := models.ParseFields(cfg.RequiredFields)
	if err != nil {
		log.Fatalf("Invalid TELEMETRY_REQUIRED_FIELDS: %v", err)
	}

	telemetryCore := (&telemetry.Telemetry{
		Db:       *dbInstance,
		Location: location,
		Parser:   telemetry.NewParser(required...),
		Limiter:  newLimiterStore(cfg),
	}).WithDefaultServices()

	if err := telemetryCore.CheckStoredOffset(context.Background()); err != nil {
		log.Fatalf("Refusing to start with TELEMETRY_UTC_OFFSET=%s: %v", cfg.UTCOffset, err)
	}

	logger.Info("Telemetry core created with:",
		zap.String("utc_offset", cfg.UTCOffset),
		zap.Strings("required_fields", cfg.RequiredFields),
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthServer := health.NewServer()
	healthServer.SetServingStatus(telemetryGrpc.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	subscriber := transport.NewMQTTSubscriber(transport.MQTTConfig{
		Broker:         cfg.MQTTBroker,
		ClientID:       cfg.MQTTClientID,
		Username:       cfg.MQTTUsername,
		Password:       cfg.MQTTPassword,
		QoS:            cfg.MQTTQoS,
		ConnectTimeout: cfg.ConnectTimeout,
	})

	pipeline := ingest.New(subscriber, telemetryCore.Ingest, ingest.Options{
		Topic:          cfg.MQTTTopic,
		QueueSize:      cfg.QueueSize,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		OnStateChange: func(_, to ingest.State) {
			if to == ingest.StateSubscribed {
				healthServer.SetServingStatus(telemetryGrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
			} else {
				healthServer.SetServingStatus(telemetryGrpc.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
			}
		},
	})

	var wg sync.WaitGroup

	logger.Info("Starting ingestion pipeline",
		zap.String("broker", cfg.MQTTBroker),
		zap.String("client_id", subscriber.ClientID()),
		zap.String("topic", cfg.MQTTTopic))
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := pipeline.Run(ctx); err != nil {
			logger.Error("Ingestion pipeline stopped", zap.Error(err))
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GrpcHostPort != "" {
		telemetryGrpcServer := &telemetryGrpc.TelemetryServer{
			Telemetry:        telemetryCore,
			RateLimiterStore: newLimiterStore(cfg),
		}
		interceptor := telemetryGrpcServer.CreateRateLimitInterceptor([]string{
			telemetryGrpc.GetLatestForFullMethodName,
			telemetryGrpc.GetBatteryFullMethodName,
			telemetryGrpc.GetHistoryFullMethodName,
		})
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(interceptor))
		telemetryGrpc.RegisterTelemetryQueryServer(grpcServer, telemetryGrpcServer)
		healthpb.RegisterHealthServer(grpcServer, healthServer)

		listener, err := net.Listen("tcp", cfg.GrpcHostPort)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}

		logger.Info("Starting gRPC server on " + cfg.GrpcHostPort)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := grpcServer.Serve(listener); err != nil {
				logger.Error("gRPC server failed to serve", zap.Error(err))
			}
		}()
	}

	rs := &telemetryHttp.RestfulServer{
		Server:           gin.Default(),
		Telemetry:        telemetryCore,
		RateLimiterStore: newLimiterStore(cfg),
		Pipeline:         pipeline,
	}
	rs.Setup()

	httpServer := &http.Server{Addr: cfg.HTTPHostPort, Handler: rs.Server}

	logger.Info("Starting HTTP server on: " + cfg.HTTPHostPort)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed to serve", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	healthServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	wg.Wait()
	logger.Info("Stopped")
}
