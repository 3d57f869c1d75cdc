package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/ingest"
)

var errTokenTimeout = errors.New("timed out waiting for broker")

type MQTTConfig struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	ConnectTimeout time.Duration
	KeepAlive      time.Duration
}

// MQTTSubscriber implements ingest.Subscriber on top of paho. Reconnection
// is left to the pipeline, so paho's own auto-reconnect is disabled and each
// Connect builds a fresh client.
type MQTTSubscriber struct {
	cfg       MQTTConfig
	newClient func(*mqtt.ClientOptions) mqtt.Client

	mu     sync.Mutex
	client mqtt.Client
	closed chan struct{}
}

func NewMQTTSubscriber(cfg MQTTConfig) *MQTTSubscriber {
	if cfg.ClientID == "" {
		cfg.ClientID = "telemetry-" + uuid.NewString()
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 30 * time.Second
	}
	return &MQTTSubscriber{cfg: cfg, newClient: mqtt.NewClient}
}

func (s *MQTTSubscriber) ClientID() string {
	return s.cfg.ClientID
}

func (s *MQTTSubscriber) options(lost chan<- error) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetOrderMatters(true).
		SetKeepAlive(s.cfg.KeepAlive)
	if s.cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(s.cfg.ConnectTimeout)
	}
	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		select {
		case lost <- fmt.Errorf("%w: %v", ingest.ErrTransportDisconnected, err):
		default:
		}
	})
	return opts
}

func (s *MQTTSubscriber) Connect(ctx context.Context, topic string, out chan<- ingest.Message) (<-chan error, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMQTTTransport,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTransport),
	)

	s.Close()

	lost := make(chan error, 1)
	closed := make(chan struct{})
	client := s.newClient(s.options(lost))

	if err := waitToken(ctx, client.Connect(), s.cfg.ConnectTimeout); err != nil {
		// a late CONNACK would otherwise leave a session holding our client id
		client.Disconnect(0)
		return nil, fmt.Errorf("connect to %s: %w", s.cfg.Broker, err)
	}

	handler := func(_ mqtt.Client, m mqtt.Message) {
		// the payload outlives the callback
		payload := make([]byte, len(m.Payload()))
		copy(payload, m.Payload())

		select {
		case out <- ingest.Message{Topic: m.Topic(), Payload: payload}:
		case <-closed:
		case <-ctx.Done():
		}
	}

	token := client.Subscribe(topic, s.cfg.QoS, handler)
	if err := waitToken(ctx, token, s.cfg.ConnectTimeout); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	if st, ok := token.(*mqtt.SubscribeToken); ok {
		if qos, found := st.Result()[topic]; found && qos == 0x80 {
			client.Disconnect(0)
			return nil, fmt.Errorf("subscribe to %s: rejected by broker", topic)
		}
	}

	s.mu.Lock()
	s.client = client
	s.closed = closed
	s.mu.Unlock()

	logger.Info("Subscribed",
		zap.String("broker", s.cfg.Broker),
		zap.String("client_id", s.cfg.ClientID),
		zap.String("topic", topic),
		zap.Uint8("qos", s.cfg.QoS))

	return lost, nil
}

// Close is idempotent.
func (s *MQTTSubscriber) Close() {
	s.mu.Lock()
	client, closed := s.client, s.closed
	s.client, s.closed = nil, nil
	s.mu.Unlock()

	if closed != nil {
		close(closed)
	}
	if client != nil {
		client.Disconnect(250)
	}
}

func waitToken(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-expired:
		return errTokenTimeout
	}
}

// InstallLoggers routes paho's internal loggers into zap.
func InstallLoggers(debug bool) {
	mqtt.ERROR = common.GetStdLogger(common.LoggerNameMQTTTransport, zapcore.ErrorLevel)
	mqtt.CRITICAL = common.GetStdLogger(common.LoggerNameMQTTTransport, zapcore.ErrorLevel)
	mqtt.WARN = common.GetStdLogger(common.LoggerNameMQTTTransport, zapcore.WarnLevel)
	if debug {
		mqtt.DEBUG = common.GetStdLogger(common.LoggerNameMQTTTransport, zapcore.DebugLevel)
	}
}
