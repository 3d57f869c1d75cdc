package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/sensor-telemetry-service/pkg/common"
	"liyu1981.xyz/sensor-telemetry-service/pkg/telemetry"
)

var ErrTransportDisconnected = errors.New("transport disconnected")

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateShuttingDown:
		return "shutting_down"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Message is one transport delivery. Payload is owned by the receiver.
type Message struct {
	Topic   string
	Payload []byte
}

// Subscriber is a message transport. Connect performs the handshake and the
// subscription, then delivers every inbound message to out until the
// connection drops, which is reported once on the returned channel. Close
// releases the current connection and may be followed by another Connect.
type Subscriber interface {
	Connect(ctx context.Context, topic string, out chan<- Message) (<-chan error, error)
	Close()
}

type Options struct {
	Topic          string
	QueueSize      int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Now is the receipt clock source. Defaults to time.Now.
	Now func() time.Time
	// OnStateChange, if set, is called on every state transition from the
	// connection goroutine.
	OnStateChange func(from, to State)
}

const (
	defaultQueueSize      = 256
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 30 * time.Second
)

type Stats struct {
	Processed uint64 `json:"processed"`
	Dropped   uint64 `json:"dropped"`
}

// Pipeline owns the transport connection and feeds every message, one at a
// time and in arrival order, through the ingestion unit.
type Pipeline struct {
	subscriber Subscriber
	ingest     telemetry.IIngest
	opts       Options

	state     atomic.Int32
	processed atomic.Uint64
	dropped   atomic.Uint64

	clock receiptClock
}

func New(subscriber Subscriber, ingest telemetry.IIngest, opts Options) *Pipeline {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = max(defaultMaxBackoff, opts.InitialBackoff)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	p := &Pipeline{
		subscriber: subscriber,
		ingest:     ingest,
		opts:       opts,
		clock:      receiptClock{now: opts.Now},
	}
	p.state.Store(int32(StateDisconnected))
	return p
}

func (p *Pipeline) State() State {
	return State(p.state.Load())
}

func (p *Pipeline) Stats() Stats {
	return Stats{Processed: p.processed.Load(), Dropped: p.dropped.Load()}
}

func (p *Pipeline) setState(to State) {
	from := State(p.state.Swap(int32(to)))
	if from == to {
		return
	}
	common.GetLoggerWith(common.LoggerNameIngestPipeline).
		Info("Pipeline state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	if p.opts.OnStateChange != nil {
		p.opts.OnStateChange(from, to)
	}
}

// Run connects, reconnects with capped exponential backoff after failures,
// and processes messages until ctx is done. Messages already queued when ctx
// is cancelled are still processed before Run returns.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := common.GetLoggerWith(common.LoggerNameIngestPipeline)

	if p.State() == StateShuttingDown {
		return errors.New("pipeline already shut down")
	}

	queue := make(chan Message, p.opts.QueueSize)
	stop := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.consume(context.WithoutCancel(ctx), queue, stop)
	}()

	backoff := p.opts.InitialBackoff

connection:
	for ctx.Err() == nil {
		p.setState(StateConnecting)

		lost, err := p.subscriber.Connect(ctx, p.opts.Topic, queue)
		if err != nil {
			logger.Warn("Failed to connect, retrying",
				zap.Error(err),
				zap.Duration("backoff", backoff))
			if !sleep(ctx, backoff) {
				break connection
			}
			backoff = nextBackoff(backoff, p.opts.MaxBackoff)
			continue
		}

		p.setState(StateSubscribed)
		subscribedAt := time.Now()
		logger.Info("Connected and subscribed", zap.String("topic", p.opts.Topic))

		select {
		case err := <-lost:
			p.subscriber.Close()
			p.setState(StateDisconnected)

			// only a connection that held for a while earns a fresh backoff
			if time.Since(subscribedAt) >= p.opts.MaxBackoff {
				backoff = p.opts.InitialBackoff
			}
			logger.Warn("Connection lost, reconnecting",
				zap.Error(err),
				zap.Duration("backoff", backoff))
			if !sleep(ctx, backoff) {
				break connection
			}
			backoff = nextBackoff(backoff, p.opts.MaxBackoff)
		case <-ctx.Done():
			break connection
		}
	}

	p.setState(StateShuttingDown)
	p.subscriber.Close()
	close(stop)
	wg.Wait()

	stats := p.Stats()
	logger.Info("Pipeline stopped",
		zap.Uint64("processed", stats.Processed),
		zap.Uint64("dropped", stats.Dropped))

	return nil
}

func (p *Pipeline) consume(ctx context.Context, queue <-chan Message, stop <-chan struct{}) {
	for {
		select {
		case msg := <-queue:
			p.handle(ctx, msg)
		case <-stop:
			for {
				select {
				case msg := <-queue:
					p.handle(ctx, msg)
				default:
					return
				}
			}
		}
	}
}

// handle never fails the pipeline: every error ends with the message dropped.
func (p *Pipeline) handle(ctx context.Context, msg Message) {
	logger := common.GetLoggerWith(common.LoggerNameIngestPipeline)

	receivedAt := p.clock.stamp()
	payload, err := p.ingest.IngestPayload(ctx, msg.Payload, receivedAt)
	if err == nil {
		p.processed.Add(1)
		logger.Debug("Processed message",
			zap.String("topic", msg.Topic),
			zap.Uint("payload_id", payload.ID))
		return
	}

	p.dropped.Add(1)
	switch {
	case errors.Is(err, telemetry.ErrPayloadInvalid):
		logger.Warn("Dropped invalid message", zap.String("topic", msg.Topic), zap.Error(err))
	case errors.Is(err, telemetry.ErrRateLimited):
		logger.Warn("Dropped rate limited message", zap.String("topic", msg.Topic))
	default:
		logger.Error("Dropped message after store failure", zap.String("topic", msg.Topic), zap.Error(err))
	}
}

// sleep reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		next = limit
	}
	return next
}

// receiptClock hands out non-decreasing timestamps even if the wall clock
// steps backwards. It is only used from the consumer goroutine.
type receiptClock struct {
	now  func() time.Time
	last time.Time
}

func (c *receiptClock) stamp() time.Time {
	t := c.now()
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}
