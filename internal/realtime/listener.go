package realtime

// Package realtime subscribes to the backend's order broadcast channel and
// dispatches validated OrderCreated events. Delivery is at-most-once and
// best-effort; reconnection is whatever go-redis does by default.

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/yupiflow/admin-gateway/internal/domain/order"
	"github.com/yupiflow/admin-gateway/internal/observability/statsd"
)

// ListenerOptions groups dependencies for Listener.
type ListenerOptions struct {
	// Client is the pub/sub connection. A nil client produces a no-op
	// listener, matching contexts with no broadcaster available.
	Client  redis.UniversalClient
	Channel string
	// OnEvent is invoked once per validated event. Optional.
	OnEvent func(order.Event)
	Logger  *slog.Logger
	Metrics statsd.Sink // optional
}

// Listener holds a subscription to the orders channel and tracks the
// latest event seen.
type Listener struct {
	client  redis.UniversalClient
	channel string
	onEvent func(order.Event)
	logger  *slog.Logger
	metrics statsd.Sink

	mu     sync.Mutex
	latest *order.Event
	sub    *redis.PubSub
	done   chan struct{}
}

// NewListener constructs a listener. It does not subscribe until Start.
func NewListener(opts ListenerOptions) *Listener {
	channel := opts.Channel
	if channel == "" {
		channel = "orders"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		client:  opts.Client,
		channel: channel,
		onEvent: opts.OnEvent,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Start opens the channel subscription and begins dispatching events.
// With no client configured it is a no-op and returns nil.
func (l *Listener) Start(ctx context.Context) error {
	if l.client == nil {
		l.logger.InfoContext(ctx, "realtime listener disabled: no broadcaster configured")
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sub != nil {
		return nil // already started
	}

	sub := l.client.Subscribe(ctx, l.channel)
	// Force the subscription onto the wire before returning so callers can
	// rely on events published after Start being delivered.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	l.sub = sub
	l.done = make(chan struct{})
	go l.run(sub.Channel(), l.done)

	l.logger.InfoContext(ctx, "realtime listener subscribed", "channel", l.channel)
	return nil
}

func (l *Listener) run(messages <-chan *redis.Message, done chan struct{}) {
	defer close(done)
	for msg := range messages {
		evt, err := order.ParseEnvelope([]byte(msg.Payload))
		if err != nil {
			// Malformed or unknown events are rejected, not passed through.
			l.logger.Warn("dropping realtime message", "channel", l.channel, "error", err)
			l.count("realtime.rejected")
			continue
		}

		l.mu.Lock()
		copied := evt
		l.latest = &copied
		callback := l.onEvent
		l.mu.Unlock()

		l.count("realtime.order_created")
		if callback != nil {
			callback(evt)
		}
	}
}

// Latest returns the most recently seen event, if any.
func (l *Listener) Latest() (order.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.latest == nil {
		return order.Event{}, false
	}
	return *l.latest, true
}

// Close unsubscribes and stops dispatching. Safe to call on a listener
// that never started.
func (l *Listener) Close() error {
	l.mu.Lock()
	sub := l.sub
	done := l.done
	l.sub = nil
	l.done = nil
	l.mu.Unlock()

	if sub == nil {
		return nil
	}
	err := sub.Close()
	if done != nil {
		<-done
	}
	return err
}

func (l *Listener) count(name string) {
	if l.metrics == nil {
		return
	}
	l.metrics.Count(name, 1, map[string]string{"channel": l.channel})
}
