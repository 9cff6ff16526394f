package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/internal/models"
	"github.com/noah-isme/campus-enrollment/pkg/eventbus"
	"github.com/noah-isme/campus-enrollment/pkg/jobs"
)

type eventRelay interface {
	Enabled() bool
	Publish(ctx context.Context, channel string, payload interface{}) error
}

type reportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RelayEvent is the payload forwarded to external subscribers.
type RelayEvent struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationService owns the listeners attached to the event bus and the
// queues behind the asynchronous ones.
type NotificationService struct {
	bus    *eventbus.Bus
	logger *zap.Logger

	mu    sync.Mutex
	subs  []*eventbus.Subscription
	async []*eventbus.AsyncListener
}

// NewNotificationService constructs the service around bus.
func NewNotificationService(bus *eventbus.Bus, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{bus: bus, logger: logger}
}

// Attach subscribes a listener that runs on the publisher's goroutine.
func (s *NotificationService) Attach(l eventbus.Listener) *eventbus.Subscription {
	sub := s.bus.Subscribe(l)
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub
}

// AttachAsync subscribes l behind a worker queue. The queue starts with
// Start.
func (s *NotificationService) AttachAsync(name string, l eventbus.Listener, cfg jobs.QueueConfig) *eventbus.AsyncListener {
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	async := eventbus.NewAsyncListener(name, l, cfg)
	s.Attach(async)
	s.mu.Lock()
	s.async = append(s.async, async)
	s.mu.Unlock()
	return async
}

// Start launches the workers of every asynchronous listener.
func (s *NotificationService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.async {
		a.Start(ctx)
	}
}

// Stop detaches every listener and drains the asynchronous queues.
func (s *NotificationService) Stop() {
	s.mu.Lock()
	subs, async := s.subs, s.async
	s.subs, s.async = nil, nil
	s.mu.Unlock()

	for _, sub := range subs {
		s.bus.Unsubscribe(sub)
	}
	for _, a := range async {
		a.Stop()
	}
}

// LoggingListener writes every notification to the log.
func LoggingListener(logger *zap.Logger) eventbus.Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return eventbus.ListenerFunc(func(topic, message string) {
		logger.Info("notification", zap.String("topic", topic), zap.String("message", message))
	})
}

// MetricsListener counts notifications per topic.
func MetricsListener(metrics *MetricsService) eventbus.Listener {
	return eventbus.ListenerFunc(func(topic, _ string) {
		metrics.ObserveEvent(topic)
	})
}

// RelayListener forwards notifications to Redis pub/sub on
// "<prefix>:<topic>".
type RelayListener struct {
	relay   eventRelay
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
	newID   func() string
	now     func() time.Time
}

// NewRelayListener constructs the relay listener.
func NewRelayListener(relay eventRelay, prefix string, logger *zap.Logger) *RelayListener {
	if prefix == "" {
		prefix = "campus.events"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelayListener{relay: relay, prefix: prefix, timeout: 5 * time.Second, logger: logger, newID: uuid.NewString, now: time.Now}
}

// Notify implements eventbus.Listener. Failures are logged.
func (l *RelayListener) Notify(topic, message string) {
	if err := l.Deliver(topic, message); err != nil {
		l.logger.Warn("event relay failed", zap.String("topic", topic), zap.Error(err))
	}
}

// Deliver implements eventbus.Deliverer so failed publishes are retried when
// the listener runs behind an AsyncListener.
func (l *RelayListener) Deliver(topic, message string) error {
	if l.relay == nil || !l.relay.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	event := RelayEvent{ID: l.newID(), Topic: topic, Message: message, OccurredAt: l.now().UTC()}
	return l.relay.Publish(ctx, l.prefix+":"+topic, event)
}

// CacheInvalidationListener drops cached reports whenever seat usage
// changes.
type CacheInvalidationListener struct {
	reports reportInvalidator
	topics  map[string]struct{}
	logger  *zap.Logger
}

// NewCacheInvalidationListener reacts to enrollment, drop and capacity
// notifications.
func NewCacheInvalidationListener(reports reportInvalidator, logger *zap.Logger) *CacheInvalidationListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidationListener{
		reports: reports,
		topics: map[string]struct{}{
			models.TopicEnrollment: {},
			models.TopicDrop:       {},
			models.TopicCapacity:   {},
		},
		logger: logger,
	}
}

// Notify implements eventbus.Listener.
func (l *CacheInvalidationListener) Notify(topic, message string) {
	if err := l.Deliver(topic, message); err != nil {
		l.logger.Warn("report cache invalidation failed", zap.String("topic", topic), zap.Error(err))
	}
}

// Deliver implements eventbus.Deliverer.
func (l *CacheInvalidationListener) Deliver(topic, _ string) error {
	if _, ok := l.topics[topic]; !ok {
		return nil
	}
	return l.reports.Invalidate(context.Background())
}
