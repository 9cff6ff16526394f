package eventbus

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-enrollment/pkg/jobs"
)

// Deliverer is implemented by listeners whose delivery can fail. When the
// wrapped listener of an AsyncListener is a Deliverer, failed deliveries are
// retried by the queue.
type Deliverer interface {
	Deliver(topic, message string) error
}

type notification struct {
	topic   string
	message string
}

// AsyncListener hands notifications to a worker queue so the wrapped
// listener runs off the publisher's goroutine. Delivery order across workers
// is not guaranteed when more than one worker is configured.
type AsyncListener struct {
	inner  Listener
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAsyncListener wraps inner with a queue configured by cfg.
func NewAsyncListener(name string, inner Listener, cfg jobs.QueueConfig) *AsyncListener {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	a := &AsyncListener{inner: inner, logger: cfg.Logger}
	a.queue = jobs.NewQueue(name, a.handle, cfg)
	return a
}

// Start launches the queue workers.
func (a *AsyncListener) Start(ctx context.Context) {
	a.queue.Start(ctx)
}

// Stop drains pending notifications and stops the workers.
func (a *AsyncListener) Stop() {
	a.queue.Stop()
}

// Notify enqueues the notification. Failures are logged, never returned.
func (a *AsyncListener) Notify(topic, message string) {
	err := a.queue.Enqueue(jobs.Job{Type: topic, Payload: notification{topic: topic, message: message}})
	if err != nil {
		a.logger.Warn("async notification dropped", zap.String("topic", topic), zap.Error(err))
	}
}

func (a *AsyncListener) handle(_ context.Context, job jobs.Job) (err error) {
	n, ok := job.Payload.(notification)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	if d, ok := a.inner.(Deliverer); ok {
		return d.Deliver(n.topic, n.message)
	}
	a.inner.Notify(n.topic, n.message)
	return nil
}
