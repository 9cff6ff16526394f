// Package eventbus is an in-process publish/subscribe hub.
//
// Publish is a direct, synchronous fan-out on the caller's goroutine: a slow
// listener slows the publisher down. Wrap such listeners with AsyncListener
// to move them onto a worker queue.
package eventbus

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Listener receives published notifications.
type Listener interface {
	Notify(topic, message string)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(topic, message string)

// Notify calls f(topic, message).
func (f ListenerFunc) Notify(topic, message string) {
	f(topic, message)
}

// Subscription identifies one registration. Registering the same listener
// twice yields two subscriptions and two deliveries per event.
type Subscription struct {
	listener Listener
}

// Bus fans published messages out to registered listeners in registration
// order. It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	logger *zap.Logger
	closed bool
}

// New constructs an empty bus.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger}
}

// Subscribe appends the listener and returns its subscription handle.
func (b *Bus) Subscribe(l Listener) *Subscription {
	sub := &Subscription{listener: l}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub
}

// SubscribeFunc is Subscribe for plain functions.
func (b *Bus) SubscribeFunc(fn func(topic, message string)) *Subscription {
	return b.Subscribe(ListenerFunc(fn))
}

// Unsubscribe removes the registration. It reports whether it was present.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of active registrations.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers (topic, message) to every listener registered at the time
// of the call. A panicking listener is logged and skipped; it never reaches
// the publisher and never stops delivery to the remaining listeners.
func (b *Bus) Publish(topic, message string) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	snapshot := append([]*Subscription(nil), b.subs...)
	b.mu.RUnlock()

	b.logger.Debug("event published", zap.String("topic", topic), zap.String("message", message), zap.Int("listeners", len(snapshot)))
	for _, sub := range snapshot {
		b.deliver(sub, topic, message)
	}
}

// Close drops every registration; later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	b.subs = nil
	b.closed = true
	b.mu.Unlock()
}

func (b *Bus) deliver(sub *Subscription, topic, message string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("listener panicked",
				zap.String("topic", topic),
				zap.String("listener", fmt.Sprintf("%T", sub.listener)),
				zap.Any("panic", r),
			)
		}
	}()
	sub.listener.Notify(topic, message)
}
