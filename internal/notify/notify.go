// Package notify sends best-effort notifications about application events.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mini_blog/internal/logger"
)

// Notifier delivers a short text message to the site operator.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Nop discards every message. It is the default notifier.
type Nop struct{}

func (Nop) Notify(context.Context, string) error { return nil }

const defaultSendTimeout = 15 * time.Second

// AsyncNotifier hands each message to a background goroutine and returns
// immediately, so callers never wait on or fail because of delivery.
type AsyncNotifier struct {
	next    Notifier
	log     *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// Async wraps next. Delivery errors and panics are logged, never returned.
func Async(next Notifier, log *logger.Logger) *AsyncNotifier {
	return &AsyncNotifier{next: next, log: log, timeout: defaultSendTimeout}
}

// Notify schedules delivery and always returns nil. The request context is
// not used: delivery outlives the request that triggered it.
func (a *AsyncNotifier) Notify(_ context.Context, message string) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.deliver(message); err != nil && a.log != nil {
			a.log.Warnw("notify_failed", "err", err)
		}
	}()
	return nil
}

func (a *AsyncNotifier) deliver(message string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("notifier panic: %v", p)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	return a.next.Notify(ctx, message)
}

// Wait blocks until every scheduled delivery has finished.
func (a *AsyncNotifier) Wait() {
	a.wg.Wait()
}
