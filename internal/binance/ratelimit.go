package binance

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Rate-limit domains and request weights for the endpoints this client
// uses. Each domain has an independent per-minute weight budget on the
// exchange side, so each gets its own Limiter instance.
const (
	APIRateLimit     = 6000   // /api request weight per minute, per IP
	SAPIIPRateLimit  = 12000  // /sapi request weight per minute, per IP
	SAPIUIDRateLimit = 180000 // /sapi request weight per minute, per UID

	AutoInvestHistoryWeightIP = 1
	ConvertTradeFlowWeightUID = 3000
	AvgPriceWeightIP          = 2

	// RateWindow is the wall-clock window the weight budgets roll over.
	RateWindow = time.Minute
)

// Task is a unit of deferred work tracked by a Limiter. It runs only when
// the owning batch is flushed.
type Task[T any] func(ctx context.Context) (T, error)

// Limiter batches weighted tasks and executes a whole batch concurrently
// whenever admitting the next task would exceed the weight budget, or the
// time window has elapsed since the last flush. It is not a token bucket: a
// single counter plus a flush timestamp bound burstiness per wall-clock
// window.
//
// A Limiter is driven by a single goroutine; Submit, Flush, and Drain must
// not be called concurrently. One Limiter must be dedicated per rate-limit
// domain — domains never share a weight counter.
type Limiter[T any] struct {
	rateLimit int
	window    time.Duration

	weight    int
	lastFlush time.Time
	tasks     []Task[T]
	results   []T
}

// NewLimiter creates a Limiter with the given weight budget per time
// window.
func NewLimiter[T any](rateLimit int, window time.Duration) *Limiter[T] {
	return &Limiter[T]{
		rateLimit: rateLimit,
		window:    window,
		lastFlush: time.Now(),
	}
}

// Submit enqueues a task with its weight. If admitting the task would
// exceed the weight budget, or the time window has elapsed since the last
// flush, the pending batch is flushed first. The returned error aggregates
// task errors from such an implicit flush; the task itself is enqueued
// either way.
func (l *Limiter[T]) Submit(ctx context.Context, weight int, task Task[T]) error {
	var err error
	if l.weight+weight > l.rateLimit || time.Since(l.lastFlush) >= l.window {
		err = l.Flush(ctx)
	}

	l.tasks = append(l.tasks, task)
	l.weight += weight
	return err
}

// Flush runs every pending task concurrently and blocks until all have
// finished. Results are accumulated in submission order regardless of
// completion order, so callers can pair them with their originating
// requests. The queue, the weight counter, and the flush timer are reset.
// Task errors are joined into the returned error; a failed task leaves the
// zero value at its result position.
func (l *Limiter[T]) Flush(ctx context.Context) error {
	defer func() {
		l.tasks = nil
		l.weight = 0
		l.lastFlush = time.Now()
	}()

	if len(l.tasks) == 0 {
		return nil
	}

	results := make([]T, len(l.tasks))
	errs := make([]error, len(l.tasks))

	var wg sync.WaitGroup
	for i, task := range l.tasks {
		wg.Add(1)
		go func(i int, task Task[T]) {
			defer wg.Done()
			results[i], errs[i] = task(ctx)
		}(i, task)
	}
	wg.Wait()

	l.results = append(l.results, results...)
	return errors.Join(errs...)
}

// Drain returns the results accumulated by previous flushes and clears
// them. A second call without an intervening flush returns nothing.
func (l *Limiter[T]) Drain() []T {
	results := l.results
	l.results = nil
	return results
}
