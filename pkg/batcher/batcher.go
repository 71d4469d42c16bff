// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Config controls when a batch is flushed.
type Config struct {
	// Size flushes as soon as this many items are buffered.
	Size int
	// Interval flushes whatever is buffered on every tick.
	Interval time.Duration
	// RPS caps flush calls per second.
	RPS int
	// Capacity bounds the queue in front of the buffer; defaults to 2·Size.
	Capacity int
}

// FlushObserver is told about every flush attempt.
type FlushObserver func(err error, size int, started time.Time)

// Batcher buffers items and flushes them either by size or interval.
type Batcher[T any] struct {
	flush    func(context.Context, []T) error
	observe  FlushObserver
	itemsCh  chan T
	size     int
	interval time.Duration
	rl       ratelimit.Limiter
	logger   *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// Option customises a Batcher.
type Option[T any] func(*Batcher[T])

// WithFlushObserver registers fn to observe flush outcomes.
func WithFlushObserver[T any](fn FlushObserver) Option[T] {
	return func(b *Batcher[T]) {
		b.observe = fn
	}
}

// New constructs a Batcher.
func New[T any](logger *zap.Logger, flush func(context.Context, []T) error, cfg Config, opts ...Option[T]) *Batcher[T] {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = cfg.Size * 2
	}

	b := &Batcher[T]{
		logger:   logger,
		flush:    flush,
		observe:  func(error, int, time.Time) {},
		itemsCh:  make(chan T, cfg.Capacity),
		size:     cfg.Size,
		interval: cfg.Interval,
		rl:       ratelimit.New(cfg.RPS),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop stops the loop after flushing everything already queued. It is safe
// to call more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// TryAdd queues an item without blocking and reports whether it was accepted.
func (b *Batcher[T]) TryAdd(item T) bool {
	select {
	case <-b.stop:
		return false
	default:
	}

	select {
	case b.itemsCh <- item:
		return true
	default:
		return false
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	buf := make([]T, 0, b.size)

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		started := time.Now()
		err := b.flush(ctx, buf)
		b.observe(err, len(buf), started)
		if err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
		} else {
			b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
		}
		buf = buf[:0]
	}

	drain := func() {
		// The run context may already be canceled; the final flush gets its own.
		final := context.WithoutCancel(ctx)
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
				if len(buf) >= b.size {
					flush(final)
				}
			default:
				flush(final)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return

		case <-b.stop:
			drain()
			return

		case item := <-b.itemsCh:
			buf = append(buf, item)
			if len(buf) >= b.size {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
