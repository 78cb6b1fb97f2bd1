package persist

import "time"

type options struct {
	buffer     int
	batch      int
	retries    int
	backoff    time.Duration
	maxBackoff time.Duration
	metrics    *Metrics
}

func defaultOptions() options {
	return options{
		buffer:     1024,
		batch:      64,
		retries:    3,
		backoff:    50 * time.Millisecond,
		maxBackoff: 2 * time.Second,
	}
}

// Option configures a Sidecar.
type Option func(*options)

// WithBuffer sets how many events may wait for Run before Offer drops.
func WithBuffer(n int) Option {
	return func(o *options) {
		o.buffer = max(n, 0)
	}
}

// WithBatch sets the most events written in one store call.
func WithBatch(n int) Option {
	return func(o *options) {
		o.batch = max(n, 1)
	}
}

// WithRetries sets how many times a failed write is retried before its
// events are dropped.
func WithRetries(n int) Option {
	return func(o *options) {
		o.retries = max(n, 0)
	}
}

// WithBackoff sets the first retry delay and its cap. The delay doubles
// after every failed attempt.
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(o *options) {
		o.backoff = initial
		o.maxBackoff = max(maxDelay, initial)
	}
}

// WithMetrics makes the sidecar count into m, typically created with
// NewMetrics and a registry.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
