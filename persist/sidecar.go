// Package persist writes committed ink events to a store.Store in the
// background.
//
// A Sidecar sits behind a session's ink.CommitSink port. Offering an event
// never blocks: when the buffer is full the event is dropped, logged and
// counted. Failed writes are retried with exponential backoff and dropped
// once the retry budget is spent, so storage trouble never reaches the
// drawing session.
//
//	sc := persist.New(st)
//	go sc.Run(ctx)
//	defer sc.Close()
//
//	id := store.NewID()
//	s, err := ink.NewSession(ink.WithCommitSink(sc.Sink(id)))
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/store"
)

// ErrRunning is returned by Run when the sidecar is already running.
var ErrRunning = errors.New("persist: sidecar already running")

// record is one offered event, or a clear of the log of id.
type record struct {
	id    string
	ev    ink.RawEvent
	clear bool
}

// Sidecar buffers committed events and persists them from Run.
type Sidecar struct {
	st      store.Store
	opts    options
	metrics *Metrics

	in chan record

	mu      sync.RWMutex // guards closed and the send side of in
	closed  bool
	running bool
}

// New creates a sidecar writing to st. Call Run to start persisting.
func New(st store.Store, opts ...Option) *Sidecar {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := o.metrics
	if m == nil {
		m = NewMetrics(nil)
	}
	return &Sidecar{
		st:      st,
		opts:    o,
		metrics: m,
		in:      make(chan record, o.buffer),
	}
}

// Metrics returns the sidecar counters.
func (s *Sidecar) Metrics() *Metrics {
	return s.metrics
}

// Offer queues ev for the log of id. It reports false when the event was
// dropped because the buffer is full or the sidecar is closed.
func (s *Sidecar) Offer(id string, ev ink.RawEvent) bool {
	return s.offer(record{id: id, ev: ev})
}

// OfferClear queues the deletion of everything persisted for id so far.
// Events offered after it are kept. Like Offer it never blocks.
func (s *Sidecar) OfferClear(id string) bool {
	return s.offer(record{id: id, clear: true})
}

func (s *Sidecar) offer(rec record) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.metrics.Dropped.Inc()
		ink.Logger().Warn("persist: dropped record after close",
			"id", rec.id, "clear", rec.clear, "timestamp", rec.ev.Timestamp)
		return false
	}
	select {
	case s.in <- rec:
		return true
	default:
		s.metrics.Dropped.Inc()
		ink.Logger().Warn("persist: buffer full, dropped record",
			"id", rec.id, "clear", rec.clear, "timestamp", rec.ev.Timestamp)
		return false
	}
}

// sink offers a session's commits and clears to one log.
type sink struct {
	sc *Sidecar
	id string
}

func (k sink) Commit(ev ink.RawEvent) { k.sc.Offer(k.id, ev) }
func (k sink) CommitClear()           { k.sc.OfferClear(k.id) }

// Sink returns a commit sink for the log of id. It implements
// ink.ClearSink, so clearing the session deletes the persisted events too.
func (s *Sidecar) Sink(id string) ink.ClearSink {
	return sink{sc: s, id: id}
}

// Close stops accepting events. Run persists what is still buffered and
// then returns. Close is idempotent.
func (s *Sidecar) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.in)
	return nil
}

// Run persists offered events until Close is called and the buffer is
// drained, or until ctx is done. Events still buffered when ctx ends are
// not written.
func (s *Sidecar) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	s.mu.Unlock()
	ink.Logger().Info("persist: sidecar started", "buffer", s.opts.buffer, "batch", s.opts.batch)

	batch := make([]record, 0, s.opts.batch)
	for {
		select {
		case <-ctx.Done():
			ink.Logger().Info("persist: sidecar stopped", "err", ctx.Err())
			return ctx.Err()
		case rec, ok := <-s.in:
			if !ok {
				ink.Logger().Info("persist: sidecar stopped")
				return nil
			}
			batch = append(batch[:0], rec)
			batch = s.fill(batch)
			if err := s.write(ctx, batch); err != nil {
				return err
			}
		}
	}
}

// fill adds already buffered records to batch without waiting.
func (s *Sidecar) fill(batch []record) []record {
	for len(batch) < s.opts.batch {
		select {
		case rec, ok := <-s.in:
			if !ok {
				return batch
			}
			batch = append(batch, rec)
		default:
			return batch
		}
	}
	return batch
}

// write persists batch in order: one Append per run of events with the
// same id, and one Delete per clear. It only fails when ctx ends.
func (s *Sidecar) write(ctx context.Context, batch []record) error {
	events := make([]ink.RawEvent, 0, len(batch))
	for start := 0; start < len(batch); {
		id := batch[start].id
		if batch[start].clear {
			err := s.withRetry(ctx, "clear", id, 0, func() error {
				return s.st.Delete(ctx, id)
			})
			if err != nil {
				return err
			}
			start++
			continue
		}

		end := start
		events = events[:0]
		for end < len(batch) && batch[end].id == id && !batch[end].clear {
			events = append(events, batch[end].ev)
			end++
		}
		err := s.withRetry(ctx, "append", id, len(events), func() error {
			return s.st.Append(ctx, id, events...)
		})
		if err != nil {
			return err
		}
		start = end
	}
	return nil
}

// withRetry runs op until it succeeds, the retry budget is spent or ctx
// ends. n is the number of events op carries, for the counters.
func (s *Sidecar) withRetry(ctx context.Context, op, id string, n int, fn func() error) error {
	backoff := s.opts.backoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			s.metrics.Persisted.Add(float64(n))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.metrics.Dropped.Add(float64(n))
			return ctxErr
		}
		if attempt >= s.opts.retries {
			s.metrics.Dropped.Add(float64(n))
			ink.Logger().Error("persist: giving up",
				"op", op, "id", id, "events", n, "attempts", attempt+1, "err", err)
			return nil
		}

		s.metrics.Retried.Inc()
		ink.Logger().Warn("persist: write failed, retrying",
			"op", op, "id", id, "attempt", attempt+1, "backoff", backoff, "err", err)

		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			s.metrics.Dropped.Add(float64(n))
			return ctx.Err()
		case <-t.C:
		}
		backoff = min(2*backoff, s.opts.maxBackoff)
	}
}
