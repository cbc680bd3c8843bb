package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
)

const (
	defaultBufferSize    = 10000
	defaultBatchSize     = 100
	defaultFlushInterval = time.Second
)

// Tracker receives search events. Implementations must not block.
type Tracker interface {
	Track(event SearchEvent)
}

// Publisher ships a batch of events to a broker. *kafka.Producer satisfies it.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
	Close() error
}

type CollectorOption func(*Collector)

func WithBatchSize(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) CollectorOption {
	return func(c *Collector) {
		if d > 0 {
			c.flushInterval = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) CollectorOption {
	return func(c *Collector) {
		c.metrics = m
	}
}

// Collector buffers events in a bounded channel and publishes them in
// batches from a background goroutine. Track never blocks: when the buffer
// is full the event is dropped.
type Collector struct {
	publisher     Publisher
	eventCh       chan SearchEvent
	batchSize     int
	flushInterval time.Duration
	metrics       *metrics.Metrics
	logger        *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started atomic.Bool
	done    chan struct{}
	dropped atomic.Int64
}

func NewCollector(publisher Publisher, bufferSize int, opts ...CollectorOption) *Collector {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	c := &Collector{
		publisher:     publisher,
		eventCh:       make(chan SearchEvent, bufferSize),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		logger:        slog.Default().With("component", "analytics-collector"),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the publishing loop. It returns immediately.
func (c *Collector) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.run(ctx)
	c.logger.Info("analytics collector started",
		"buffer_size", cap(c.eventCh),
		"batch_size", c.batchSize,
		"flush_interval", c.flushInterval,
	)
}

func (c *Collector) Track(event SearchEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.dropped.Add(1)
		if c.metrics != nil {
			c.metrics.AnalyticsDroppedTotal.Inc()
		}
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

// Close stops accepting events, publishes what is buffered and closes the
// publisher. Events tracked after the Start context was cancelled are
// published here. It is safe to call more than once.
func (c *Collector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.eventCh)
	c.mu.Unlock()

	if c.started.Load() {
		<-c.done
	}
	c.flush(context.Background(), c.drain(nil))
	return c.publisher.Close()
}

func (c *Collector) run(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	batch := make([]SearchEvent, 0, c.batchSize)
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				c.flush(context.Background(), batch)
				return
			}
			batch = append(batch, event)
			if len(batch) >= c.batchSize {
				c.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				c.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			c.flush(context.Background(), c.drain(batch))
			return
		}
	}
}

// drain empties the channel without blocking.
func (c *Collector) drain(batch []SearchEvent) []SearchEvent {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return batch
			}
			batch = append(batch, event)
		default:
			return batch
		}
	}
}

func (c *Collector) flush(ctx context.Context, batch []SearchEvent) {
	for start := 0; start < len(batch); start += c.batchSize {
		end := min(start+c.batchSize, len(batch))
		events := make([]kafka.Event, 0, end-start)
		for _, e := range batch[start:end] {
			events = append(events, kafka.Event{Key: e.Query, Value: e})
		}
		if err := c.publisher.PublishBatch(ctx, events); err != nil {
			c.logger.Error("failed to publish analytics batch",
				"count", len(events),
				"error", err,
			)
		}
	}
}

type multiTracker []Tracker

func (m multiTracker) Track(event SearchEvent) {
	for _, t := range m {
		t.Track(event)
	}
}

// Multi fans an event out to every non-nil tracker. It returns nil when
// none are given.
func Multi(trackers ...Tracker) Tracker {
	var out multiTracker
	for _, t := range trackers {
		if t != nil {
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
