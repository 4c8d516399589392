package queue

import (
	"context"
	"hash/fnv"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/api/metrics"
	"github.com/prepinter/prepinter/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Recorder persists one activity event.
type Recorder interface {
	Record(ctx context.Context, e domain.ActivityEvent) error
}

// Dispatcher routes activity events to a fixed set of workers using
// consistent hashing on the user ID, preserving per-user event ordering.
// It implements ports.ActivityPublisher.
type Dispatcher struct {
	workers  []chan domain.ActivityEvent
	recorder Recorder
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to bufferSize events. Non-positive values fall back to the
// defaults.
func NewDispatcher(numWorkers, bufferSize int, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = channelBuffer
	}
	d := &Dispatcher{
		workers:  make([]chan domain.ActivityEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, bufferSize)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after draining what is already buffered.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands e to the worker responsible for its user. It never blocks:
// when that worker's buffer is full the event is dropped and counted.
func (d *Dispatcher) Publish(e domain.ActivityEvent) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	idx := d.shardIndex(e.UserID)
	select {
	case d.workers[idx] <- e:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityEventsTotal.WithLabelValues(string(e.Type), "dropped").Inc()
		d.log.Warn().
			Str("user_id", e.UserID).
			Str("type", string(e.Type)).
			Int("worker_id", idx).
			Msg("activity queue full, event dropped")
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case e := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, e)
		}
	}
}

// drain records events still buffered at shutdown under a fresh deadline.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	for {
		select {
		case e := <-ch:
			d.process(drainCtx, id, e)
		default:
			return
		}
	}
}

// process records one event. A panic in the recorder is contained to this
// event so the worker keeps serving its shard.
func (d *Dispatcher) process(ctx context.Context, id int, e domain.ActivityEvent) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.PanicsRecoveredTotal.WithLabelValues("worker").Inc()
			metrics.ActivityEventsTotal.WithLabelValues(string(e.Type), "error").Inc()
			d.log.Error().
				Err(&domain.PanicError{Value: r, Stack: debug.Stack()}).
				Str("user_id", e.UserID).
				Int("worker_id", id).
				Msg("recovered from panic in activity worker")
		}
	}()

	err := d.recorder.Record(ctx, e)
	metrics.ActivityProcessingDuration.WithLabelValues(string(e.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ActivityEventsTotal.WithLabelValues(string(e.Type), "error").Inc()
		d.log.Error().Err(err).
			Str("user_id", e.UserID).
			Str("type", string(e.Type)).
			Int("worker_id", id).
			Msg("activity processing failed")
		return
	}
	metrics.ActivityEventsTotal.WithLabelValues(string(e.Type), "recorded").Inc()
}
