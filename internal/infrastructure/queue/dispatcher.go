package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dsalta/compliance-api/internal/api/metrics"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder persists a single audit event.
type Recorder interface {
	Record(ctx context.Context, evt domain.TaskEvent) error
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// Dispatcher routes task events to a fixed set of workers using consistent
// hashing on the task id, so events of one task are stored in order.
type Dispatcher struct {
	workers  []chan domain.TaskEvent
	recorder Recorder
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.TaskEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TaskEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Cancelling ctx stops the workers
// once they have stored everything already queued; ctx is never handed to the
// recorder.
func (d *Dispatcher) Start(ctx context.Context) {
	recordCtx := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, recordCtx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands evt to the worker responsible for its task. It never blocks:
// when that worker's buffer is full the event is dropped and counted.
func (d *Dispatcher) Enqueue(evt domain.TaskEvent) {
	idx := d.shardIndex(evt.TaskID)
	select {
	case d.workers[idx] <- evt:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditEventsTotal.WithLabelValues(string(evt.Action), "dropped").Inc()
		d.log.Warn().
			Str("task_id", evt.TaskID).
			Str("action", string(evt.Action)).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a task id deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(stop, recordCtx context.Context, id int, ch <-chan domain.TaskEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-stop.Done():
			d.drain(recordCtx, id, label, ch)
			return
		case evt := <-ch:
			d.process(recordCtx, id, label, evt)
		}
	}
}

// drain stores events still buffered at shutdown.
func (d *Dispatcher) drain(ctx context.Context, id int, label string, ch <-chan domain.TaskEvent) {
	for {
		select {
		case evt := <-ch:
			d.process(ctx, id, label, evt)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, label string, evt domain.TaskEvent) {
	metrics.AuditQueueDepth.WithLabelValues(label).Dec()
	if err := d.recorder.Record(ctx, evt); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(evt.Action), "failed").Inc()
		d.log.Error().Err(err).
			Str("task_id", evt.TaskID).
			Int("worker_id", id).
			Msg("audit event processing failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues(string(evt.Action), "stored").Inc()
}
