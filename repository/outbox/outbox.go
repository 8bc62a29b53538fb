package outbox

import (
	"context"
	"time"

	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/utils/logger"
	"go.uber.org/zap"
)

// Sink receives one durable write per mutation the engine produces. The MySQL
// implementation lives in repository/persistence.
type Sink interface {
	SaveStockLevel(ctx context.Context, level model.StockLevel) error
	SaveMovement(ctx context.Context, movement model.MovementRecord) error
	SaveOrder(ctx context.Context, order model.ReplenishmentOrder) error
	SaveShelfLifeWindow(ctx context.Context, window model.ShelfLifeWindow) error
	SaveUnfulfilledDemand(ctx context.Context, demand model.UnfulfilledDemand) error
}

// Recorder is what the engine components see: fire-and-forget journaling of
// committed mutations. The in-memory commit never waits on durable storage.
type Recorder interface {
	RecordLevel(level model.StockLevel)
	RecordMovement(movement model.MovementRecord)
	RecordOrder(order model.ReplenishmentOrder)
	RecordWindow(window model.ShelfLifeWindow)
	RecordDemand(demand model.UnfulfilledDemand)
}

type jobKind int

const (
	jobLevel jobKind = iota
	jobMovement
	jobOrder
	jobWindow
	jobDemand
)

type job struct {
	kind     jobKind
	level    model.StockLevel
	movement model.MovementRecord
	order    model.ReplenishmentOrder
	window   model.ShelfLifeWindow
	demand   model.UnfulfilledDemand
}

// Outbox queues persistence jobs and flushes them on a background worker with
// bounded retries. A job that exhausts its retries is logged and dropped; the
// in-memory state stays the source of truth and a manual resync is expected
// later.
type Outbox struct {
	sink        Sink
	jobs        chan job
	maxAttempts int
	baseDelay   time.Duration
	done        chan struct{}
}

// Option tweaks worker behavior, mainly for tests.
type Option func(*Outbox)

func WithMaxAttempts(n int) Option {
	return func(o *Outbox) { o.maxAttempts = n }
}

func WithBaseDelay(d time.Duration) Option {
	return func(o *Outbox) { o.baseDelay = d }
}

func WithQueueSize(n int) Option {
	return func(o *Outbox) { o.jobs = make(chan job, n) }
}

func New(sink Sink, opts ...Option) *Outbox {
	o := &Outbox{
		sink:        sink,
		jobs:        make(chan job, 1024),
		maxAttempts: 5,
		baseDelay:   200 * time.Millisecond,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start launches the background worker. Cancel the context to stop it; Wait
// blocks until the queue drains and the worker exits.
func (o *Outbox) Start(ctx context.Context) {
	go func() {
		defer close(o.done)
		for {
			select {
			case <-ctx.Done():
				// drain what is already queued before exiting
				for {
					select {
					case j := <-o.jobs:
						o.flush(context.Background(), j)
					default:
						return
					}
				}
			case j := <-o.jobs:
				o.flush(ctx, j)
			}
		}
	}()
}

// Wait blocks until the worker has stopped.
func (o *Outbox) Wait() {
	<-o.done
}

func (o *Outbox) flush(ctx context.Context, j job) {
	var err error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		err = o.apply(ctx, j)
		if err == nil {
			return
		}
		if attempt < o.maxAttempts {
			select {
			case <-time.After(o.baseDelay << (attempt - 1)):
			case <-ctx.Done():
			}
		}
	}
	logger.Error("[Outbox] dropping job after retries exhausted",
		zap.Int("kind", int(j.kind)), zap.String("error", err.Error()))
}

func (o *Outbox) apply(ctx context.Context, j job) error {
	switch j.kind {
	case jobLevel:
		return o.sink.SaveStockLevel(ctx, j.level)
	case jobMovement:
		return o.sink.SaveMovement(ctx, j.movement)
	case jobOrder:
		return o.sink.SaveOrder(ctx, j.order)
	case jobWindow:
		return o.sink.SaveShelfLifeWindow(ctx, j.window)
	case jobDemand:
		return o.sink.SaveUnfulfilledDemand(ctx, j.demand)
	}
	return nil
}

func (o *Outbox) enqueue(j job) {
	select {
	case o.jobs <- j:
	default:
		logger.Error("[Outbox] queue full, dropping job", zap.Int("kind", int(j.kind)))
	}
}

func (o *Outbox) RecordLevel(level model.StockLevel) {
	o.enqueue(job{kind: jobLevel, level: level})
}

func (o *Outbox) RecordMovement(movement model.MovementRecord) {
	o.enqueue(job{kind: jobMovement, movement: movement})
}

func (o *Outbox) RecordOrder(order model.ReplenishmentOrder) {
	o.enqueue(job{kind: jobOrder, order: order})
}

func (o *Outbox) RecordWindow(window model.ShelfLifeWindow) {
	o.enqueue(job{kind: jobWindow, window: window})
}

func (o *Outbox) RecordDemand(demand model.UnfulfilledDemand) {
	o.enqueue(job{kind: jobDemand, demand: demand})
}
