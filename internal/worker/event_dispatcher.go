package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/notify"
)

// DefaultLease is how long a claimed event stays invisible to other dispatchers.
const DefaultLease = 30 * time.Second

// Outbox exposes the subset of event persistence required by the dispatcher.
type Outbox interface {
	ClaimPending(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]model.Event, error)
	MarkDispatched(ctx context.Context, seq int64) error
	MarkFailed(ctx context.Context, seq int64, reason string) error
}

// DeliveryMetrics observes delivery results.
type DeliveryMetrics interface {
	ObserveDelivery(result string)
}

// Settings tunes the dispatcher pool.
type Settings struct {
	PollInterval time.Duration
	BatchSize    int
	Workers      int
	MaxAttempts  int
	Lease        time.Duration
}

// EventDispatcher polls the outbox and delivers events concurrently.
type EventDispatcher struct {
	outbox     Outbox
	dispatcher notify.Dispatcher
	metrics    DeliveryMetrics
	settings   Settings
	logger     *slog.Logger

	jobs   chan model.Event
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventDispatcher constructs the dispatcher worker pool. metrics may be nil.
func NewEventDispatcher(outbox Outbox, dispatcher notify.Dispatcher, metrics DeliveryMetrics, s Settings, logger *slog.Logger) *EventDispatcher {
	if s.Workers <= 0 {
		s.Workers = 1
	}
	if s.BatchSize <= 0 {
		s.BatchSize = 1
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = 1
	}
	if s.PollInterval <= 0 {
		s.PollInterval = time.Second
	}
	if s.Lease <= 0 {
		s.Lease = DefaultLease
	}
	return &EventDispatcher{
		outbox:     outbox,
		dispatcher: dispatcher,
		metrics:    metrics,
		settings:   s,
		logger:     logger,
	}
}

// Start launches background delivery.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.jobs = make(chan model.Event, d.settings.BatchSize*d.settings.Workers)

	for i := 0; i < d.settings.Workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx, d.jobs)
	}

	d.wg.Add(1)
	go d.poll(runCtx, d.jobs)
}

// Stop cancels delivery and waits for all workers to finish.
func (d *EventDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *EventDispatcher) poll(ctx context.Context, jobs chan<- model.Event) {
	defer d.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(d.settings.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.claimAndDispatch(ctx, jobs)
		}
	}
}

func (d *EventDispatcher) claimAndDispatch(ctx context.Context, jobs chan<- model.Event) {
	events, err := d.outbox.ClaimPending(ctx, d.settings.BatchSize, d.settings.MaxAttempts, d.settings.Lease)
	if err != nil {
		if ctx.Err() == nil {
			d.logger.Error("claim pending events failed", slog.String("error", err.Error()))
		}
		return
	}
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		case jobs <- event:
		}
	}
}

func (d *EventDispatcher) worker(ctx context.Context, jobs <-chan model.Event) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-jobs:
			if !ok {
				return
			}
			d.handleEvent(ctx, event)
		}
	}
}

func (d *EventDispatcher) handleEvent(ctx context.Context, event model.Event) {
	if err := d.dispatcher.Dispatch(ctx, event); err != nil {
		if ctx.Err() != nil {
			// the lease expires and another pass picks the event up
			return
		}
		result := "failed"
		if event.Attempts+1 >= d.settings.MaxAttempts {
			result = "exhausted"
			d.logger.Error("event delivery exhausted",
				slog.Int64("seq", event.Seq),
				slog.Int64("order_id", event.OrderID),
				slog.String("error", err.Error()),
			)
		} else {
			d.logger.Warn("event delivery failed",
				slog.Int64("seq", event.Seq),
				slog.Int("attempt", event.Attempts+1),
				slog.String("error", err.Error()),
			)
		}
		if markErr := d.outbox.MarkFailed(ctx, event.Seq, err.Error()); markErr != nil {
			d.logger.Error("mark event failed", slog.Int64("seq", event.Seq), slog.String("error", markErr.Error()))
		}
		d.observe(result)
		return
	}

	if err := d.outbox.MarkDispatched(ctx, event.Seq); err != nil {
		d.logger.Error("mark event dispatched failed", slog.Int64("seq", event.Seq), slog.String("error", err.Error()))
		return
	}
	d.observe("dispatched")
}

func (d *EventDispatcher) observe(result string) {
	if d.metrics != nil {
		d.metrics.ObserveDelivery(result)
	}
}
