// Package scheduler keeps the view state fresh by polling the pending-orders
// list and the notification feed on a fixed cadence and on demand.
//
// Each source is applied independently: a failed fetch leaves that source's
// previous value in place. Ticks may overlap when a fetch outlives the
// interval; per source, whichever fetch settles last wins.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/ports"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/viewstate"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors/constants"
)

const DefaultInterval = 3 * time.Second

const tracerName = "github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/scheduler"

// PendingSource lists the orders still waiting to be processed.
type PendingSource interface {
	ListPending(ctx context.Context) ([]entity.PendingOrder, error)
}

// TickResult reports the per-source outcome of one tick. A nil error means
// that source was replaced in the view.
type TickResult struct {
	TickID           string
	PendingErr       error
	NotificationsErr error
}

// Synced reports whether at least one source was refreshed.
func (r TickResult) Synced() bool {
	return r.PendingErr == nil || r.NotificationsErr == nil
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.nowFunc = now }
}

type Scheduler struct {
	pending  PendingSource
	feed     ports.NotificationFeed
	view     *viewstate.Store
	interval time.Duration
	logger   *slog.Logger
	nowFunc  func() time.Time
	tracer   trace.Tracer

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	inflight sync.WaitGroup
}

func New(pending PendingSource, feed ports.NotificationFeed, view *viewstate.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		pending:  pending,
		feed:     feed,
		view:     view,
		interval: DefaultInterval,
		logger:   slog.Default(),
		nowFunc:  time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Interval() time.Duration { return s.interval }

// Tick fetches both sources concurrently and applies each one as soon as it
// settles. Errors are logged and returned for inspection, never propagated
// into the view.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	tickID := uuid.NewString()
	ctx = constants.WithRequestID(ctx, tickID)
	ctx, span := s.tracer.Start(ctx, "sync.tick", trace.WithAttributes(attribute.String("tick.id", tickID)))
	defer span.End()

	res := TickResult{TickID: tickID}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.PendingErr = s.syncPending(ctx)
	}()
	go func() {
		defer wg.Done()
		res.NotificationsErr = s.syncNotifications(ctx)
	}()
	wg.Wait()

	if res.Synced() {
		s.view.MarkSynced(s.nowFunc())
	} else {
		span.SetStatus(codes.Error, "all sources failed")
	}

	s.logger.DebugContext(ctx, "sync tick finished",
		"tick_id", tickID,
		"pending_ok", res.PendingErr == nil,
		"notifications_ok", res.NotificationsErr == nil,
	)
	return res
}

func (s *Scheduler) syncPending(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "sync.pending")
	defer span.End()

	pending, err := s.pending.ListPending(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "pending orders fetch failed", "error", err)
		return err
	}
	span.SetAttributes(attribute.Int("pending.count", len(pending)))
	s.view.ReplacePending(pending)
	return nil
}

func (s *Scheduler) syncNotifications(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "sync.notifications")
	defer span.End()

	notifications, err := s.feed.ListNotifications(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "notifications fetch failed", "error", err)
		return err
	}
	span.SetAttributes(attribute.Int("notifications.count", len(notifications)))
	s.view.ReplaceNotifications(notifications)
	return nil
}

// SyncNow runs one unscheduled tick. The cadence is left as it is.
func (s *Scheduler) SyncNow(ctx context.Context) TickResult {
	return s.Tick(ctx)
}

// Start begins ticking every interval until Stop is called or ctx is done.
// Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runningLocked() {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	// Ticks outlive Stop: their results are still applied.
	tickCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.loop(loopCtx, tickCtx, done)
	s.logger.InfoContext(ctx, "auto-refresh started", "interval", s.interval.String())
}

func (s *Scheduler) loop(loopCtx, tickCtx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			return
		case <-ticker.C:
			s.inflight.Add(1)
			go func() {
				defer s.inflight.Done()
				s.Tick(tickCtx)
			}()
		}
	}
}

// Stop prevents future scheduled ticks. Ticks already in flight are not
// cancelled.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.logger.Info("auto-refresh stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

func (s *Scheduler) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Wait blocks until every scheduled tick has finished. Call it after Stop.
func (s *Scheduler) Wait() {
	s.inflight.Wait()
}
