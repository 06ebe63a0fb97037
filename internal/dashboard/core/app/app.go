// Package app is the dashboard's two-state application machine. It owns the
// session store and, while authenticated, one Dashboard bundle bound to the
// session's bearer token.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/auth"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/draft"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/paginator"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/ports"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/scheduler"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/session"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/viewstate"
)

// ErrInactiveDashboard is returned when acting on a dashboard that a logout
// or a new login has already replaced.
var ErrInactiveDashboard = errors.New("app: dashboard is no longer active")

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

type Config struct {
	SyncInterval time.Duration
	PageSize     int
	AutoRefresh  bool
}

// Dashboard is everything that lives for the duration of one session.
type Dashboard struct {
	Session   entity.Session
	Orders    ports.OrderService
	View      *viewstate.Store
	Scheduler *scheduler.Scheduler
	Draft     *draft.Builder
	Paginator *paginator.Paginator
}

func (d *Dashboard) AutoRefresh() bool {
	return d.Scheduler.Running()
}

func (d *Dashboard) close() {
	d.Scheduler.Stop()
}

type App struct {
	sessions *session.Store
	flow     *auth.Flow
	orders   ports.OrderServiceFactory
	feed     ports.NotificationFeed
	cfg      Config
	logger   *slog.Logger

	mu    sync.RWMutex
	state State
	dash  *Dashboard
}

func New(
	sessions *session.Store,
	flow *auth.Flow,
	orders ports.OrderServiceFactory,
	feed ports.NotificationFeed,
	cfg Config,
	logger *slog.Logger,
) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		sessions: sessions,
		flow:     flow,
		orders:   orders,
		feed:     feed,
		cfg:      cfg,
		logger:   logger,
	}
}

func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Dashboard returns the active bundle while authenticated.
func (a *App) Dashboard() (*Dashboard, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dash, a.dash != nil
}

func (a *App) Flow() *auth.Flow { return a.flow }

// Boot restores a persisted session, entering the dashboard when one is
// found. A corrupted record has already been purged by the store.
func (a *App) Boot(ctx context.Context) error {
	res, err := a.sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("app: boot: %w", err)
	}
	if res.Status != session.Restored {
		a.logger.InfoContext(ctx, "starting unauthenticated", "session", res.Status.String())
		a.leave()
		return nil
	}
	a.enter(ctx, res.Session)
	return nil
}

// Authenticate runs the auth flow and, on success, persists the session and
// enters the dashboard. On failure nothing changes.
func (a *App) Authenticate(ctx context.Context, creds auth.Credentials) (entity.Session, error) {
	sess, err := a.flow.Submit(ctx, creds)
	if err != nil {
		return entity.Session{}, err
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return entity.Session{}, fmt.Errorf("app: authenticate: %w", err)
	}
	a.logger.InfoContext(ctx, "authenticated", "user_id", sess.User.ID, "mode", string(a.flow.Mode()))
	a.enter(ctx, sess)
	return sess, nil
}

// Logout clears durable storage, then stops polling and returns to
// Unauthenticated. When the delete fails the session stays active, so a later
// Reload cannot resurrect it behind the user's back.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("app: logout: %w", err)
	}
	a.leave()
	a.logger.InfoContext(ctx, "logged out")
	return nil
}

// SetAutoRefresh starts or stops d's polling cadence, provided d is still the
// active dashboard. The cadence is not tied to ctx's cancellation.
func (a *App) SetAutoRefresh(ctx context.Context, d *Dashboard, enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dash != d || d == nil {
		return ErrInactiveDashboard
	}
	if enabled {
		d.Scheduler.Start(context.WithoutCancel(ctx))
	} else {
		d.Scheduler.Stop()
	}
	return nil
}

// Reload re-reads durable storage, which other processes may share. An absent
// or corrupted record ends the session; a different valid one replaces it.
func (a *App) Reload(ctx context.Context) (State, error) {
	res, err := a.sessions.Load(ctx)
	if err != nil {
		return a.State(), fmt.Errorf("app: reload: %w", err)
	}

	if res.Status != session.Restored {
		if a.State() == Authenticated {
			a.logger.WarnContext(ctx, "session gone from storage", "session", res.Status.String())
		}
		a.leave()
		return Unauthenticated, nil
	}

	if d, ok := a.Dashboard(); ok && d.Session.Token == res.Session.Token {
		return Authenticated, nil
	}
	a.enter(ctx, res.Session)
	return Authenticated, nil
}

// Shutdown stops the active dashboard's polling and waits for scheduled ticks.
func (a *App) Shutdown() {
	a.mu.Lock()
	d := a.dash
	a.mu.Unlock()
	if d != nil {
		d.close()
		d.Scheduler.Wait()
	}
}

func (a *App) enter(ctx context.Context, sess entity.Session) {
	d := a.newDashboard(sess)

	a.mu.Lock()
	prev := a.dash
	a.dash = d
	a.state = Authenticated
	a.mu.Unlock()

	if prev != nil {
		prev.close()
	}

	d.Scheduler.SyncNow(ctx)
	if a.cfg.AutoRefresh {
		if err := a.SetAutoRefresh(ctx, d, true); err != nil {
			a.logger.InfoContext(ctx, "dashboard replaced before auto-refresh started")
		}
	}
}

func (a *App) leave() {
	a.mu.Lock()
	prev := a.dash
	a.dash = nil
	a.state = Unauthenticated
	a.mu.Unlock()

	if prev != nil {
		prev.close()
	}
}

func (a *App) newDashboard(sess entity.Session) *Dashboard {
	orders := a.orders(sess.Token)
	view := viewstate.New()
	sched := scheduler.New(orders, a.feed, view,
		scheduler.WithInterval(a.cfg.SyncInterval),
		scheduler.WithLogger(a.logger),
	)
	return &Dashboard{
		Session:   sess,
		Orders:    orders,
		View:      view,
		Scheduler: sched,
		Draft:     draft.NewBuilder(orders, sched, sess.User.Nombre, a.logger),
		Paginator: paginator.New(a.cfg.PageSize),
	}
}
