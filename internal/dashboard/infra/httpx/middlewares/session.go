package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/app"
)

type contextKey string

const dashboardKey contextKey = "dashboard"

// DashboardProvider returns the active dashboard, if any.
type DashboardProvider interface {
	Dashboard() (*app.Dashboard, bool)
}

// RequireSession answers 401 while no session is active and otherwise puts
// the active dashboard in the request context.
func RequireSession(p DashboardProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, ok := p.Dashboard()
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "unauthenticated",
					"message": "login required",
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), dashboardKey, d)))
		})
	}
}

// DashboardFromContext returns the dashboard stored by RequireSession.
func DashboardFromContext(ctx context.Context) (*app.Dashboard, bool) {
	d, ok := ctx.Value(dashboardKey).(*app.Dashboard)
	return d, ok
}
