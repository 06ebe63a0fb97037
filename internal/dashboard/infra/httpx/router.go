package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)
	r.Get("/session", handler.Session)
	r.Post("/auth/login", handler.Login)
	r.Post("/auth/register", handler.Register)
	r.Post("/auth/toggle", handler.ToggleMode)
	r.Post("/auth/logout", handler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireSession(handler.app))

		r.Get("/view", handler.View)
		r.Post("/sync", handler.Sync)
		r.Put("/auto-refresh", handler.SetAutoRefresh)

		r.Get("/notifications", handler.Notifications)
		r.Post("/notifications/next", handler.NextNotifications)
		r.Post("/notifications/prev", handler.PrevNotifications)

		r.Get("/draft", handler.GetDraft)
		r.Put("/draft", handler.PutDraft)
		r.Post("/draft/items", handler.AddDraftItem)
		r.Put("/draft/items/{index}", handler.UpdateDraftItem)
		r.Delete("/draft/items/{index}", handler.RemoveDraftItem)

		r.Post("/orders", handler.CreateOrder)
		r.Get("/orders/{id}", handler.GetOrderByID)
	})
	return r
}
