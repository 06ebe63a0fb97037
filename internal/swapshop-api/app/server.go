// Package app is an in-memory Swap Shop backend: auth, orders and the
// notification receiver behind one router. It backs the adapter and local API
// tests and the swapshop-api development binary.
package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors/constants"
)

type user struct {
	entity.User
	password string
}

type Server struct {
	mu            sync.RWMutex
	users         map[string]user   // email -> user
	tokens        map[string]string // token -> email
	orders        map[string]*entity.Order
	order         []string // creation order
	notifications []json.RawMessage

	failPending       int
	failNotifications int
	requestIDs        []string
	nowFunc           func() time.Time
}

func NewServer() *Server {
	return &Server{
		users:   make(map[string]user),
		tokens:  make(map[string]string),
		orders:  make(map[string]*entity.Order),
		nowFunc: time.Now,
	}
}

// Router exposes every backend route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.recordRequestID)

	r.Post("/auth/register", s.register)
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post("/orders", s.createOrder)
		r.Get("/orders/pending", s.listPending)
		r.Get("/orders/{id}", s.getOrder)
	})
	r.Post("/orders/{id}/mark-processed", s.markProcessed)

	r.Get("/notifications", s.listNotifications)
	r.Post("/webhooks/order-ready", s.webhook)
	return r
}

// FailPending makes GET /orders/pending answer status; 0 restores it.
func (s *Server) FailPending(status int) {
	s.mu.Lock()
	s.failPending = status
	s.mu.Unlock()
}

// FailNotifications makes GET /notifications answer status; 0 restores it.
func (s *Server) FailNotifications(status int) {
	s.mu.Lock()
	s.failNotifications = status
	s.mu.Unlock()
}

// AddNotification appends a raw event to the feed.
func (s *Server) AddNotification(raw string) {
	s.mu.Lock()
	s.notifications = append(s.notifications, json.RawMessage(raw))
	s.mu.Unlock()
}

// RequestIDs returns every x-request-id received so far.
func (s *Server) RequestIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.requestIDs...)
}

// OrderCount returns the number of orders ever created.
func (s *Server) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *Server) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(constants.HeaderXRequestId); id != "" {
			s.mu.Lock()
			s.requestIDs = append(s.requestIDs, id)
			s.mu.Unlock()
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.RLock()
		_, known := s.tokens[token]
		s.mu.RUnlock()
		if !ok || !known {
			writeDetail(w, http.StatusUnauthorized, "Token inválido.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type registerIn struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in registerIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Datos inválidos.")
		return
	}
	email := strings.ToLower(in.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		writeDetail(w, http.StatusBadRequest, "El email ya está registrado.")
		return
	}
	u := user{User: entity.User{ID: uuid.NewString(), Nombre: in.Nombre, Email: email}, password: in.Password}
	s.users[email] = u
	writeJSON(w, http.StatusOK, s.issueTokenLocked(u))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in registerIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Datos inválidos.")
		return
	}
	email := strings.ToLower(in.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || u.password != in.Password {
		writeDetail(w, http.StatusUnauthorized, "Credenciales incorrectas.")
		return
	}
	writeJSON(w, http.StatusOK, s.issueTokenLocked(u))
}

func (s *Server) issueTokenLocked(u user) entity.Session {
	token := uuid.NewString()
	s.tokens[token] = u.Email
	return entity.Session{Token: token, User: u.User}
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var in entity.NewOrder
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Datos inválidos.")
		return
	}
	for _, it := range in.Items {
		if it.Cantidad < 1 || it.PrecioUnitario <= 0 {
			writeDetail(w, http.StatusUnprocessableEntity, "Item inválido.")
			return
		}
	}

	total := decimal.Zero
	for _, it := range in.Items {
		total = total.Add(decimal.NewFromFloat(it.PrecioUnitario).Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}

	order := &entity.Order{
		ID:        uuid.NewString(),
		Cliente:   in.Cliente,
		Items:     in.Items,
		Total:     total,
		Estado:    entity.StatusPending,
		CreatedAt: s.nowFunc().UTC().Format(time.RFC3339),
	}

	resp := *order

	s.mu.Lock()
	s.orders[order.ID] = order
	s.order = append(s.order, order.ID)
	s.mu.Unlock()

	slog.InfoContext(r.Context(), "order created",
		"order_id", order.ID,
		"request_id", r.Header.Get(constants.HeaderXRequestId),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	order, ok := s.orders[chi.URLParam(r, "id")]
	var snapshot entity.Order
	if ok {
		snapshot = *order
	}
	s.mu.RUnlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Pedido no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) listPending(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failPending != 0 {
		http.Error(w, "pending unavailable", s.failPending)
		return
	}

	out := make([]entity.PendingOrder, 0)
	for _, id := range s.order {
		o := s.orders[id]
		if o.Estado != entity.StatusPending {
			continue
		}
		out = append(out, entity.PendingOrder{
			ID:        o.ID,
			Cliente:   o.Cliente,
			Total:     o.Total,
			Estado:    o.Estado,
			CreatedAt: o.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// markProcessed is what the dispatch poller calls once the webhook was
// delivered. The event is appended to the feed here as well.
func (s *Server) markProcessed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Pedido no encontrado")
		return
	}
	order.Estado = "PROCESSED"

	event, _ := json.Marshal(map[string]any{
		"evento":   "ORDER_READY",
		"order_id": order.ID,
		"cliente":  order.Cliente,
		"total":    order.Total,
		"items":    order.Items,
	})
	s.notifications = append(s.notifications, event)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failNotifications != 0 {
		http.Error(w, "notifications unavailable", s.failNotifications)
		return
	}
	out := make([]json.RawMessage, len(s.notifications))
	copy(out, s.notifications)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Payload inválido.")
		return
	}
	raw, _ := json.Marshal(payload)

	s.mu.Lock()
	s.notifications = append(s.notifications, raw)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, json.RawMessage(raw))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
