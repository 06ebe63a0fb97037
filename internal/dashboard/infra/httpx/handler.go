package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/app"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/auth"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/draft"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/paginator"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/infra/httpx/middlewares"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors/constants"
)

// Handler exposes the application state machine and the active dashboard as
// a local JSON API.
type Handler struct {
	app *app.App
}

func NewHandler(a *app.App) *Handler {
	return &Handler{app: a}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Session re-reads durable storage, so a logout or corruption made by another
// process is noticed here.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	if _, err := h.app.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "session_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, auth.ModeLogin)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, auth.ModeRegister)
}

func (h *Handler) ToggleMode(w http.ResponseWriter, r *http.Request) {
	h.app.Flow().Toggle()
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, mode auth.Mode) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	h.app.Flow().SetMode(mode)
	_, err := h.app.Authenticate(r.Context(), auth.Credentials{
		Nombre:   req.Nombre,
		Email:    req.Email,
		Password: req.Password,
	})

	var authErr *entity.AuthError
	switch {
	case errors.As(err, &authErr):
		writeError(w, http.StatusUnauthorized, "auth_failed", authErr.Message)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "session_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "session_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	d := dashboard(r)
	snap := d.View.Snapshot()

	pending := make([]PendingOrderResponse, len(snap.Pending))
	for i, p := range snap.Pending {
		pending[i] = PendingOrderResponse{
			ID:        p.ID,
			ShortID:   p.ShortID(),
			Cliente:   p.Cliente,
			Total:     p.Total,
			Estado:    p.Status(),
			CreatedAt: p.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, ViewResponse{
		Pending:           pending,
		PendingCount:      len(snap.Pending),
		NotificationCount: len(snap.Notifications),
		LastSync:          snap.LastSync,
		AutoRefresh:       d.AutoRefresh(),
		SyncInterval:      d.Scheduler.Interval().String(),
	})
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	d := dashboard(r)
	notifs := d.View.Notifications()

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_page", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, pageResponse(d.Paginator.GoTo(page, notifs), d.Paginator.PageSize()))
		return
	}
	writeJSON(w, http.StatusOK, pageResponse(d.Paginator.Page(notifs), d.Paginator.PageSize()))
}

func (h *Handler) NextNotifications(w http.ResponseWriter, r *http.Request) {
	d := dashboard(r)
	writeJSON(w, http.StatusOK, pageResponse(d.Paginator.Next(d.View.Notifications()), d.Paginator.PageSize()))
}

func (h *Handler) PrevNotifications(w http.ResponseWriter, r *http.Request) {
	d := dashboard(r)
	writeJSON(w, http.StatusOK, pageResponse(d.Paginator.Prev(d.View.Notifications()), d.Paginator.PageSize()))
}

// Sync runs one manual tick and reports each source's outcome.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	d := dashboard(r)
	res := d.Scheduler.SyncNow(r.Context())

	slog.InfoContext(r.Context(), "manual sync",
		"request_id", constants.RequestIDFromContext(r.Context()),
		"tick_id", res.TickID,
	)

	writeJSON(w, http.StatusOK, SyncResponse{
		TickID:        res.TickID,
		Pending:       outcome(res.PendingErr),
		Notifications: outcome(res.NotificationsErr),
		LastSync:      d.View.Snapshot().LastSync,
	})
}

func (h *Handler) SetAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var req AutoRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "enabled is required")
		return
	}

	d := dashboard(r)
	if err := h.app.SetAutoRefresh(r.Context(), d, *req.Enabled); err != nil {
		writeError(w, http.StatusConflict, "session_changed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AutoRefreshResponse{AutoRefresh: d.AutoRefresh()})
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, draftResponse(dashboard(r).Draft))
}

func (h *Handler) PutDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	b := dashboard(r).Draft
	b.Replace(mapDraftRequest(req))
	writeJSON(w, http.StatusOK, draftResponse(b))
}

func (h *Handler) AddDraftItem(w http.ResponseWriter, r *http.Request) {
	b := dashboard(r).Draft
	b.AddItem()
	writeJSON(w, http.StatusCreated, draftResponse(b))
}

func (h *Handler) UpdateDraftItem(w http.ResponseWriter, r *http.Request) {
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}
	var req DraftItemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	b := dashboard(r).Draft
	if err := b.UpdateItem(index, mapDraftItem(req)); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse(b))
}

func (h *Handler) RemoveDraftItem(w http.ResponseWriter, r *http.Request) {
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}

	b := dashboard(r).Draft
	if err := b.RemoveItem(index); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse(b))
}

// CreateOrder submits the current draft. The dashboard resyncs before the
// response is written.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	d := dashboard(r)

	slog.InfoContext(r.Context(), "creating order",
		"request_id", constants.RequestIDFromContext(r.Context()),
		"cliente", d.Draft.Draft().Cliente,
	)

	order, err := d.Draft.Submit(r.Context())

	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
			Field:   verr.Field,
		})
		return
	case errors.Is(err, draft.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, "submission_in_flight", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, "order_service_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := dashboard(r).Orders.GetOrder(r.Context(), orderID)
	if err != nil {
		var serverErr *entity.ServerError
		if errors.As(err, &serverErr) && serverErr.Status == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "order_not_found", err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "order_service_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) sessionResponse() SessionResponse {
	resp := SessionResponse{
		State: h.app.State().String(),
		Mode:  string(h.app.Flow().Mode()),
	}
	if d, ok := h.app.Dashboard(); ok {
		u := d.Session.User
		resp.User = &UserResponse{ID: u.ID, Nombre: u.Nombre, Email: u.Email}
	}
	return resp
}

// dashboard is only called behind RequireSession.
func dashboard(r *http.Request) *app.Dashboard {
	d, _ := middlewares.DashboardFromContext(r.Context())
	return d
}

func itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index", err.Error())
		return 0, false
	}
	return index, true
}

func writeDraftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, draft.ErrItemIndex):
		writeError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, draft.ErrLastItem):
		writeError(w, http.StatusConflict, "last_item", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "draft_error", err.Error())
	}
}

func outcome(err error) SourceOutcome {
	if err != nil {
		return SourceOutcome{OK: false, Error: err.Error()}
	}
	return SourceOutcome{OK: true}
}

func pageResponse(p paginator.Page, size int) NotificationPageResponse {
	items := make([]NotificationResponse, len(p.Items))
	for i, n := range p.Items {
		items[i] = NotificationResponse{
			Evento:  n.Evento(),
			Cliente: n.Cliente(),
			Total:   n.Total(),
			Color:   n.Color(),
			Raw:     n.Raw(),
		}
	}
	return NotificationPageResponse{
		Items:       items,
		Page:        p.Number,
		PageSize:    size,
		TotalPages:  p.TotalPages,
		Total:       p.Total,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

func draftResponse(b *draft.Builder) DraftResponse {
	d := b.Draft()
	items := make([]DraftItemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = DraftItemResponse{
			DraftItemDTO: DraftItemDTO{
				Producto:       it.Producto,
				Talla:          it.Talla,
				Color:          it.Color,
				Cantidad:       it.Cantidad,
				PrecioUnitario: it.PrecioUnitario,
			},
			Subtotal: it.Subtotal(),
		}
	}
	return DraftResponse{
		Cliente:  d.Cliente,
		Items:    items,
		Total:    d.Total(),
		Creating: b.Creating(),
	}
}

func mapDraftRequest(req DraftRequest) entity.OrderDraft {
	items := make([]entity.DraftItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = mapDraftItem(it)
	}
	return entity.OrderDraft{Cliente: req.Cliente, Items: items}
}

func mapDraftItem(it DraftItemDTO) entity.DraftItem {
	return entity.DraftItem{
		Producto:       it.Producto,
		Talla:          it.Talla,
		Color:          it.Color,
		Cantidad:       it.Cantidad,
		PrecioUnitario: it.PrecioUnitario,
	}
}

// mapOrderToResponse converts the order entity to the HTTP response format.
func mapOrderToResponse(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemResponse{
			Producto:       it.Producto,
			Talla:          it.Talla,
			Color:          it.Color,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		}
	}
	estado := order.Estado
	if estado == "" {
		estado = entity.StatusPending
	}
	return OrderResponse{
		ID:        order.ID,
		Cliente:   order.Cliente,
		Items:     items,
		Total:     order.Total,
		Estado:    estado,
		CreatedAt: order.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
