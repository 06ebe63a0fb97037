package httpx

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type CredentialsRequest struct {
	Nombre   string `json:"nombre,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

type SessionResponse struct {
	State string        `json:"state"`
	Mode  string        `json:"mode"`
	User  *UserResponse `json:"user,omitempty"`
}

type PendingOrderResponse struct {
	ID        string          `json:"id"`
	ShortID   string          `json:"short_id"`
	Cliente   string          `json:"cliente"`
	Total     decimal.Decimal `json:"total"`
	Estado    string          `json:"estado"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type ViewResponse struct {
	Pending           []PendingOrderResponse `json:"pending"`
	PendingCount      int                    `json:"pending_count"`
	NotificationCount int                    `json:"notification_count"`
	LastSync          *time.Time             `json:"last_sync"`
	AutoRefresh       bool                   `json:"auto_refresh"`
	SyncInterval      string                 `json:"sync_interval"`
}

type NotificationResponse struct {
	Evento  string          `json:"evento"`
	Cliente string          `json:"cliente"`
	Total   decimal.Decimal `json:"total"`
	Color   string          `json:"color"`
	Raw     json.RawMessage `json:"raw"`
}

type NotificationPageResponse struct {
	Items       []NotificationResponse `json:"items"`
	Page        int                    `json:"page"`
	PageSize    int                    `json:"page_size"`
	TotalPages  int                    `json:"total_pages"`
	Total       int                    `json:"total"`
	HasNext     bool                   `json:"has_next"`
	HasPrevious bool                   `json:"has_previous"`
}

type SourceOutcome struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type SyncResponse struct {
	TickID        string        `json:"tick_id"`
	Pending       SourceOutcome `json:"pending"`
	Notifications SourceOutcome `json:"notifications"`
	LastSync      *time.Time    `json:"last_sync"`
}

type AutoRefreshRequest struct {
	Enabled *bool `json:"enabled"`
}

type AutoRefreshResponse struct {
	AutoRefresh bool `json:"auto_refresh"`
}

type DraftItemDTO struct {
	Producto       string          `json:"producto"`
	Talla          string          `json:"talla"`
	Color          string          `json:"color"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type DraftRequest struct {
	Cliente string         `json:"cliente"`
	Items   []DraftItemDTO `json:"items"`
}

type DraftItemResponse struct {
	DraftItemDTO
	Subtotal decimal.Decimal `json:"subtotal"`
}

type DraftResponse struct {
	Cliente  string              `json:"cliente"`
	Items    []DraftItemResponse `json:"items"`
	Total    decimal.Decimal     `json:"total"`
	Creating bool                `json:"creating"`
}

type OrderItemResponse struct {
	Producto       string  `json:"producto"`
	Talla          string  `json:"talla"`
	Color          string  `json:"color"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Cliente   string              `json:"cliente"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Estado    string              `json:"estado"`
	CreatedAt string              `json:"created_at,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
