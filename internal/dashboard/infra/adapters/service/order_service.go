package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/ports"
)

// Aseguramos en compile-time que implementa la interfaz
var _ ports.OrderService = (*HTTPOrderService)(nil)

// HTTPOrderService talks to the order API with a session's bearer token.
type HTTPOrderService struct {
	rest restClient
}

func NewHTTPOrderService(baseURL, token string, hc *http.Client) *HTTPOrderService {
	return &HTTPOrderService{rest: newRestClient(baseURL, hc, token)}
}

// NewOrderServiceFactory binds new order clients to a token on demand.
func NewOrderServiceFactory(baseURL string, hc *http.Client) ports.OrderServiceFactory {
	return func(token string) ports.OrderService {
		return NewHTTPOrderService(baseURL, token, hc)
	}
}

func (s *HTTPOrderService) CreateOrder(ctx context.Context, order entity.NewOrder) (*entity.Order, error) {
	var out entity.Order
	if err := s.rest.postJSON(ctx, "/orders", order, &out); err != nil {
		return nil, wrap("CreateOrder", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("api: CreateOrder: response without id")
	}
	return &out, nil
}

func (s *HTTPOrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var out entity.Order
	if err := s.rest.getJSON(ctx, "/orders/"+url.PathEscape(id), &out); err != nil {
		return nil, wrap("GetOrder", err)
	}
	return &out, nil
}

func (s *HTTPOrderService) ListPending(ctx context.Context) ([]entity.PendingOrder, error) {
	var out []entity.PendingOrder
	if err := s.rest.getJSON(ctx, "/orders/pending", &out); err != nil {
		return nil, wrap("ListPending", err)
	}
	if out == nil {
		out = []entity.PendingOrder{}
	}
	return out, nil
}
