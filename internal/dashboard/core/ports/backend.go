package ports

import (
	"context"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
)

// OrderService is the bearer-authenticated order API.
type OrderService interface {
	CreateOrder(ctx context.Context, order entity.NewOrder) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	ListPending(ctx context.Context) ([]entity.PendingOrder, error)
}

// NotificationFeed is the append-only feed exposed by the notification receiver.
type NotificationFeed interface {
	ListNotifications(ctx context.Context) ([]entity.Notification, error)
}

// AuthService issues sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (entity.Session, error)
	Register(ctx context.Context, nombre, email, password string) (entity.Session, error)
}

// OrderServiceFactory binds an OrderService to a session's bearer token.
type OrderServiceFactory func(token string) OrderService
