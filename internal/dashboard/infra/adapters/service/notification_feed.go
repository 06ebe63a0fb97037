package service

import (
	"context"
	"net/http"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/ports"
)

var _ ports.NotificationFeed = (*HTTPNotificationFeed)(nil)

// HTTPNotificationFeed reads the notification receiver. It is not
// authenticated.
type HTTPNotificationFeed struct {
	rest restClient
}

func NewHTTPNotificationFeed(baseURL string, hc *http.Client) *HTTPNotificationFeed {
	return &HTTPNotificationFeed{rest: newRestClient(baseURL, hc, "")}
}

// ListNotifications returns the whole feed in arrival order. A body that is
// not a JSON array of objects is an error, so a bad reply never blanks the
// view.
func (f *HTTPNotificationFeed) ListNotifications(ctx context.Context) ([]entity.Notification, error) {
	var out []entity.Notification
	if err := f.rest.getJSON(ctx, "/notifications", &out); err != nil {
		return nil, wrap("ListNotifications", err)
	}
	if out == nil {
		out = []entity.Notification{}
	}
	return out, nil
}
