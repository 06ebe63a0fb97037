// Package interceptors holds the http.RoundTripper decorators applied to every
// outgoing backend request: request ID propagation and trace context.
package interceptors

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors/constants"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// RequestID sets the x-request-id header from the request context. Requests
// issued outside a tick or an inbound request get a fresh id.
func RequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(constants.HeaderXRequestId) != "" {
			return next.RoundTrip(r)
		}

		requestID := constants.RequestIDFromContext(r.Context())
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// RoundTrippers must not modify the caller's request.
		r = r.Clone(r.Context())
		r.Header.Set(constants.HeaderXRequestId, requestID)
		return next.RoundTrip(r)
	})
}

// NewTransport wraps base (http.DefaultTransport when nil) with every
// interceptor in this package.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return RequestID(Tracing(base))
}
