package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata carries the inbound request id and W3C trace context
// into the request context, so backend calls made while serving the request
// are correlated with it.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		requestID := r.Header.Get(constants.HeaderXRequestId)
		if requestID == "" {
			requestID = middleware.GetReqID(ctx)
		}
		ctx = constants.WithRequestID(ctx, requestID)
		w.Header().Set(constants.HeaderXRequestId, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
