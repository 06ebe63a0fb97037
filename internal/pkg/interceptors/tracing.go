package interceptors

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors/constants"
)

const tracerName = "github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors"

// Tracing opens a client span per request and injects the W3C trace context
// headers using the global propagator.
func Tracing(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		ctx, span := otel.Tracer(tracerName).Start(r.Context(),
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.URLFull(r.URL.String()),
				attribute.String("request.id", constants.RequestIDFromContext(r.Context())),
			),
		)
		defer span.End()

		r = r.Clone(ctx)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))

		resp, err := next.RoundTrip(r)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
		if resp.StatusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, resp.Status)
		}
		return resp, nil
	})
}
