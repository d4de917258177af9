package httpmiddleware

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs every round trip with the
// logger found in the request context.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)

			lg := zctx.From(r.Context()).With(
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.Duration("duration", time.Since(start)),
			)
			if err != nil {
				lg.Warn("HTTP request failed", zap.Error(err))
				return resp, err
			}
			lg.Debug("HTTP request", zap.Int("status", resp.StatusCode))
			return resp, nil
		})
	}
}
