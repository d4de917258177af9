package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// ErrPanic is wrapped by the error Recovery returns for a panicking round trip.
var ErrPanic = errors.New("round trip panicked")

// Recovery returns a middleware that recovers from panics further down the
// chain, logs them with a stack trace, and turns them into an error.
func Recovery() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (resp *http.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					lg := zctx.From(r.Context())
					lg.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("url", r.URL.String()),
						zap.Stack("stack"),
					)
					resp = nil
					err = errors.Wrapf(ErrPanic, "%v", rec)
				}
			}()
			return next.RoundTrip(r)
		})
	}
}
