package httpmiddleware

import "net/http"

// Markers added to every request and response by Annotate with the default
// configuration.
const (
	RequestMarkerHeader  = "CMReq"
	RequestMarkerValue   = "request"
	ResponseMarkerHeader = "CMERes"
	ResponseMarkerValue  = "response"
)

// AnnotateConfig lists fixed headers to add to outgoing requests and to
// received responses.
type AnnotateConfig struct {
	Request  map[string]string
	Response map[string]string
}

// DefaultAnnotateConfig sets the CMReq request marker and the CMERes response
// marker.
func DefaultAnnotateConfig() AnnotateConfig {
	return AnnotateConfig{
		Request:  map[string]string{RequestMarkerHeader: RequestMarkerValue},
		Response: map[string]string{ResponseMarkerHeader: ResponseMarkerValue},
	}
}

// Annotate returns a middleware that sets fixed request headers before the
// request is sent and fixed response headers once a response arrives. The
// response headers are an in-memory marker only. Failed round trips pass
// through untouched.
func Annotate(cfg AnnotateConfig) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if len(cfg.Request) > 0 {
				r = r.Clone(r.Context())
				for k, v := range cfg.Request {
					r.Header.Set(k, v)
				}
			}

			resp, err := next.RoundTrip(r)
			if err != nil {
				return resp, err
			}
			if resp.Header == nil {
				resp.Header = make(http.Header, len(cfg.Response))
			}
			for k, v := range cfg.Response {
				resp.Header.Set(k, v)
			}
			return resp, nil
		})
	}
}
