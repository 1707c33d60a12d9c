package middleware

import (
	"github.com/hashicorp/go-uuid"

	"github.com/nodego/node-server/core/http"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestID returns a middleware that assigns every request a uuid,
// stamped both on the request (for downstream middleware and
// handlers) and on the response. An id already supplied by the client
// is kept.
func RequestID() Func {
	return func(req *http.Request, res *http.Response, next Next) {
		id := req.Header(RequestIDHeader)
		if id == "" {
			generated, err := uuid.GenerateUUID()
			if err == nil {
				id = generated
			}
		}
		if id != "" {
			req.SetHeader(RequestIDHeader, id)
			res.Set(RequestIDHeader, id)
		}
		next()
	}
}
