package middleware

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/nodego/node-server/core/http"
)

// RequestLogger returns a middleware that logs one line per request
// with method, path, status and duration. Because next() returns only
// after the rest of the chain and the route handler have run, the
// logged status is the final one.
func RequestLogger(log zerolog.Logger) Func {
	return func(req *http.Request, res *http.Response, next Next) {
		start := time.Now()

		next()

		log.Info().
			Str("method", req.Method).
			Str("path", req.Path).
			Str("remote", req.RemoteIP).
			Int("status", res.StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
