package middleware

import (
	"strconv"

	"github.com/nodego/node-server/core/http"
)

// CORSOptions configures the CORS middleware. Zero values fall back
// to permissive defaults.
type CORSOptions struct {
	Origin        string
	Methods       string
	AllowHeaders  string
	ExposeHeaders string
	Credentials   bool
	MaxAge        int // seconds, applied to preflight responses
}

// CORS returns a middleware that sets the cross-origin headers and
// answers preflight OPTIONS requests with 204, short-circuiting the
// chain.
func CORS(opts CORSOptions) Func {
	if opts.Origin == "" {
		opts.Origin = "*"
	}
	if opts.Methods == "" {
		opts.Methods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	}
	if opts.AllowHeaders == "" {
		opts.AllowHeaders = "Content-Type, Authorization"
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 86400
	}

	return func(req *http.Request, res *http.Response, next Next) {
		res.Set("Access-Control-Allow-Origin", opts.Origin)
		res.Set("Access-Control-Allow-Methods", opts.Methods)
		res.Set("Access-Control-Allow-Headers", opts.AllowHeaders)
		if opts.ExposeHeaders != "" {
			res.Set("Access-Control-Expose-Headers", opts.ExposeHeaders)
		}
		if opts.Credentials {
			res.Set("Access-Control-Allow-Credentials", "true")
		}

		if req.Method == "OPTIONS" {
			res.Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
			res.Status(204).End()
			return
		}

		next()
	}
}
