package core

import (
	"github.com/nodego/node-server/core/http"
	"github.com/nodego/node-server/core/middleware"
	"github.com/nodego/node-server/core/router"
)

// Handler is the terminal route handler signature.
type Handler = router.Handler

// Server holds the middleware chain and the ordered route table, and
// dispatches requests through them. Registration happens once, before
// serving; after that both structures are read-only, so a Server can
// be driven by concurrent transport goroutines, and each dispatch owns
// its Request and Response exclusively.
type Server struct {
	chain  *middleware.Chain
	routes []*router.Route
}

// NewServer creates an empty server.
func NewServer() *Server {
	return &Server{chain: middleware.NewChain()}
}

// Use appends a middleware to the chain. Chainable.
func (s *Server) Use(fn middleware.Func) *Server {
	s.chain.Use(fn)
	return s
}

// Get registers a GET route. The pattern is compiled immediately.
func (s *Server) Get(pattern string, handler Handler) *Server {
	return s.addRoute("GET", pattern, handler)
}

// Post registers a POST route.
func (s *Server) Post(pattern string, handler Handler) *Server {
	return s.addRoute("POST", pattern, handler)
}

// Put registers a PUT route.
func (s *Server) Put(pattern string, handler Handler) *Server {
	return s.addRoute("PUT", pattern, handler)
}

// Patch registers a PATCH route.
func (s *Server) Patch(pattern string, handler Handler) *Server {
	return s.addRoute("PATCH", pattern, handler)
}

// Delete registers a DELETE route.
func (s *Server) Delete(pattern string, handler Handler) *Server {
	return s.addRoute("DELETE", pattern, handler)
}

// Options registers an OPTIONS route.
func (s *Server) Options(pattern string, handler Handler) *Server {
	return s.addRoute("OPTIONS", pattern, handler)
}

// All registers a route matching any HTTP method.
func (s *Server) All(pattern string, handler Handler) *Server {
	return s.addRoute(router.MethodAny, pattern, handler)
}

// addRoute appends without deduplication: an identical later route is
// simply shadowed, first match wins.
func (s *Server) addRoute(method, pattern string, handler Handler) *Server {
	s.routes = append(s.routes, router.Compile(method, pattern, handler))
	return s
}

// Routes returns the number of registered routes.
func (s *Server) Routes() int { return len(s.routes) }

// HandleRequest dispatches one request: the middleware chain runs to
// completion, then routes are tried in registration order and the
// first match wins. When nothing matches and nothing was sent, a 404
// JSON body is emitted. Panics from middleware or handlers propagate
// to the caller; the transport owns the 500 mapping.
func (s *Server) HandleRequest(req *http.Request, res *http.Response) {
	s.chain.Execute(req, res, func() {
		if res.Sent() {
			return
		}

		for _, rt := range s.routes {
			// Each attempt starts from the parameter state prior to
			// it; a failed trial restores, a successful one keeps
			// only its own bindings.
			saved := req.Params
			req.Params = make(map[string]string, len(rt.ParamNames))

			if rt.Match(req.Method, req.Path, req.Params) {
				rt.Handler(req, res)
				return
			}

			req.Params = saved
		}

		res.Status(404).JSON(map[string]string{
			"error":   "Not Found",
			"message": "Cannot " + req.Method + " " + req.Path,
		})
	})
}
