package middleware

import (
	"github.com/nodego/node-server/core/http"
)

// Next is the zero-argument continuation handed to each middleware.
// Calling it advances the chain; withholding it halts the chain
// permanently for this request.
type Next func()

// Func is the middleware signature. A middleware may inspect or
// mutate the request and response, then either call next() to pass
// control on, or send a response and stop the chain.
type Func func(req *http.Request, res *http.Response, next Next)

// Chain runs middleware in strict registration order with
// continuation-passing semantics. The list is append-only and fixed
// before serving starts; Execute never mutates it, so a configured
// Chain is safe for concurrent dispatches.
type Chain struct {
	funcs []Func
}

// NewChain creates an empty middleware chain.
func NewChain() *Chain {
	return &Chain{}
}

// Use appends a middleware. Chainable.
func (c *Chain) Use(fn Func) *Chain {
	c.funcs = append(c.funcs, fn)
	return c
}

// Len returns the number of registered middleware.
func (c *Chain) Len() int { return len(c.funcs) }

// Execute walks the chain for one request. Each middleware runs with
// a continuation that invokes the next one inline, on the same call
// stack; when every middleware has called next, done runs. Before
// each step the response's sent-latch is checked: once a response has
// been sent the walk halts without invoking further middleware.
//
// A panicking middleware propagates out of Execute untouched; mapping
// it to an HTTP error is the transport's responsibility.
func (c *Chain) Execute(req *http.Request, res *http.Response, done func()) {
	c.step(0, req, res, done)
}

func (c *Chain) step(i int, req *http.Request, res *http.Response, done func()) {
	if res.Sent() {
		return
	}
	if i >= len(c.funcs) {
		done()
		return
	}
	c.funcs[i](req, res, func() {
		c.step(i+1, req, res, done)
	})
}
