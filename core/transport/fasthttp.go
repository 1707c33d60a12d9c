package transport

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/nodego/node-server/core/http"
)

// FastHTTP serves the same dispatch contract over valyala/fasthttp.
// Useful when the deployment wants the lower per-request overhead and
// does not need HTTP/2 or hijacked connections.
type FastHTTP struct {
	dispatcher Dispatcher
	log        zerolog.Logger

	server *fasthttp.Server
}

// NewFastHTTP creates the adapter.
func NewFastHTTP(d Dispatcher, log zerolog.Logger) *FastHTTP {
	return &FastHTTP{dispatcher: d, log: log}
}

// Handler is the fasthttp request handler.
func (t *FastHTTP) Handler(ctx *fasthttp.RequestCtx) {
	req := t.buildRequest(ctx)

	res := http.NewResponse(func(status int, headers map[string]string, body []byte) {
		ctx.SetStatusCode(status)
		for key, value := range headers {
			if value != "" {
				ctx.Response.Header.Set(key, value)
			}
		}
		ctx.SetBody(body)
	})

	defer func() {
		if rec := recover(); rec != nil {
			t.log.Error().Interface("panic", rec).
				Str("method", req.Method).Str("path", req.Path).
				Msg("handler panicked")
			if !res.Sent() {
				ctx.SetStatusCode(500)
				ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
				ctx.SetBodyString(`{"error":"Internal Server Error"}`)
			}
			return
		}
		if !res.Sent() {
			ctx.SetStatusCode(404)
			ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
			ctx.SetBodyString(`{"error":"No response sent by handler"}`)
		}
	}()

	t.dispatcher.HandleRequest(req, res)
}

func (t *FastHTTP) buildRequest(ctx *fasthttp.RequestCtx) *http.Request {
	req := http.NewRequest(string(ctx.Method()), string(ctx.RequestURI()))
	req.Hostname = string(ctx.Host())

	req.Protocol = "http"
	if ctx.IsTLS() {
		req.Protocol = "https"
	}

	if host, _, err := net.SplitHostPort(ctx.RemoteAddr().String()); err == nil {
		req.RemoteIP = host
	} else {
		req.RemoteIP = ctx.RemoteAddr().String()
	}

	ctx.Request.Header.VisitAll(func(key, value []byte) {
		req.SetHeader(string(key), string(value))
	})

	if cookie := req.Header("cookie"); cookie != "" {
		req.Cookies = http.ParseCookies(cookie)
	}

	if body := ctx.PostBody(); len(body) > 0 {
		req.RawBody = append([]byte(nil), body...)
	}

	return req
}

// ListenAndServe blocks serving addr until Shutdown or failure.
func (t *FastHTTP) ListenAndServe(addr string) error {
	t.server = &fasthttp.Server{
		Handler: t.Handler,
		Name:    "node-server",
	}
	t.log.Info().Str("addr", addr).Msg("fasthttp transport listening")
	return t.server.ListenAndServe(addr)
}

// Shutdown gracefully stops the server. fasthttp's Shutdown has no
// context form, so ctx only bounds the wait.
func (t *FastHTTP) Shutdown(ctx context.Context) error {
	if t.server == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- t.server.Shutdown() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
