package transport

import (
	"context"
	"io"
	"net"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/nodego/node-server/core/http"
)

// Dispatcher is the core's dispatch surface. *core.Server implements
// it.
type Dispatcher interface {
	HandleRequest(req *http.Request, res *http.Response)
}

// NetHTTP adapts net/http to the core: it builds a Request from each
// inbound call, pairs a Response with a callback that writes to the
// ResponseWriter, and dispatches. The transport owns everything the
// core refuses to: panic-to-500 mapping and the fallback when a
// handler never sends.
type NetHTTP struct {
	dispatcher Dispatcher
	log        zerolog.Logger
	enableH2C  bool

	server *nethttp.Server
}

// NetHTTPOption configures the transport.
type NetHTTPOption func(*NetHTTP)

// WithLogger sets the transport's logger.
func WithLogger(log zerolog.Logger) NetHTTPOption {
	return func(t *NetHTTP) { t.log = log }
}

// WithH2C serves cleartext HTTP/2 alongside HTTP/1.1.
func WithH2C() NetHTTPOption {
	return func(t *NetHTTP) { t.enableH2C = true }
}

// NewNetHTTP creates the adapter.
func NewNetHTTP(d Dispatcher, opts ...NetHTTPOption) *NetHTTP {
	t := &NetHTTP{
		dispatcher: d,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ServeHTTP implements net/http.Handler.
func (t *NetHTTP) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	req := t.buildRequest(r)

	res := http.NewResponse(func(status int, headers map[string]string, body []byte) {
		for key, value := range headers {
			if value != "" {
				w.Header().Set(key, value)
			}
		}
		w.WriteHeader(status)
		if len(body) > 0 {
			w.Write(body)
		}
	})

	defer func() {
		if rec := recover(); rec != nil {
			t.log.Error().Interface("panic", rec).
				Str("method", req.Method).Str("path", req.Path).
				Msg("handler panicked")
			if !res.Sent() {
				writeJSONError(w, 500, "Internal Server Error")
			}
			return
		}
		if !res.Sent() {
			// Defense in depth: a handler that neither continued the
			// chain nor sent anything must not hang the client.
			writeJSONError(w, 404, "No response sent by handler")
		}
	}()

	t.dispatcher.HandleRequest(req, res)
}

func (t *NetHTTP) buildRequest(r *nethttp.Request) *http.Request {
	req := http.NewRequest(r.Method, r.URL.RequestURI())
	req.Hostname = r.Host

	req.Protocol = "http"
	if r.TLS != nil {
		req.Protocol = "https"
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		req.RemoteIP = host
	} else {
		req.RemoteIP = r.RemoteAddr
	}

	for name, values := range r.Header {
		if len(values) > 0 {
			req.SetHeader(name, values[len(values)-1])
		}
	}

	if cookie := req.Header("cookie"); cookie != "" {
		req.Cookies = http.ParseCookies(cookie)
	}

	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err == nil {
			req.RawBody = body
		}
	}

	return req
}

// ListenAndServe blocks serving addr until Shutdown or failure.
func (t *NetHTTP) ListenAndServe(addr string) error {
	var handler nethttp.Handler = t
	if t.enableH2C {
		handler = h2c.NewHandler(t, &http2.Server{})
	}

	t.server = &nethttp.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	t.log.Info().Str("addr", addr).Bool("h2c", t.enableH2C).Msg("http transport listening")
	err := t.server.ListenAndServe()
	if err == nethttp.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (t *NetHTTP) Shutdown(ctx context.Context) error {
	if t.server == nil {
		return nil
	}
	return t.server.Shutdown(ctx)
}

func writeJSONError(w nethttp.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	var b strings.Builder
	b.WriteString(`{"error":`)
	b.WriteString(`"`)
	b.WriteString(message)
	b.WriteString(`"}`)
	io.WriteString(w, b.String())
}
