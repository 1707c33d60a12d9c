package http

import (
	"strings"

	"github.com/nodego/node-server/core/jsonval"
)

// Request represents one inbound HTTP call. It is created by a
// transport (or a test harness), mutated by middleware and by the
// dispatcher, and discarded when the call completes. A Request is
// owned by a single dispatch and must not be shared across calls.
type Request struct {
	Method   string
	URL      string // full URL including query string
	Path     string // URL path without query string
	RawBody  []byte
	RemoteIP string
	Protocol string // "http" or "https"
	Hostname string

	// Headers keys are normalized to lowercase, last write wins.
	Headers map[string]string
	Params  map[string]string // route parameters, bound by the dispatcher
	Query   map[string]string
	Cookies map[string]string

	// Body is populated by the body-parser middleware, never by the
	// core itself.
	Body jsonval.Value
}

// NewRequest creates a request for the given method and target. The
// target's query string is parsed into Query and stripped from Path.
func NewRequest(method, target string) *Request {
	path, rawQuery := SplitTarget(target)
	return &Request{
		Method:   method,
		URL:      target,
		Path:     path,
		Protocol: "http",
		Headers:  make(map[string]string),
		Params:   make(map[string]string),
		Query:    ParseQuery(rawQuery),
		Cookies:  make(map[string]string),
	}
}

// SetHeader stores a header, normalizing the key to lowercase.
func (r *Request) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[strings.ToLower(name)] = value
}

// Header returns a header value by case-insensitive name.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// Get is an alias for Header.
func (r *Request) Get(name string) string {
	return r.Header(name)
}

// Accepts reports whether the Accept header admits the given content
// type.
func (r *Request) Accepts(contentType string) bool {
	accept := r.Header("accept")
	return strings.Contains(accept, contentType) || strings.Contains(accept, "*/*")
}

// Is reports whether the Content-Type header contains the given type.
func (r *Request) Is(contentType string) bool {
	return strings.Contains(r.Header("content-type"), contentType)
}

// Cookie returns a cookie value, or "" when absent.
func (r *Request) Cookie(name string) string {
	return r.Cookies[name]
}
