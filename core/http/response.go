package http

import (
	"encoding/json"
)

// SendCallback receives the finished response exactly once. The
// transport that created the Response owns the actual byte emission;
// the Response's contract is satisfied the moment the callback is
// invoked.
type SendCallback func(status int, headers map[string]string, body []byte)

// Response represents the outgoing reply under construction. The
// first send wins: once sent, all body-emitting operations are
// silent no-ops and header/status mutation has no effect.
type Response struct {
	status  int
	headers map[string]string
	body    []byte
	sent    bool
	send    SendCallback
}

// NewResponse creates a response paired with its send callback. cb
// may be nil (tests that only inspect recorded state).
func NewResponse(cb SendCallback) *Response {
	return &Response{
		status:  200,
		headers: make(map[string]string),
		send:    cb,
	}
}

// Status sets the status code. Chainable; no effect once sent.
func (r *Response) Status(code int) *Response {
	if !r.sent {
		r.status = code
	}
	return r
}

// Set sets a response header, last write wins. Chainable; no effect
// once sent.
func (r *Response) Set(key, value string) *Response {
	if !r.sent {
		r.headers[key] = value
	}
	return r
}

// Type sets the Content-Type header. Chainable.
func (r *Response) Type(contentType string) *Response {
	return r.Set("Content-Type", contentType)
}

// Send emits the response body. If the response was already sent this
// is a no-op. A default Content-Type of text/plain is applied when
// none was set.
func (r *Response) Send(body []byte) {
	if r.sent {
		return
	}
	r.sent = true
	if _, ok := r.headers["Content-Type"]; !ok {
		r.headers["Content-Type"] = "text/plain; charset=utf-8"
	}
	r.body = body
	if r.send != nil {
		r.send(r.status, r.headers, body)
	}
}

// SendString sends a text body.
func (r *Response) SendString(body string) {
	r.Send([]byte(body))
}

// JSON serializes v and sends it as application/json. Marshal
// failures turn into a 500 so the caller still gets exactly one
// response.
func (r *Response) JSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		if !r.sent {
			r.status = 500
			r.Type("text/plain; charset=utf-8")
			r.Send([]byte("JSON marshal error"))
		}
		return
	}
	r.Type("application/json; charset=utf-8")
	r.Send(data)
}

// SendStatus sets the status code and sends its textual form.
func (r *Response) SendStatus(code int) {
	r.Status(code)
	r.SendString(statusText(code))
}

// Redirect sends an empty response with a Location header. Use code
// 302 for the common case.
func (r *Response) Redirect(code int, url string) {
	r.Status(code)
	r.Set("Location", url)
	r.Send(nil)
}

// End sends an empty body if nothing was sent yet. Idempotent.
func (r *Response) End() {
	if !r.sent {
		r.Send(nil)
	}
}

// Sent reports whether the response has been emitted.
func (r *Response) Sent() bool { return r.sent }

// StatusCode returns the recorded status code.
func (r *Response) StatusCode() int { return r.status }

// HeaderValue returns a recorded response header.
func (r *Response) HeaderValue(key string) string { return r.headers[key] }

// Headers returns the recorded header map. Callers must treat it as
// read-only after the response is sent.
func (r *Response) Headers() map[string]string { return r.headers }

// Body returns the recorded body, for introspection in tests and
// transports.
func (r *Response) Body() []byte { return r.body }

func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	default:
		return "Unknown"
	}
}
