package router

import (
	"regexp"
	"strings"

	"github.com/nodego/node-server/core/http"
)

// Handler is the terminal route handler signature. All registrations
// conform to it.
type Handler func(req *http.Request, res *http.Response)

// MethodAny is the method wildcard: a route registered with it
// matches every HTTP method.
const MethodAny = "*"

// Route is a registered route: method (or MethodAny), the original
// pattern kept for diagnostics, the compiled matcher and the ordered
// parameter names. Routes are immutable after compilation and live
// for the server's lifetime.
type Route struct {
	Method     string
	Pattern    string
	ParamNames []string
	Handler    Handler

	matcher *regexp.Regexp
}

// Compile translates a path template into a Route. Literal segments
// match verbatim (regex metacharacters escaped), ":name" captures
// one-or-more non-slash characters, and "*" captures the remainder
// (including slashes) under the parameter name "*". The matcher is
// anchored: a pattern never matches a sub-path.
//
// An empty parameter name (":" directly before "/") compiles to a
// capture with an empty name; the compiler does not enforce that
// parameter names are unique; a duplicated name is last-write-wins
// when bound.
func Compile(method, pattern string, handler Handler) *Route {
	var expr strings.Builder
	var names []string

	expr.WriteByte('^')
	for pos := 0; pos < len(pattern); {
		switch c := pattern[pos]; c {
		case ':':
			pos++
			start := pos
			for pos < len(pattern) && pattern[pos] != '/' {
				pos++
			}
			names = append(names, pattern[start:pos])
			expr.WriteString("([^/]+)")
		case '*':
			pos++
			names = append(names, "*")
			expr.WriteString("(.*)")
		default:
			switch c {
			case '.', '(', ')', '[', ']', '{', '}', '+', '?', '^', '$', '|', '\\':
				expr.WriteByte('\\')
			}
			expr.WriteByte(c)
			pos++
		}
	}
	expr.WriteByte('$')

	return &Route{
		Method:     method,
		Pattern:    pattern,
		ParamNames: names,
		Handler:    handler,
		matcher:    regexp.MustCompile(expr.String()),
	}
}

// Match tests the route against a concrete method and path. On
// success the captured values are bound into params, keyed by the
// pattern's parameter names in left-to-right order, and Match returns
// true. On failure params is left untouched.
func (r *Route) Match(method, path string, params map[string]string) bool {
	if r.Method != MethodAny && r.Method != method {
		return false
	}
	m := r.matcher.FindStringSubmatch(path)
	if m == nil {
		return false
	}
	for i, name := range r.ParamNames {
		params[name] = m[i+1]
	}
	return true
}
