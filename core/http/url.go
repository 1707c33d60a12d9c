package http

import (
	"net/url"
	"strings"
)

// SplitTarget splits a request target into path and raw query string.
func SplitTarget(target string) (path, rawQuery string) {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}

// ParseQuery parses a raw query string (or urlencoded form body) into
// a key-value map. Keys without '=' map to "". Last write wins for
// duplicate keys.
func ParseQuery(rawQuery string) map[string]string {
	out := make(map[string]string)
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = cutByte(rawQuery, '&')
		if pair == "" {
			continue
		}
		key, value, found := cutByte(pair, '=')
		key = queryUnescape(key)
		if found {
			out[key] = queryUnescape(value)
		} else {
			out[key] = ""
		}
	}
	return out
}

// ParseCookies parses a Cookie header value into a name-value map.
func ParseCookies(header string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, found := cutByte(part, '=')
		if !found || name == "" {
			continue
		}
		out[name] = value
	}
	return out
}

func cutByte(s string, sep byte) (before, after string, found bool) {
	if i := strings.IndexByte(s, sep); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// queryUnescape decodes percent escapes and '+'. Malformed escapes
// are passed through verbatim rather than rejected.
func queryUnescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
