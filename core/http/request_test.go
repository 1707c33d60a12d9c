package http

import (
	"testing"
)

func TestHeaderNormalization(t *testing.T) {
	req := NewRequest("GET", "/")
	req.SetHeader("Content-Type", "application/json")
	req.SetHeader("X-Custom", "one")
	req.SetHeader("x-custom", "two") // last write wins

	if got := req.Header("content-type"); got != "application/json" {
		t.Errorf("lowercase lookup: got %q", got)
	}
	if got := req.Header("CONTENT-TYPE"); got != "application/json" {
		t.Errorf("case-insensitive lookup: got %q", got)
	}
	if got := req.Get("X-Custom"); got != "two" {
		t.Errorf("last-write-wins: got %q", got)
	}
	if _, ok := req.Headers["Content-Type"]; ok {
		t.Error("stored keys must be lowercase")
	}
}

func TestNewRequestSplitsQuery(t *testing.T) {
	req := NewRequest("GET", "/search?q=hello+world&page=2&flag")

	if req.Path != "/search" {
		t.Errorf("path: got %q", req.Path)
	}
	if req.URL != "/search?q=hello+world&page=2&flag" {
		t.Errorf("url: got %q", req.URL)
	}
	if got := req.Query["q"]; got != "hello world" {
		t.Errorf("query q: got %q", got)
	}
	if got := req.Query["page"]; got != "2" {
		t.Errorf("query page: got %q", got)
	}
	if got, ok := req.Query["flag"]; !ok || got != "" {
		t.Errorf("valueless key: got %q ok=%v", got, ok)
	}
}

func TestParseQueryPercentDecoding(t *testing.T) {
	q := ParseQuery("name=J%C3%BCrgen&bad=%zz")

	if got := q["name"]; got != "Jürgen" {
		t.Errorf("percent decode: got %q", got)
	}
	// Malformed escapes pass through verbatim.
	if got := q["bad"]; got != "%zz" {
		t.Errorf("malformed escape: got %q", got)
	}
}

func TestParseCookies(t *testing.T) {
	cookies := ParseCookies("sid=abc123; theme=dark; malformed")

	if got := cookies["sid"]; got != "abc123" {
		t.Errorf("sid: got %q", got)
	}
	if got := cookies["theme"]; got != "dark" {
		t.Errorf("theme: got %q", got)
	}
	if _, ok := cookies["malformed"]; ok {
		t.Error("entries without '=' should be skipped")
	}
}

func TestAcceptsAndIs(t *testing.T) {
	req := NewRequest("POST", "/")
	req.SetHeader("Accept", "application/json, text/html")
	req.SetHeader("Content-Type", "application/json; charset=utf-8")

	if !req.Accepts("application/json") {
		t.Error("should accept application/json")
	}
	if req.Accepts("image/png") {
		t.Error("should not accept image/png")
	}
	if !req.Is("application/json") {
		t.Error("Is should match the content type prefix")
	}

	req.SetHeader("Accept", "*/*")
	if !req.Accepts("image/png") {
		t.Error("*/* should accept anything")
	}
}
