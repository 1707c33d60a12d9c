package router

import (
	"testing"

	"github.com/nodego/node-server/core/http"
)

func noop(req *http.Request, res *http.Response) {}

func TestLiteralPattern(t *testing.T) {
	route := Compile("GET", "/users/all", noop)

	tests := []struct {
		path        string
		shouldMatch bool
	}{
		{"/users/all", true},
		{"/users", false},
		{"/users/all/extra", false}, // anchored, never a prefix match
		{"/users/al", false},
	}

	for _, tt := range tests {
		params := map[string]string{}
		if got := route.Match("GET", tt.path, params); got != tt.shouldMatch {
			t.Errorf("path %s: expected match=%v, got %v", tt.path, tt.shouldMatch, got)
		}
	}

	if len(route.ParamNames) != 0 {
		t.Errorf("literal pattern should have no params, got %v", route.ParamNames)
	}
}

func TestParamCaptures(t *testing.T) {
	route := Compile("GET", "/a/:x/b/:y", noop)

	params := map[string]string{}
	if !route.Match("GET", "/a/1/b/2", params) {
		t.Fatal("expected match")
	}
	if params["x"] != "1" || params["y"] != "2" {
		t.Errorf("expected {x:1 y:2}, got %v", params)
	}

	if route.Match("GET", "/a/1/b", map[string]string{}) {
		t.Error("missing segment must not match")
	}
	if route.Match("GET", "/a//b/2", map[string]string{}) {
		t.Error("empty segment must not match a one-or-more capture")
	}
}

func TestParamNameOrder(t *testing.T) {
	route := Compile("GET", "/:a/:b/:c", noop)

	want := []string{"a", "b", "c"}
	if len(route.ParamNames) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), route.ParamNames)
	}
	for i, name := range want {
		if route.ParamNames[i] != name {
			t.Errorf("name[%d]: expected %q, got %q", i, name, route.ParamNames[i])
		}
	}
}

func TestWildcardCapture(t *testing.T) {
	route := Compile("GET", "/files/*", noop)

	params := map[string]string{}
	if !route.Match("GET", "/files/sub/dir/name.txt", params) {
		t.Fatal("expected match")
	}
	if got := params["*"]; got != "sub/dir/name.txt" {
		t.Errorf("wildcard capture: expected %q, got %q", "sub/dir/name.txt", got)
	}
}

func TestMidPatternWildcard(t *testing.T) {
	route := Compile("GET", "/static/*/raw", noop)

	params := map[string]string{}
	if !route.Match("GET", "/static/css/site/raw", params) {
		t.Fatal("expected match")
	}
	if got := params["*"]; got != "css/site" {
		t.Errorf("mid-pattern wildcard: got %q", got)
	}
}

func TestMethodWildcard(t *testing.T) {
	route := Compile(MethodAny, "/ping", noop)

	for _, method := range []string{"GET", "POST", "DELETE"} {
		if !route.Match(method, "/ping", map[string]string{}) {
			t.Errorf("%s /ping should match the any-method route", method)
		}
	}
}

func TestMethodMismatch(t *testing.T) {
	route := Compile("GET", "/data", noop)
	if route.Match("POST", "/data", map[string]string{}) {
		t.Error("POST must not match a GET route")
	}
}

func TestMetacharacterEscaping(t *testing.T) {
	route := Compile("GET", "/file.txt", noop)

	if !route.Match("GET", "/file.txt", map[string]string{}) {
		t.Error("literal dot should match itself")
	}
	if route.Match("GET", "/fileXtxt", map[string]string{}) {
		t.Error("dot must not act as a regex wildcard")
	}

	route = Compile("GET", "/v1.0/items(+)", noop)
	if !route.Match("GET", "/v1.0/items(+)", map[string]string{}) {
		t.Error("parens and plus should match literally")
	}
}

func TestEmptyParamName(t *testing.T) {
	route := Compile("GET", "/x/:/y", noop)

	params := map[string]string{}
	if !route.Match("GET", "/x/42/y", params) {
		t.Fatal("empty-name parameter should still capture")
	}
	if got := params[""]; got != "42" {
		t.Errorf("empty-name capture: got %q", got)
	}
}

func TestDuplicateParamNamesLastWriteWins(t *testing.T) {
	route := Compile("GET", "/a/:x/:x", noop)

	params := map[string]string{}
	if !route.Match("GET", "/a/1/2", params) {
		t.Fatal("expected match")
	}
	if got := params["x"]; got != "2" {
		t.Errorf("duplicate name binding: expected last capture, got %q", got)
	}
}

func TestMatchFailureLeavesParamsUntouched(t *testing.T) {
	route := Compile("GET", "/users/:id/x", noop)

	params := map[string]string{"prior": "kept"}
	if route.Match("GET", "/users/42", params) {
		t.Fatal("should not match")
	}
	if len(params) != 1 || params["prior"] != "kept" {
		t.Errorf("failed match mutated params: %v", params)
	}
}

func BenchmarkMatchParam(b *testing.B) {
	route := Compile("GET", "/users/:id/posts/:postId", noop)
	params := map[string]string{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		route.Match("GET", "/users/42/posts/7", params)
	}
}

func BenchmarkMatchLiteral(b *testing.B) {
	route := Compile("GET", "/health/live", noop)
	params := map[string]string{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		route.Match("GET", "/health/live", params)
	}
}
