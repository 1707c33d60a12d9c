package middleware

import (
	"testing"

	"github.com/nodego/node-server/core/http"
)

func TestChainEmpty(t *testing.T) {
	chain := NewChain()

	doneCalled := false
	chain.Execute(http.NewRequest("GET", "/"), http.NewResponse(nil), func() {
		doneCalled = true
	})

	if !doneCalled {
		t.Error("done should run immediately for an empty chain")
	}
}

func TestChainOrder(t *testing.T) {
	chain := NewChain()

	var order []int
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		order = append(order, 1)
		next()
	})
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		order = append(order, 2)
		next()
	})
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		order = append(order, 3)
		next()
	})

	chain.Execute(http.NewRequest("GET", "/"), http.NewResponse(nil), func() {
		order = append(order, 4)
	})

	expected := []int{1, 2, 3, 4}
	if len(order) != len(expected) {
		t.Fatalf("expected %d steps, got %d", len(expected), len(order))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d]: expected %d, got %d", i, v, order[i])
		}
	}
}

func TestChainShortCircuit(t *testing.T) {
	chain := NewChain()

	secondRan := false
	doneRan := false

	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		res.Status(401).JSON(map[string]string{"error": "Unauthorized"})
		// next withheld
	})
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		secondRan = true
		next()
	})

	res := http.NewResponse(nil)
	chain.Execute(http.NewRequest("GET", "/"), res, func() { doneRan = true })

	if secondRan {
		t.Error("middleware after a short-circuit must not run")
	}
	if doneRan {
		t.Error("done must not run after a short-circuit")
	}
	if res.StatusCode() != 401 {
		t.Errorf("response should be untouched after short-circuit, got %d", res.StatusCode())
	}
}

func TestChainHaltsWithoutSend(t *testing.T) {
	chain := NewChain()

	doneRan := false
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		// Neither sends nor continues: chain stops here.
	})

	chain.Execute(http.NewRequest("GET", "/"), http.NewResponse(nil), func() { doneRan = true })

	if doneRan {
		t.Error("done must not run when a middleware withholds next")
	}
}

func TestChainSentLatchGuard(t *testing.T) {
	chain := NewChain()

	secondRan := false
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		// Defensive middleware that sends and still calls next. The
		// executor must notice the latch and stop before step two.
		res.SendString("done early")
		next()
	})
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		secondRan = true
		next()
	})

	chain.Execute(http.NewRequest("GET", "/"), http.NewResponse(nil), func() {
		t.Error("done must not run once the response is sent")
	})

	if secondRan {
		t.Error("middleware must not run once the response is sent")
	}
}

func TestChainPanicPropagates(t *testing.T) {
	chain := NewChain()
	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		panic("middleware exploded")
	})

	defer func() {
		if r := recover(); r == nil {
			t.Error("panic should propagate out of Execute")
		}
	}()

	chain.Execute(http.NewRequest("GET", "/"), http.NewResponse(nil), func() {})
}

func TestChainMutatesRequest(t *testing.T) {
	chain := NewChain()

	chain.Use(func(req *http.Request, res *http.Response, next Next) {
		req.SetHeader("X-Session-Id", "abc")
		next()
	})

	req := http.NewRequest("GET", "/")
	sawHeader := ""
	chain.Execute(req, http.NewResponse(nil), func() {
		sawHeader = req.Header("x-session-id")
	})

	if sawHeader != "abc" {
		t.Errorf("downstream should see middleware mutations, got %q", sawHeader)
	}
}

func BenchmarkChainExecute(b *testing.B) {
	chain := NewChain()
	passthrough := func(req *http.Request, res *http.Response, next Next) { next() }
	chain.Use(passthrough)
	chain.Use(passthrough)
	chain.Use(passthrough)

	req := http.NewRequest("GET", "/bench")
	done := func() {}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chain.Execute(req, http.NewResponse(nil), done)
	}
}
