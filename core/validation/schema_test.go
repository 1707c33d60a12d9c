package validation

import (
	"strings"
	"testing"

	"github.com/nodego/node-server/core/http"
	"github.com/nodego/node-server/core/jsonval"
)

func body(t *testing.T, raw string) jsonval.Value {
	t.Helper()
	v, err := jsonval.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("test body invalid: %v", err)
	}
	return v
}

func TestRequired(t *testing.T) {
	schema := NewSchema(
		Field("name").Required().String(),
		Field("nick").String(),
	)

	errs := schema.Validate(body(t, `{"nick":"a"}`))
	if len(errs) != 1 || errs[0].Field != "name" {
		t.Errorf("expected one error on name, got %v", errs)
	}

	errs = schema.Validate(body(t, `{"name":"ada"}`))
	if len(errs) != 0 {
		t.Errorf("optional nick may be absent, got %v", errs)
	}
}

func TestTypeChecks(t *testing.T) {
	schema := NewSchema(
		Field("age").Required().Number(),
		Field("active").Required().Bool(),
		Field("tags").Required().Array(),
	)

	errs := schema.Validate(body(t, `{"age":"old","active":1,"tags":{}}`))
	if len(errs) != 3 {
		t.Fatalf("expected 3 type errors, got %v", errs)
	}

	errs = schema.Validate(body(t, `{"age":30,"active":true,"tags":[]}`))
	if len(errs) != 0 {
		t.Errorf("expected clean pass, got %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	schema := NewSchema(Field("qty").Required().Number().Min(1).Max(10))

	if errs := schema.Validate(body(t, `{"qty":0}`)); len(errs) != 1 {
		t.Errorf("below min: got %v", errs)
	}
	if errs := schema.Validate(body(t, `{"qty":11}`)); len(errs) != 1 {
		t.Errorf("above max: got %v", errs)
	}
	if errs := schema.Validate(body(t, `{"qty":5}`)); len(errs) != 0 {
		t.Errorf("in range: got %v", errs)
	}
}

func TestStringRules(t *testing.T) {
	schema := NewSchema(
		Field("user").Required().String().MinLen(3).MaxLen(8),
		Field("email").Required().String().Pattern(`^[^@]+@[^@]+$`),
		Field("role").Required().String().OneOf("admin", "viewer"),
	)

	errs := schema.Validate(body(t, `{"user":"ab","email":"nope","role":"root"}`))
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}

	errs = schema.Validate(body(t, `{"user":"ada","email":"ada@example.com","role":"admin"}`))
	if len(errs) != 0 {
		t.Errorf("expected clean pass, got %v", errs)
	}
}

func TestValidateMiddleware(t *testing.T) {
	schema := NewSchema(Field("name").Required().String())
	mw := Validate(schema)

	// Invalid body: 400, chain stops.
	req := http.NewRequest("POST", "/items")
	req.Body = body(t, `{}`)
	res := http.NewResponse(nil)
	nextCalled := false
	mw(req, res, func() { nextCalled = true })

	if nextCalled {
		t.Error("next must be withheld on validation failure")
	}
	if res.StatusCode() != 400 {
		t.Errorf("status: got %d", res.StatusCode())
	}
	if !strings.Contains(string(res.Body()), `"Validation Failed"`) {
		t.Errorf("body: got %s", res.Body())
	}

	// Valid body passes through.
	req = http.NewRequest("POST", "/items")
	req.Body = body(t, `{"name":"widget"}`)
	nextCalled = false
	mw(req, http.NewResponse(nil), func() { nextCalled = true })

	if !nextCalled {
		t.Error("valid body should continue the chain")
	}
}
