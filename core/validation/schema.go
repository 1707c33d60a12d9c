package validation

import (
	"fmt"
	"regexp"

	"github.com/nodego/node-server/core/http"
	"github.com/nodego/node-server/core/jsonval"
	"github.com/nodego/node-server/core/middleware"
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule is the declarative validation for one body field. Rules are
// built fluently and evaluated against the parsed request body.
type Rule struct {
	field    string
	required bool
	kind     string // "", "string", "number", "bool", "object", "array"
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	oneOf    []string
}

// Field starts a rule for the named body member.
func Field(name string) *Rule {
	return &Rule{field: name}
}

// Required marks the field mandatory.
func (r *Rule) Required() *Rule { r.required = true; return r }

// String requires a JSON string.
func (r *Rule) String() *Rule { r.kind = "string"; return r }

// Number requires a JSON number.
func (r *Rule) Number() *Rule { r.kind = "number"; return r }

// Bool requires a JSON boolean.
func (r *Rule) Bool() *Rule { r.kind = "bool"; return r }

// Object requires a JSON object.
func (r *Rule) Object() *Rule { r.kind = "object"; return r }

// Array requires a JSON array.
func (r *Rule) Array() *Rule { r.kind = "array"; return r }

// Min bounds a number from below.
func (r *Rule) Min(v float64) *Rule { r.min = &v; return r }

// Max bounds a number from above.
func (r *Rule) Max(v float64) *Rule { r.max = &v; return r }

// MinLen bounds a string's length from below.
func (r *Rule) MinLen(n int) *Rule { r.minLen = &n; return r }

// MaxLen bounds a string's length from above.
func (r *Rule) MaxLen(n int) *Rule { r.maxLen = &n; return r }

// Pattern requires a string to match expr (anchoring is the caller's
// choice).
func (r *Rule) Pattern(expr string) *Rule {
	r.pattern = regexp.MustCompile(expr)
	return r
}

// OneOf requires a string to be one of the listed values.
func (r *Rule) OneOf(values ...string) *Rule { r.oneOf = values; return r }

// Schema is an ordered collection of field rules.
type Schema struct {
	rules []*Rule
}

// NewSchema builds a schema from rules.
func NewSchema(rules ...*Rule) *Schema {
	return &Schema{rules: rules}
}

// Validate evaluates the schema against a parsed body and returns all
// failures; an empty slice means the body is valid.
func (s *Schema) Validate(body jsonval.Value) []FieldError {
	var errs []FieldError

	for _, r := range s.rules {
		v := body.Get(r.field)

		if !v.Exists() || v.IsNull() {
			if r.required {
				errs = append(errs, FieldError{r.field, "is required"})
			}
			continue
		}

		if msg := r.checkKind(v); msg != "" {
			errs = append(errs, FieldError{r.field, msg})
			continue
		}

		errs = append(errs, r.checkBounds(v)...)
	}

	return errs
}

func (r *Rule) checkKind(v jsonval.Value) string {
	switch r.kind {
	case "string":
		if !v.IsString() {
			return "must be a string"
		}
	case "number":
		if !v.IsNumber() {
			return "must be a number"
		}
	case "bool":
		if !v.IsBool() {
			return "must be a boolean"
		}
	case "object":
		if !v.IsObject() {
			return "must be an object"
		}
	case "array":
		if !v.IsArray() {
			return "must be an array"
		}
	}
	return ""
}

func (r *Rule) checkBounds(v jsonval.Value) []FieldError {
	var errs []FieldError

	if r.min != nil && v.Float(0) < *r.min {
		errs = append(errs, FieldError{r.field, fmt.Sprintf("must be >= %v", *r.min)})
	}
	if r.max != nil && v.Float(0) > *r.max {
		errs = append(errs, FieldError{r.field, fmt.Sprintf("must be <= %v", *r.max)})
	}

	if r.minLen != nil || r.maxLen != nil || r.pattern != nil || len(r.oneOf) > 0 {
		str := v.Str("")
		if r.minLen != nil && len(str) < *r.minLen {
			errs = append(errs, FieldError{r.field, fmt.Sprintf("must be at least %d characters", *r.minLen)})
		}
		if r.maxLen != nil && len(str) > *r.maxLen {
			errs = append(errs, FieldError{r.field, fmt.Sprintf("must be at most %d characters", *r.maxLen)})
		}
		if r.pattern != nil && !r.pattern.MatchString(str) {
			errs = append(errs, FieldError{r.field, "has an invalid format"})
		}
		if len(r.oneOf) > 0 {
			found := false
			for _, allowed := range r.oneOf {
				if str == allowed {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, FieldError{r.field, "is not an allowed value"})
			}
		}
	}

	return errs
}

// Validate returns a middleware that checks the parsed request body
// against the schema. Invalid requests get a 400 with per-field
// details and the chain stops; run BodyParser earlier in the chain.
func Validate(s *Schema) middleware.Func {
	return func(req *http.Request, res *http.Response, next middleware.Next) {
		errs := s.Validate(req.Body)
		if len(errs) > 0 {
			res.Status(400).JSON(map[string]any{
				"error":   "Validation Failed",
				"details": errs,
			})
			return
		}
		next()
	}
}
