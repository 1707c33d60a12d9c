package middleware

import (
	"github.com/nodego/node-server/core/http"
	"github.com/nodego/node-server/core/jsonval"
)

// BodyParser returns a middleware that populates req.Body. JSON
// bodies are parsed as-is; urlencoded form bodies become a flat JSON
// object. On malformed JSON it sends a 400 and stops the chain; the
// request never reaches routing.
func BodyParser() Func {
	return func(req *http.Request, res *http.Response, next Next) {
		if req.Is("application/json") && len(req.RawBody) > 0 {
			parsed, err := jsonval.Parse(req.RawBody)
			if err != nil {
				res.Status(400).JSON(map[string]string{
					"error":   "Bad Request",
					"message": "Invalid JSON: " + err.Error(),
				})
				return
			}
			req.Body = parsed
		}

		if req.Is("application/x-www-form-urlencoded") && len(req.RawBody) > 0 {
			form := jsonval.Object()
			for key, value := range http.ParseQuery(string(req.RawBody)) {
				// Set copies; an unrepresentable key cannot occur for
				// string values.
				form, _ = form.Set(key, value)
			}
			req.Body = form
		}

		next()
	}
}
