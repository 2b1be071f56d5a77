package middleware

import (
	"errors"
	"net/http"
	"strings"
)

// MethodOverrideField is the form field a browser form uses to ask for a
// method it cannot send.
const MethodOverrideField = "_method"

var overridable = map[string]bool{
	http.MethodDelete: true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
}

// MethodOverride rewrites POST requests carrying _method=DELETE (or PUT,
// PATCH) before routing. It wraps the engine rather than running as gin
// middleware because gin matches routes before its middleware chain runs.
// Form bodies are capped at limit.MaxBodySize before they are parsed.
func MethodOverride(next http.Handler, limit SizeLimitConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := r.URL.Query().Get(MethodOverrideField)
			if method == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				r.Body = http.MaxBytesReader(w, r.Body, limit.MaxBodySize)
				if err := r.ParseForm(); err != nil {
					status := http.StatusBadRequest
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						status = http.StatusRequestEntityTooLarge
					}
					http.Error(w, http.StatusText(status), status)
					return
				}
				method = r.PostForm.Get(MethodOverrideField)
			}
			if method = strings.ToUpper(method); overridable[method] {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}
