package validate

import (
	"net/http"
	"strings"

	"github.com/pitchpoint/backend/internal/render"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
// while parsing; larger file parts spill to temp files.
const maxUploadMemory = 32 << 20

// ParseForm parses either flavor of form body and leaves the values (and any
// multipart files) cached on the request for the downstream handler.
func ParseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadMemory)
	}
	return r.ParseForm()
}

// Middleware rejects the request with a 400 error page when the form violates
// the rule set. It runs after the auth guards and strictly before the handler,
// so an invalid payload never touches the store.
func Middleware(rs RuleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ParseForm(r); err != nil {
				render.Error(w, r, http.StatusBadRequest, "Invalid form data")
				return
			}
			if violations := rs.Check(r.Form); len(violations) > 0 {
				render.Error(w, r, http.StatusBadRequest, strings.Join(violations, ". "))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
