package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/utils"
)

// ReturnToCookie remembers where an anonymous visitor was headed so login can
// send them back there.
const ReturnToCookie = "return_to"

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

// SessionMiddleware resolves the session_id cookie into a user identity on
// the request context. Requests without a valid, unexpired session continue
// anonymously; the guards below decide whether that is acceptable.
func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := fetcher.FindSessionByID(cookie.Value)
			if err != nil || session.ExpiresAt.Before(time.Now()) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin is the authentication guard. Anonymous requests are remembered,
// notified, and redirected to the login page; the downstream handler never
// runs.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			http.SetCookie(w, &http.Cookie{
				Name:     ReturnToCookie,
				Value:    r.URL.Path,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			flash.Add(w, r, flash.LevelError, "You must be signed in first!")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MethodOverride lets HTML forms issue PUT and DELETE: a POST with a _method
// query parameter is rewritten before routing.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch r.URL.Query().Get("_method") {
			case http.MethodPut:
				r.Method = http.MethodPut
			case http.MethodDelete:
				r.Method = http.MethodDelete
			}
		}
		next.ServeHTTP(w, r)
	})
}
