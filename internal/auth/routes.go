package auth

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/pitchpoint/backend/internal/render"
)

// RegisterRoutes attaches the user routes at the root of the router, the way
// the pages link to them (/register, /login, /logout).
func RegisterRoutes(r chi.Router) {
	credentialLimit := httprate.Limit(
		10,
		1*time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
	)

	r.Get("/register", render.Catch(RegisterForm))
	r.With(credentialLimit).Post("/register", render.Catch(Register))
	r.Get("/login", render.Catch(LoginForm))
	r.With(credentialLimit).Post("/login", render.Catch(Login))
	r.Post("/logout", render.Catch(Logout))
}
