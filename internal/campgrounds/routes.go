package campgrounds

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pitchpoint/backend/internal/middleware"
	"github.com/pitchpoint/backend/internal/render"
	"github.com/pitchpoint/backend/internal/validate"
)

// SetupRoutes builds the campground router, mounted at /campgrounds. Guard
// order is fixed per route: authentication, then ownership, then validation,
// then the handler.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", render.Catch(Index))
	r.With(middleware.RequireLogin).Get("/new", render.Catch(NewForm))
	r.With(middleware.RequireLogin, validate.Middleware(validate.Campground)).Post("/", render.Catch(Create))

	r.Route("/{campgroundID}", func(r chi.Router) {
		r.Get("/", render.Catch(Show))
		r.With(middleware.RequireLogin, RequireAuthor).Get("/edit", render.Catch(EditForm))
		r.With(middleware.RequireLogin, RequireAuthor, validate.Middleware(validate.Campground)).Put("/", render.Catch(Update))
		r.With(middleware.RequireLogin, RequireAuthor).Delete("/", render.Catch(Delete))

		r.Route("/reviews", func(r chi.Router) {
			r.With(middleware.RequireLogin, validate.Middleware(validate.Review)).Post("/", render.Catch(CreateReview))
			r.With(middleware.RequireLogin, RequireReviewAuthor).Delete("/{reviewID}", render.Catch(DeleteReview))
		})
	})

	return r
}
