package campgrounds

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pitchpoint/backend/internal/db"
	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/middleware"
	"github.com/pitchpoint/backend/internal/render"
	"github.com/pitchpoint/backend/internal/utils"
	"gorm.io/gorm"
)

// RequireAuthor is the ownership guard for campground mutations. A missing
// campground is reported exactly like the plain not-found path, so the
// response never reveals whether a resource exists under someone else's
// account.
func RequireAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			// Authorization without authentication is meaningless; fall back
			// to the authentication guard.
			middleware.RequireLogin(next).ServeHTTP(w, r)
			return
		}

		id := chi.URLParam(r, "campgroundID")
		var camp Campground
		err := db.DB.Select("id", "author_id").First(&camp, "id = ?", id).Error
		if err == gorm.ErrRecordNotFound {
			flash.Add(w, r, flash.LevelError, "Cannot find that campground!")
			http.Redirect(w, r, "/campgrounds", http.StatusFound)
			return
		}
		if err != nil {
			render.Error(w, r, http.StatusInternalServerError, "Something Went Wrong")
			return
		}

		if camp.AuthorID != userID {
			flash.Add(w, r, flash.LevelError, "You do not have permission to do that!")
			http.Redirect(w, r, "/campgrounds/"+id, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireReviewAuthor is the ownership guard for review deletion.
func RequireReviewAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			middleware.RequireLogin(next).ServeHTTP(w, r)
			return
		}

		campgroundID := chi.URLParam(r, "campgroundID")
		reviewID := chi.URLParam(r, "reviewID")

		var review Review
		err := db.DB.Select("id", "author_id").First(&review, "id = ? AND campground_id = ?", reviewID, campgroundID).Error
		if err == gorm.ErrRecordNotFound {
			flash.Add(w, r, flash.LevelError, "Cannot find that review!")
			http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusFound)
			return
		}
		if err != nil {
			render.Error(w, r, http.StatusInternalServerError, "Something Went Wrong")
			return
		}

		if review.AuthorID != userID {
			flash.Add(w, r, flash.LevelError, "You do not have permission to do that!")
			http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
