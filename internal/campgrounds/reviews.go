package campgrounds

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pitchpoint/backend/internal/db"
	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/httperr"
	"github.com/pitchpoint/backend/internal/utils"
	"gorm.io/gorm"
)

func CreateReview(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return httperr.New(http.StatusUnauthorized, "You must be signed in first!")
	}

	campgroundID := chi.URLParam(r, "campgroundID")
	var camp Campground
	err := db.DB.Select("id").First(&camp, "id = ?", campgroundID).Error
	if err == gorm.ErrRecordNotFound {
		flash.Add(w, r, flash.LevelError, "Cannot find that campground!")
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
		return nil
	}
	if err != nil {
		return err
	}

	rating, err := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))
	if err != nil {
		return httperr.New(http.StatusBadRequest, `"rating" must be an integer`)
	}

	review := Review{
		ID:           uuid.NewString(),
		CampgroundID: camp.ID,
		AuthorID:     userID,
		Body:         strings.TrimSpace(r.FormValue("body")),
		Rating:       rating,
	}
	if err := db.DB.Create(&review).Error; err != nil {
		return err
	}

	flash.Add(w, r, flash.LevelSuccess, "Created new review!")
	http.Redirect(w, r, "/campgrounds/"+camp.ID, http.StatusFound)
	return nil
}

func DeleteReview(w http.ResponseWriter, r *http.Request) error {
	campgroundID := chi.URLParam(r, "campgroundID")
	reviewID := chi.URLParam(r, "reviewID")

	if err := db.DB.Where("id = ? AND campground_id = ?", reviewID, campgroundID).Delete(&Review{}).Error; err != nil {
		return err
	}

	flash.Add(w, r, flash.LevelSuccess, "Successfully deleted review!")
	http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusFound)
	return nil
}
