package campgrounds

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pitchpoint/backend/internal/db"
	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/httperr"
	"github.com/pitchpoint/backend/internal/render"
	"github.com/pitchpoint/backend/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func byPosition(tx *gorm.DB) *gorm.DB { return tx.Order("position") }

func Index(w http.ResponseWriter, r *http.Request) error {
	var camps []Campground
	if err := db.DB.Preload("Images", byPosition).Order("created_at DESC").Find(&camps).Error; err != nil {
		return err
	}
	render.HTML(w, r, http.StatusOK, "campgrounds-index", "Campgrounds", camps)
	return nil
}

func NewForm(w http.ResponseWriter, r *http.Request) error {
	render.HTML(w, r, http.StatusOK, "campgrounds-new", "New Campground", nil)
	return nil
}

// uploadImages pushes every submitted photo to the media store and returns
// the rows to attach, positioned after basePos. An upload failure aborts the
// whole request; there is nothing sensible to render with half the photos.
func uploadImages(r *http.Request, userID string, basePos int) ([]CampgroundImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var images []CampgroundImage
	for i, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload %s: %w", header.Filename, err)
		}

		key := fmt.Sprintf("campgrounds/%s/%s_%s", userID, uuid.NewString(), header.Filename)
		obj, err := Media.Upload(r.Context(), key, file, header.Header.Get("Content-Type"))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", header.Filename, err)
		}

		images = append(images, CampgroundImage{
			ID:       uuid.NewString(),
			URL:      obj.URL,
			Key:      obj.Key,
			Position: basePos + i,
		})
	}
	return images, nil
}

func Create(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return httperr.New(http.StatusUnauthorized, "You must be signed in first!")
	}

	// Geometry comes from the geocoder, never from the form.
	point, err := Geocoder.Geocode(r.Context(), strings.TrimSpace(r.FormValue("location")))
	if err != nil {
		return fmt.Errorf("geocoding location: %w", err)
	}

	images, err := uploadImages(r, userID, 0)
	if err != nil {
		return err
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil {
		return httperr.New(http.StatusBadRequest, `"price" must be a number`)
	}

	camp := Campground{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       price,
		Lng:         point.Lng,
		Lat:         point.Lat,
		AuthorID:    userID,
		Images:      images,
	}
	if err := db.DB.Create(&camp).Error; err != nil {
		return err
	}

	flash.Add(w, r, flash.LevelSuccess, "Successfully made a new campground!")
	http.Redirect(w, r, "/campgrounds/"+camp.ID, http.StatusFound)
	return nil
}

func Show(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "campgroundID")

	var camp Campground
	err := db.DB.
		Preload("Images", byPosition).
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Reviews.Author").
		Preload("Author").
		First(&camp, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		flash.Add(w, r, flash.LevelError, "Cannot find that campground!")
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
		return nil
	}
	if err != nil {
		return err
	}

	render.HTML(w, r, http.StatusOK, "campgrounds-show", camp.Title, camp)
	return nil
}

func EditForm(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "campgroundID")

	var camp Campground
	err := db.DB.Preload("Images", byPosition).First(&camp, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		flash.Add(w, r, flash.LevelError, "Cannot find that campground!")
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
		return nil
	}
	if err != nil {
		return err
	}

	render.HTML(w, r, http.StatusOK, "campgrounds-edit", "Edit Campground", camp)
	return nil
}

func Update(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return httperr.New(http.StatusUnauthorized, "You must be signed in first!")
	}

	id := chi.URLParam(r, "campgroundID")
	var camp Campground
	err := db.DB.Preload("Images", byPosition).First(&camp, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		flash.Add(w, r, flash.LevelError, "Cannot find that campground!")
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
		return nil
	}
	if err != nil {
		return err
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil {
		return httperr.New(http.StatusBadRequest, `"price" must be a number`)
	}

	updates := map[string]any{
		"title":       strings.TrimSpace(r.FormValue("title")),
		"location":    strings.TrimSpace(r.FormValue("location")),
		"description": strings.TrimSpace(r.FormValue("description")),
		"price":       price,
	}

	// Only hit the geocoder when the location text actually changed.
	if location := updates["location"].(string); location != camp.Location {
		point, err := Geocoder.Geocode(r.Context(), location)
		if err != nil {
			return fmt.Errorf("geocoding location: %w", err)
		}
		updates["lng"] = point.Lng
		updates["lat"] = point.Lat
	}

	if err := db.DB.Model(&camp).Updates(updates).Error; err != nil {
		return err
	}

	newImages, err := uploadImages(r, userID, len(camp.Images))
	if err != nil {
		return err
	}
	if len(newImages) > 0 {
		for i := range newImages {
			newImages[i].CampgroundID = camp.ID
		}
		if err := db.DB.Create(&newImages).Error; err != nil {
			return err
		}
	}

	if deleteKeys := r.Form["deleteImages"]; len(deleteKeys) > 0 {
		// Media-store cleanup is best-effort: a failed delete is logged, the
		// update still goes through.
		for _, key := range deleteKeys {
			if err := Media.Delete(r.Context(), key); err != nil {
				logrus.Warn("Failed to delete image from media store: ", err)
			}
		}
		if err := db.DB.Where("campground_id = ? AND key IN ?", camp.ID, deleteKeys).Delete(&CampgroundImage{}).Error; err != nil {
			return err
		}
	}

	flash.Add(w, r, flash.LevelSuccess, "Successfully updated campground!")
	http.Redirect(w, r, "/campgrounds/"+camp.ID, http.StatusFound)
	return nil
}

func Delete(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "campgroundID")

	var camp Campground
	err := db.DB.Preload("Images").First(&camp, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		flash.Add(w, r, flash.LevelError, "Cannot find that campground!")
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
		return nil
	}
	if err != nil {
		return err
	}

	// Reviews first, then images, then the campground itself. Sequential,
	// not transactional: an interruption can leave media objects behind but
	// never a review pointing at a live campground.
	if err := db.DB.Where("campground_id = ?", camp.ID).Delete(&Review{}).Error; err != nil {
		return err
	}

	for _, image := range camp.Images {
		if err := Media.Delete(r.Context(), image.Key); err != nil {
			logrus.Warn("Failed to delete image from media store: ", err)
		}
	}
	if err := db.DB.Where("campground_id = ?", camp.ID).Delete(&CampgroundImage{}).Error; err != nil {
		return err
	}

	if err := db.DB.Delete(&Campground{}, "id = ?", camp.ID).Error; err != nil {
		return err
	}

	flash.Add(w, r, flash.LevelSuccess, "Successfully deleted the campground!")
	http.Redirect(w, r, "/campgrounds", http.StatusFound)
	return nil
}
