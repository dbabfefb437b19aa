package campgrounds

import (
	"github.com/pitchpoint/backend/internal/db"
	"github.com/pitchpoint/backend/internal/geocoding"
	"github.com/pitchpoint/backend/internal/media"
	"github.com/sirupsen/logrus"
)

// Geocoder and Media are the external collaborators of this package. main.go
// wires the real clients; tests substitute stubs.
var (
	Geocoder geocoding.Geocoder
	Media    media.Store
)

func Init() {
	if err := db.EnsureSchema(db.DB, "camp"); err != nil {
		logrus.Fatal("Failed to ensure schema camp: ", err)
	}

	if err := db.DB.AutoMigrate(&Campground{}, &CampgroundImage{}, &Review{}); err != nil {
		logrus.Fatal("Failed to auto-migrate campground tables: ", err)
	}
}
