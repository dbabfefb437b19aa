package campgrounds

import (
	"time"

	"github.com/pitchpoint/backend/internal/auth"
)

type Campground struct {
	ID          string  `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Location    string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	// Set from the geocoder at create/update time, never from user input.
	Lng float64
	Lat float64
	// Set once at creation from the session identity.
	AuthorID  string    `gorm:"not null;index"`
	Author    auth.User `gorm:"foreignKey:AuthorID;references:UserID"`
	Images    []CampgroundImage `gorm:"foreignKey:CampgroundID"`
	Reviews   []Review          `gorm:"foreignKey:CampgroundID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CampgroundImage struct {
	ID           string `gorm:"primaryKey"`
	CampgroundID string `gorm:"index;not null"`
	URL          string `gorm:"not null"`
	// Object storage key, needed when the image is removed.
	Key      string `gorm:"not null"`
	Position int
}

type Review struct {
	ID           string    `gorm:"primaryKey"`
	CampgroundID string    `gorm:"index;not null"`
	AuthorID     string    `gorm:"not null"`
	Author       auth.User `gorm:"foreignKey:AuthorID;references:UserID"`
	Body         string    `gorm:"not null"`
	Rating       int       `gorm:"not null"`
	CreatedAt    time.Time
}

func (Campground) TableName() string      { return "camp.campgrounds" }
func (CampgroundImage) TableName() string { return "camp.campground_images" }
func (Review) TableName() string          { return "camp.reviews" }
