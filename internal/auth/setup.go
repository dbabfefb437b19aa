package auth

import (
	"github.com/pitchpoint/backend/internal/db"
	"github.com/sirupsen/logrus"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		logrus.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Session{}); err != nil {
		logrus.Fatal("Failed to auto-migrate auth tables: ", err)
	}
}
