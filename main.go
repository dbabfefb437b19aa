package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/pitchpoint/backend/internal/auth"
	"github.com/pitchpoint/backend/internal/campgrounds"
	"github.com/pitchpoint/backend/internal/db"
	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/geocoding"
	"github.com/pitchpoint/backend/internal/media"
	"github.com/pitchpoint/backend/internal/middleware"
	"github.com/pitchpoint/backend/internal/render"
	"github.com/sirupsen/logrus"
)

func HomeHandler(w http.ResponseWriter, r *http.Request) error {
	render.HTML(w, r, http.StatusOK, "home", "Home", nil)
	return nil
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	auth.Init()
	flash.Init()
	campgrounds.Init()

	campgrounds.Geocoder = geocoding.NewClient(os.Getenv("GOOGLE_MAPS_API_KEY"))

	store, err := media.NewS3Store(context.Background())
	if err != nil {
		logrus.Fatal("Failed to set up media store: ", err)
	}
	campgrounds.Media = store

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.MethodOverride)
	r.Use(middleware.SessionMiddleware(auth.SessionInfo{}))

	r.Get("/", render.Catch(HomeHandler))
	auth.RegisterRoutes(r)
	r.Mount("/campgrounds", campgrounds.SetupRoutes())
	r.NotFound(render.NotFound)

	logrus.Info("Server listening on port :", port)
	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		logrus.Fatal(err)
	}
}
