package auth

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pitchpoint/backend/internal/db"
	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/middleware"
	"github.com/pitchpoint/backend/internal/render"
	"github.com/pitchpoint/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 6 * time.Hour

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("APP_ENV") == "production",
	}
}

// openSession issues a fresh session for the user, replacing any existing row
// (one active session per user), and sets the cookie.
func openSession(w http.ResponseWriter, userID string) error {
	id := uuid.NewString()

	var existing Session
	err := db.DB.First(&existing, "user_id = ?", userID).Error
	switch {
	case err == nil:
		err = db.DB.Model(&existing).Updates(Session{
			SessionID: id,
			ExpiresAt: time.Now().Add(sessionTTL),
		}).Error
	case err == gorm.ErrRecordNotFound:
		err = db.DB.Create(&Session{
			SessionID: id,
			UserID:    userID,
			ExpiresAt: time.Now().Add(sessionTTL),
		}).Error
	}
	if err != nil {
		return err
	}

	http.SetCookie(w, sessionCookie(id, int(sessionTTL.Seconds())))
	return nil
}

// popReturnTo consumes the return_to cookie set by the authentication guard.
// Only same-site paths are honoured.
func popReturnTo(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(middleware.ReturnToCookie)
	if err != nil || cookie.Value == "" {
		return "/campgrounds"
	}
	http.SetCookie(w, &http.Cookie{Name: middleware.ReturnToCookie, Value: "", Path: "/", MaxAge: -1})

	target := cookie.Value
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/campgrounds"
	}
	return target
}

func RegisterForm(w http.ResponseWriter, r *http.Request) error {
	if _, ok := utils.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
		return nil
	}
	render.HTML(w, r, http.StatusOK, "users-register", "Register", nil)
	return nil
}

func Register(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		flash.Add(w, r, flash.LevelError, "Invalid form data")
		http.Redirect(w, r, "/register", http.StatusFound)
		return nil
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if username == "" || email == "" || password == "" {
		flash.Add(w, r, flash.LevelError, "Username, email and password are required")
		http.Redirect(w, r, "/register", http.StatusFound)
		return nil
	}

	var existing User
	if err := db.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		flash.Add(w, r, flash.LevelError, "A user with that username or email already exists")
		http.Redirect(w, r, "/register", http.StatusFound)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := User{
		UserID:         uuid.NewString(),
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return err
	}

	if err := openSession(w, user.UserID); err != nil {
		return err
	}

	flash.Add(w, r, flash.LevelSuccess, "Welcome to PitchPoint!")
	http.Redirect(w, r, popReturnTo(w, r), http.StatusFound)
	return nil
}

func LoginForm(w http.ResponseWriter, r *http.Request) error {
	if _, ok := utils.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
		return nil
	}
	render.HTML(w, r, http.StatusOK, "users-login", "Login", nil)
	return nil
}

func Login(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		flash.Add(w, r, flash.LevelError, "Invalid form data")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	var user User
	err := db.DB.First(&user, "username = ?", username).Error
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
	}
	if err != nil {
		flash.Add(w, r, flash.LevelError, "Invalid username or password")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}

	if err := openSession(w, user.UserID); err != nil {
		return err
	}

	flash.Add(w, r, flash.LevelSuccess, "Welcome back!")
	http.Redirect(w, r, popReturnTo(w, r), http.StatusFound)
	return nil
}

func Logout(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie("session_id")
	if err == nil {
		db.DB.Where("session_id = ?", cookie.Value).Delete(&Session{})
	}
	http.SetCookie(w, sessionCookie("", -1))

	flash.Add(w, r, flash.LevelSuccess, "Goodbye!")
	http.Redirect(w, r, "/campgrounds", http.StatusFound)
	return nil
}
