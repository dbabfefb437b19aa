package flash

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pitchpoint/backend/internal/db"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CookieName identifies the browser a pending notice stack belongs to. The
// cookie is issued lazily on the first flash and works for anonymous visitors
// as well as logged-in users.
const CookieName = "flash_session"

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Stack holds the pending notices of one level for one browser. Messages are
// appended on Add and the whole row set is deleted on Pop, so a notice is
// rendered at most once.
type Stack struct {
	ID         string `gorm:"primaryKey"`
	SessionKey string `gorm:"index;not null"`
	Level      string `gorm:"not null"`
	Messages   pq.StringArray `gorm:"type:text[]"`
	CreatedAt  time.Time
}

func (Stack) TableName() string { return "flash.stacks" }

func Init() {
	if err := db.EnsureSchema(db.DB, "flash"); err != nil {
		logrus.Fatal("Failed to ensure schema flash: ", err)
	}
	if err := db.DB.AutoMigrate(&Stack{}); err != nil {
		logrus.Fatal("Failed to auto-migrate flash tables: ", err)
	}
}

func sessionKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Make the key visible to Pop within the same request cycle.
	r.AddCookie(&http.Cookie{Name: CookieName, Value: key})
	return key
}

// Add queues a one-shot notice for the browser behind r.
func Add(w http.ResponseWriter, r *http.Request, level, message string) {
	key := sessionKey(w, r)

	var stack Stack
	err := db.DB.Where("session_key = ? AND level = ?", key, level).First(&stack).Error
	if err == nil {
		if err := db.DB.Model(&stack).Update("messages", append(stack.Messages, message)).Error; err != nil {
			logrus.Warn("Failed to append flash notice: ", err)
		}
		return
	}
	if err != gorm.ErrRecordNotFound {
		logrus.Warn("Failed to look up flash stack: ", err)
		return
	}

	stack = Stack{
		ID:         uuid.NewString(),
		SessionKey: key,
		Level:      level,
		Messages:   pq.StringArray{message},
	}
	if err := db.DB.Create(&stack).Error; err != nil {
		logrus.Warn("Failed to create flash stack: ", err)
	}
}

// Pop returns every pending notice for the browser behind r, grouped by
// level, and clears them. The second read of the same stack returns nothing.
func Pop(r *http.Request) map[string][]string {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	var stacks []Stack
	if err := db.DB.Where("session_key = ?", cookie.Value).Order("created_at").Find(&stacks).Error; err != nil {
		logrus.Warn("Failed to load flash stacks: ", err)
		return nil
	}
	if len(stacks) == 0 {
		return nil
	}

	notices := make(map[string][]string)
	for _, stack := range stacks {
		notices[stack.Level] = append(notices[stack.Level], stack.Messages...)
	}

	if err := db.DB.Where("session_key = ?", cookie.Value).Delete(&Stack{}).Error; err != nil {
		logrus.Warn("Failed to clear flash stacks: ", err)
	}
	return notices
}
