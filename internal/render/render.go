// Package render owns the HTML layer: the embedded templates, the flash and
// current-user context every page receives, and the single error translator
// that turns handler failures into a rendered error page.
package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/httperr"
	"github.com/pitchpoint/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

//go:embed templates
var templateFS embed.FS

// Page is the data every template executes against.
type Page struct {
	Title  string
	UserID string // empty when the visitor is anonymous
	Flash  map[string][]string
	Data   any
}

var pages = map[string]*template.Template{}

func init() {
	layout := template.Must(template.ParseFS(templateFS, "templates/layout.html"))

	entries, err := templateFS.ReadDir("templates/pages")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".html")
		t := template.Must(template.Must(layout.Clone()).ParseFS(templateFS, "templates/pages/"+entry.Name()))
		pages[name] = t
	}
}

// HTML renders the named page inside the shared layout. Flash notices are
// drained here, so a notice set on a redirect shows up exactly once.
func HTML(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	t, ok := pages[page]
	if !ok {
		logrus.Error("Unknown template: ", page)
		http.Error(w, "Something Went Wrong", http.StatusInternalServerError)
		return
	}

	p := Page{Title: title, Flash: flash.Pop(r), Data: data}
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		p.UserID = userID
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		logrus.Error("Template execution failed: ", err)
		http.Error(w, "Something Went Wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the generic error page with the given status and message.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	HTML(w, r, status, "error", "Error", message)
}

// NotFound is installed as the router's NotFound handler.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, r, http.StatusNotFound, "Page Not Found")
}

// Catch adapts an error-returning handler to http.HandlerFunc and is the one
// place handler failures become a response. A *httperr.Error keeps its status
// and message; anything else is a 500 with a generic page, never internal
// detail.
func Catch(h func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var he *httperr.Error
		if errors.As(err, &he) {
			status := he.Status
			if status == 0 {
				status = http.StatusInternalServerError
			}
			message := he.Message
			if message == "" {
				message = "Something Went Wrong"
			}
			Error(w, r, status, message)
			return
		}

		logrus.WithError(err).Error("Unhandled handler error")
		Error(w, r, http.StatusInternalServerError, "Something Went Wrong")
	}
}
