package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pitchpoint/backend/internal/middleware"
	"github.com/pitchpoint/backend/internal/utils"
)

// mockFetcher implements middleware.SessionFetcher without any database
// dependency.
type mockFetcher struct {
	session utils.SessionData
	err     error
}

func (m mockFetcher) FindSessionByID(id string) (utils.SessionData, error) {
	return m.session, m.err
}

// echoUserID replies 200 with the userID from context, or 204 when anonymous.
var echoUserID = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(userID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
})

func callWithCookie(t *testing.T, mw func(http.Handler) http.Handler, cookieName, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	handler := mw(echoUserID)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if cookieName != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestSessionMiddleware_MissingCookie verifies that a request without a
// session cookie continues anonymously rather than being rejected.
func TestSessionMiddleware_MissingCookie(t *testing.T) {
	mw := middleware.SessionMiddleware(mockFetcher{})

	rec := callWithCookie(t, mw, "", "")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 (anonymous pass-through), got %d", rec.Code)
	}
}

// TestSessionMiddleware_ExpiredSession verifies that an expired session does
// not produce an identity.
func TestSessionMiddleware_ExpiredSession(t *testing.T) {
	mw := middleware.SessionMiddleware(mockFetcher{
		session: utils.SessionData{
			UserID:    "some-user",
			ExpiresAt: time.Now().Add(-1 * time.Hour),
		},
	})

	rec := callWithCookie(t, mw, "session_id", "expired-session-id")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 (anonymous pass-through), got %d", rec.Code)
	}
}

// TestSessionMiddleware_FetcherError verifies that an unknown session id is
// treated as anonymous.
func TestSessionMiddleware_FetcherError(t *testing.T) {
	mw := middleware.SessionMiddleware(mockFetcher{err: errors.New("session not found")})

	rec := callWithCookie(t, mw, "session_id", "nonexistent-session-id")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 (anonymous pass-through), got %d", rec.Code)
	}
}

// TestSessionMiddleware_ValidSession verifies that a valid, unexpired session
// injects the userID into the request context.
func TestSessionMiddleware_ValidSession(t *testing.T) {
	const wantUserID = "test-user-123"

	mw := middleware.SessionMiddleware(mockFetcher{
		session: utils.SessionData{
			UserID:    wantUserID,
			ExpiresAt: time.Now().Add(1 * time.Hour),
		},
	})

	rec := callWithCookie(t, mw, "session_id", "valid-session-id")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != wantUserID {
		t.Errorf("expected userID %q in context, got %q", wantUserID, got)
	}
}

// TestRequireLogin_Authenticated verifies that an identity in context passes
// straight through the guard.
func TestRequireLogin_Authenticated(t *testing.T) {
	mw := middleware.SessionMiddleware(mockFetcher{
		session: utils.SessionData{
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	})

	handler := mw(middleware.RequireLogin(echoUserID))
	req := httptest.NewRequest(http.MethodGet, "/campgrounds/new", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "valid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMethodOverride(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		want   string
	}{
		{"post to put", http.MethodPost, "/campgrounds/abc?_method=PUT", http.MethodPut},
		{"post to delete", http.MethodPost, "/campgrounds/abc?_method=DELETE", http.MethodDelete},
		{"plain post untouched", http.MethodPost, "/campgrounds", http.MethodPost},
		{"get never rewritten", http.MethodGet, "/campgrounds/abc?_method=DELETE", http.MethodGet},
		{"unknown override ignored", http.MethodPost, "/campgrounds/abc?_method=PATCH", http.MethodPost},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = r.Method
			})

			req := httptest.NewRequest(tc.method, tc.target, nil)
			rec := httptest.NewRecorder()
			middleware.MethodOverride(inner).ServeHTTP(rec, req)

			if seen != tc.want {
				t.Errorf("expected inner handler to see %s, got %s", tc.want, seen)
			}
		})
	}
}
