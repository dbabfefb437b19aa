package auth_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pitchpoint/backend/internal/auth"
	"github.com/pitchpoint/backend/internal/db"
	"github.com/pitchpoint/backend/internal/flash"
	"github.com/pitchpoint/backend/internal/middleware"
	"github.com/pitchpoint/backend/internal/render"
	"golang.org/x/crypto/bcrypt"
)

var (
	dbAvailable bool
	testServer  *httptest.Server
)

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect()
	auth.Init()
	flash.Init()
	dbAvailable = true

	// Mount the user routes the way main.go does, plus a guarded route to
	// probe authentication with.
	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(auth.SessionInfo{}))
	auth.RegisterRoutes(r)
	r.With(middleware.RequireLogin).Get("/guarded", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// Post-login redirects land on /campgrounds; a rendered page is enough.
	r.Get("/campgrounds", func(w http.ResponseWriter, r *http.Request) {
		render.HTML(w, r, http.StatusOK, "campgrounds-index", "Campgrounds", nil)
	})
	r.NotFound(render.NotFound)

	testServer = httptest.NewServer(r)
	code := m.Run()
	testServer.Close()
	os.Exit(code)
}

// createTestUser inserts a unique user and registers cleanup for it, its
// session, and its flash stacks.
func createTestUser(t *testing.T) (username, password string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username = fmt.Sprintf("testuser_%s", uuid.NewString()[:8])
	password = "TestPass123!"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	user := auth.User{
		UserID:         uuid.NewString(),
		Username:       username,
		Email:          username + "@example.test",
		HashedPassword: string(hashed),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	t.Cleanup(func() {
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.Session{})
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.User{})
	})

	return username, password
}

// newClientWithJar returns an http.Client that carries cookies between
// requests and follows redirects.
func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

// noRedirect stops the client at the first response so tests can assert on
// Location headers.
func noRedirect(client *http.Client) *http.Client {
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &c
}

func postForm(t *testing.T, client *http.Client, path string, values url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(testServer.URL+path, values)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(raw)
}

func TestRegisterLogsUserIn(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username := fmt.Sprintf("testuser_%s", uuid.NewString()[:8])
	client := newClientWithJar(t)

	resp := postForm(t, client, "/register", url.Values{
		"username": {username},
		"email":    {username + "@example.test"},
		"password": {"TestPass123!"},
	})
	body := bodyString(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected to land on a 200 page after register, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Welcome to PitchPoint!") {
		t.Error("expected the welcome flash on the page after registering")
	}

	var user auth.User
	if err := db.DB.First(&user, "username = ?", username).Error; err != nil {
		t.Fatalf("expected the user to exist: %v", err)
	}
	t.Cleanup(func() {
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.Session{})
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.User{})
	})

	if user.HashedPassword == "" || user.HashedPassword == "TestPass123!" {
		t.Error("expected the password to be stored hashed")
	}

	// The fresh session should open the guarded route.
	resp2, err := client.Get(testServer.URL + "/guarded")
	if err != nil {
		t.Fatalf("GET /guarded: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on guarded route after register, got %d", resp2.StatusCode)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	username, _ := createTestUser(t)

	client := noRedirect(newClientWithJar(t))
	resp := postForm(t, client, "/register", url.Values{
		"username": {username},
		"email":    {"other_" + username + "@example.test"},
		"password": {"TestPass123!"},
	})
	resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 back to the form, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/register" {
		t.Errorf("expected redirect to /register, got %q", loc)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	username, _ := createTestUser(t)

	client := noRedirect(newClientWithJar(t))
	resp := postForm(t, client, "/login", url.Values{
		"username": {username},
		"password": {"not-the-password"},
	})
	resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("expected redirect back to /login, got %q", loc)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	// Anonymous: the guard bounces us to /login.
	resp, err := noRedirect(client).Get(testServer.URL + "/guarded")
	if err != nil {
		t.Fatalf("GET /guarded: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected anonymous 302 to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	// Login.
	resp = postForm(t, client, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	body := bodyString(t, resp)
	if !strings.Contains(body, "Welcome back!") {
		t.Error("expected the welcome-back flash after login")
	}

	// Authenticated now.
	resp, err = client.Get(testServer.URL + "/guarded")
	if err != nil {
		t.Fatalf("GET /guarded: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d", resp.StatusCode)
	}

	// Logout kills the session.
	resp = postForm(t, client, "/logout", nil)
	resp.Body.Close()

	resp, err = noRedirect(client).Get(testServer.URL + "/guarded")
	if err != nil {
		t.Fatalf("GET /guarded: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected the guard to bounce after logout, got %d", resp.StatusCode)
	}
}

// TestLoginReturnsToOriginalPath verifies the guard remembers where an
// anonymous visitor was headed.
func TestLoginReturnsToOriginalPath(t *testing.T) {
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	// Hit the guarded route anonymously; follow the redirect to /login so
	// the return_to cookie lands in the jar.
	resp, err := client.Get(testServer.URL + "/guarded")
	if err != nil {
		t.Fatalf("GET /guarded: %v", err)
	}
	resp.Body.Close()

	resp = postForm(t, noRedirect(client), "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	resp.Body.Close()

	if loc := resp.Header.Get("Location"); loc != "/guarded" {
		t.Errorf("expected login to redirect back to /guarded, got %q", loc)
	}
}
