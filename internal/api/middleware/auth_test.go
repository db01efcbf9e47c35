package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"shortlink/internal/platform/auth"
	"shortlink/internal/platform/config"
	"shortlink/internal/platform/models"
	"shortlink/internal/platform/repositories"
)

func setupMiddleware(t *testing.T) (*AuthMiddleware, *auth.TokenService) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	users := repositories.NewUserRepository(db)
	if err := users.Create(&models.User{
		ID:           "usr_1",
		Username:     "alice",
		PasswordHash: "irrelevant",
		CreatedAt:    time.Now().Unix(),
	}); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	tokenSvc := auth.NewTokenService(config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: time.Hour,
	})

	return NewAuthMiddleware(tokenSvc, users), tokenSvc
}

func TestHandleRejectsMissingHeader(t *testing.T) {
	mid, _ := setupMiddleware(t)

	handler := mid.Handle(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/links/my_links", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("Expected Bearer challenge header")
	}
}

func TestHandleRejectsBadToken(t *testing.T) {
	mid, _ := setupMiddleware(t)

	handler := mid.Handle(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	})

	for _, header := range []string{"Bearer garbage", "Basic abc", "Bearer"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/links/my_links", nil)
		req.Header.Set("Authorization", header)
		handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for %q, got %d", header, rec.Code)
		}
	}
}

func TestHandleRejectsUnknownSubject(t *testing.T) {
	mid, tokenSvc := setupMiddleware(t)

	token, err := tokenSvc.GenerateAccessToken("ghost")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	handler := mid.Handle(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/links/my_links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown subject, got %d", rec.Code)
	}
}

func TestHandleInjectsUser(t *testing.T) {
	mid, tokenSvc := setupMiddleware(t)

	token, err := tokenSvc.GenerateAccessToken("alice")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	var seen *models.User
	handler := mid.Handle(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFrom(r)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/links/my_links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.Username != "alice" {
		t.Errorf("Expected alice in context, got %+v", seen)
	}
}

func TestHandleOptionalCollapsesToAnonymous(t *testing.T) {
	mid, _ := setupMiddleware(t)

	var seen *models.User
	var called bool
	handler := mid.HandleOptional(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen = UserFrom(r)
	})

	for _, header := range []string{"", "Bearer garbage"} {
		called = false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/links/shorten", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler(rec, req)

		if !called {
			t.Errorf("Handler should run for %q", header)
		}
		if seen != nil {
			t.Errorf("Expected anonymous for %q, got %+v", header, seen)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200 for %q, got %d", header, rec.Code)
		}
	}
}
