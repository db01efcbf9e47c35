package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shortlink/internal/pkg/errors"
	"shortlink/internal/platform/auth"
	"shortlink/internal/platform/models"
	"shortlink/internal/platform/repositories"
)

type AuthHandler struct {
	users    *repositories.UserRepository
	tokenSvc *auth.TokenService
}

func NewAuthHandler(users *repositories.UserRepository, tokenSvc *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokenSvc: tokenSvc}
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a user from username/password sent as query or form
// values. A taken username is a 400, matching the service's contract.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "username and password are required")
		return
	}

	existing, err := h.users.GetByUsername(username)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error")
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeAlreadyExists, "User already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password")
		return
	}

	user := &models.User{
		ID:           "usr_" + uuid.NewString(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().Unix(),
	}

	if err := h.users.Create(user); err != nil {
		// Concurrent register with the same username loses the insert race.
		if err == repositories.ErrUsernameTaken {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeAlreadyExists, "User already exists")
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create user")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Login verifies form credentials and issues a bearer token. Unknown
// username and wrong password produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.users.GetByUsername(username)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error")
		return
	}
	if user == nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidCredentials, "Incorrect username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidCredentials, "Incorrect username or password")
		return
	}

	accessToken, err := h.tokenSvc.GenerateAccessToken(user.Username)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}
