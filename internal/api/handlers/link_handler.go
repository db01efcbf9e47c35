package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apiContext "shortlink/internal/api/context"
	"shortlink/internal/api/middleware"
	"shortlink/internal/engine/links"
	"shortlink/internal/pkg/errors"
)

type LinkHandler struct {
	service *links.Service
}

func NewLinkHandler(service *links.Service) *LinkHandler {
	return &LinkHandler{service: service}
}

type ShortenRequest struct {
	OriginalURL string `json:"original_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
	ExpiresAt   *int64 `json:"expires_at,omitempty"`
}

type ShortenResponse struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
}

type SearchResponse struct {
	ShortCodes []string `json:"short_codes"`
}

type StatsResponse struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	View        int64  `json:"view"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

func (h *LinkHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body")
		return
	}

	var userID string
	if user := middleware.UserFrom(r); user != nil {
		userID = user.ID
	}

	link, err := h.service.Create(r.Context(), req.OriginalURL, req.CustomAlias, req.ExpiresAt, userID)
	if err != nil {
		writeLinkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ShortenResponse{
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
	})
}

func (h *LinkHandler) Search(w http.ResponseWriter, r *http.Request) {
	originalURL := r.URL.Query().Get("original_url")

	codes, err := h.service.Search(r.Context(), originalURL)
	if err != nil {
		writeLinkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{ShortCodes: codes})
}

func (h *LinkHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r)

	codes, err := h.service.ListOwned(r.Context(), user.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{ShortCodes: codes})
}

func (h *LinkHandler) DeleteAllMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r)

	count, err := h.service.DeleteAllOwned(r.Context(), user.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DeleteResponse{
		Message: fmt.Sprintf("All your short links have been deleted (%d)", count),
	})
}

func (h *LinkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	code := paramFrom(r, "short_code")

	link, err := h.service.Stats(r.Context(), code)
	if err != nil {
		writeLinkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatsResponse{
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		View:        link.ViewCount,
	})
}

func (h *LinkHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r)
	code := paramFrom(r, "short_code")

	link, err := h.service.Regenerate(r.Context(), code, user.ID)
	if err != nil {
		writeLinkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ShortenResponse{
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
	})
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r)
	code := paramFrom(r, "short_code")

	if err := h.service.DeleteOwned(r.Context(), code, user.ID); err != nil {
		writeLinkError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DeleteResponse{Message: code + " deleted"})
}

func (h *LinkHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	code := paramFrom(r, "short_code")

	if _, err := h.service.Stats(r.Context(), code); err != nil {
		writeLinkError(w, err)
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "size must be an integer")
			return
		}
		size = parsed
	}

	shortURL := fmt.Sprintf("http://%s/links/%s", r.Host, code)
	png, err := links.GenerateQRCode(shortURL, size)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func paramFrom(r *http.Request, name string) string {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return params.ByName(name)
}

func writeLinkError(w http.ResponseWriter, err error) {
	var validationErr *links.ValidationError
	switch {
	case stderrors.Is(err, links.ErrNotFound):
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Short link does not exist")
	case stderrors.Is(err, links.ErrAliasTaken):
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeAliasTaken, "This short link is already in use")
	case stderrors.Is(err, links.ErrAllocationExhausted):
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeAllocationExhausted, "Could not allocate a unique short code")
	case stderrors.As(err, &validationErr):
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, validationErr.Reason)
	default:
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal error")
	}
}
