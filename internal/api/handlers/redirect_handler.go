package handlers

import (
	"net/http"

	"shortlink/internal/engine/links"
	"shortlink/internal/pkg/errors"
)

type RedirectHandler struct {
	service *links.Service
}

func NewRedirectHandler(service *links.Service) *RedirectHandler {
	return &RedirectHandler{service: service}
}

// Handle resolves a short code and redirects. Cache hits skip the store and
// the view counter entirely.
func (h *RedirectHandler) Handle(w http.ResponseWriter, r *http.Request) {
	code := paramFrom(r, "short_code")

	originalURL, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		if err == links.ErrNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Short link does not exist")
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal error")
		return
	}

	http.Redirect(w, r, originalURL, http.StatusFound)
}
