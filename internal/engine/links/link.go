package links

import "errors"

var (
	ErrNotFound            = errors.New("short link not found")
	ErrAliasTaken          = errors.New("short code already taken")
	ErrAllocationExhausted = errors.New("could not allocate a unique short code")
)

// ValidationError marks caller mistakes so the API layer can surface the
// message without leaking internal errors.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type ShortLink struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	CreatedAt   int64  `json:"created_at"`
	UserID      string `json:"user_id,omitempty"` // empty for anonymous links
	ExpiresAt   *int64 `json:"expires_at,omitempty"`
	ViewCount   int64  `json:"view_count"`
}
