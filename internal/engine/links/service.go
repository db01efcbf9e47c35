package links

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"shortlink/internal/engine/redirect"
)

type Service struct {
	repo  *Repository
	cache redirect.Cache
}

func NewService(repo *Repository, cache redirect.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create allocates a code and persists the link. userID is empty for
// anonymous links. The allocator only checks availability, so a concurrent
// create can still win the insert; a duplicate-key failure on a generated
// code counts as another allocation attempt, on a custom alias it is the
// alias conflict itself.
func (s *Service) Create(ctx context.Context, originalURL, customAlias string, expiresAt *int64, userID string) (*ShortLink, error) {
	if err := ValidateOriginalURL(originalURL); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		code, err := AllocateCode(customAlias, userID, s.repo)
		if err != nil {
			return nil, err
		}

		link := &ShortLink{
			ShortCode:   code,
			OriginalURL: originalURL,
			CreatedAt:   time.Now().Unix(),
			UserID:      userID,
			ExpiresAt:   expiresAt,
			ViewCount:   0,
		}

		err = s.repo.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, ErrCodeConflict) {
			return nil, err
		}
		if customAlias != "" {
			return nil, ErrAliasTaken
		}
		// Lost the insert race on a generated code; allocate again.
	}

	return nil, ErrAllocationExhausted
}

// Resolve returns the original URL for a code. Cache hits skip the store
// entirely and do not bump the view counter; only store-resolved redirects
// count, so the counter can lag by up to one TTL window of traffic.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	if entry, ok := s.cache.Get(ctx, code); ok {
		return entry.Original, nil
	}

	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	if link == nil {
		return "", ErrNotFound
	}

	if err := s.repo.IncrementViewCount(ctx, code); err != nil {
		log.Warn().Err(err).Str("short_code", code).Msg("failed to increment view count")
	}

	s.cache.Set(ctx, code, &redirect.Entry{Short: link.ShortCode, Original: link.OriginalURL})

	return link.OriginalURL, nil
}

// Search returns every code pointing at the exact original URL.
func (s *Service) Search(ctx context.Context, originalURL string) ([]string, error) {
	codes, err := s.repo.FindByOriginalURL(ctx, originalURL)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, ErrNotFound
	}
	return codes, nil
}

// ListOwned returns the user's codes; no links is an empty list, not an
// error.
func (s *Service) ListOwned(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *Service) DeleteAllOwned(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteAllByOwner(ctx, userID)
}

// Stats returns the link for any code. No ownership check is applied: any
// authenticated caller can read any code's counters.
func (s *Service) Stats(ctx context.Context, code string) (*ShortLink, error) {
	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrNotFound
	}
	return link, nil
}

// Regenerate replaces the user's link with a fresh generated code, carrying
// over the original URL and owner. The view counter restarts at zero and the
// expiry is dropped. Delete and insert are two statements, not one
// transaction; a crash between them loses the link.
func (s *Service) Regenerate(ctx context.Context, oldCode, userID string) (*ShortLink, error) {
	existing, err := s.repo.GetOwned(ctx, oldCode, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if _, err := s.repo.DeleteOwned(ctx, oldCode, userID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		code, err := AllocateCode("", userID, s.repo)
		if err != nil {
			return nil, err
		}

		link := &ShortLink{
			ShortCode:   code,
			OriginalURL: existing.OriginalURL,
			CreatedAt:   time.Now().Unix(),
			UserID:      userID,
			ViewCount:   0,
		}

		err = s.repo.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, ErrCodeConflict) {
			return nil, err
		}
	}

	return nil, ErrAllocationExhausted
}

// DeleteOwned removes the user's link. A code that exists under someone else
// reports the same ErrNotFound as one that doesn't exist at all.
func (s *Service) DeleteOwned(ctx context.Context, code, userID string) error {
	deleted, err := s.repo.DeleteOwned(ctx, code, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired removes links whose advisory expiry has passed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}
