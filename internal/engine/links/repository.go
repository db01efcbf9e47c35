package links

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ErrCodeConflict signals a duplicate-key insert: someone reserved the code
// between the availability check and the insert.
var ErrCodeConflict = errors.New("short code conflict on insert")

func (r *Repository) Create(ctx context.Context, link *ShortLink) error {
	var userID, expiresAt interface{}
	if link.UserID != "" {
		userID = link.UserID
	}
	if link.ExpiresAt != nil {
		expiresAt = *link.ExpiresAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO short_links (short_code, original_url, created_at, user_id, expires_at, view_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, link.ShortCode, link.OriginalURL, link.CreatedAt, userID, expiresAt, link.ViewCount)

	if isUniqueViolation(err) {
		return ErrCodeConflict
	}
	return err
}

func (r *Repository) GetByShortCode(ctx context.Context, code string) (*ShortLink, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT short_code, original_url, created_at, user_id, expires_at, view_count
		FROM short_links WHERE short_code = ?
	`, code)
	return scanLink(row)
}

// GetOwned returns the link only when it exists and belongs to the user.
// Absent and not-yours collapse into the same nil result.
func (r *Repository) GetOwned(ctx context.Context, code, userID string) (*ShortLink, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT short_code, original_url, created_at, user_id, expires_at, view_count
		FROM short_links WHERE short_code = ? AND user_id = ?
	`, code, userID)
	return scanLink(row)
}

func (r *Repository) ExistsByShortCode(code string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM short_links WHERE short_code = ?)"
	err := r.db.QueryRow(query, code).Scan(&exists)
	return exists, err
}

func (r *Repository) ExistsForOwnerOrAnonymous(code, userID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM short_links
			WHERE short_code = ? AND (user_id = ? OR user_id IS NULL)
		)`
	err := r.db.QueryRow(query, code, userID).Scan(&exists)
	return exists, err
}

func (r *Repository) FindByOriginalURL(ctx context.Context, originalURL string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT short_code FROM short_links WHERE original_url = ? ORDER BY created_at
	`, originalURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *Repository) ListByOwner(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT short_code FROM short_links WHERE user_id = ? ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *Repository) DeleteAllByOwner(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM short_links WHERE user_id = ?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOwned removes the link only if it belongs to the user and reports
// whether a row was deleted.
func (r *Repository) DeleteOwned(ctx context.Context, code, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM short_links WHERE short_code = ? AND user_id = ?", code, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repository) IncrementViewCount(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE short_links SET view_count = view_count + 1 WHERE short_code = ?", code)
	return err
}

// DeleteExpired purges links whose advisory expiry has passed. Used by the
// background sweeper only; the redirect path never checks expiry.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM short_links WHERE expires_at IS NOT NULL AND expires_at < ?", now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanLink(row *sql.Row) (*ShortLink, error) {
	var link ShortLink
	var userID sql.NullString
	var expiresAt sql.NullInt64

	err := row.Scan(
		&link.ShortCode,
		&link.OriginalURL,
		&link.CreatedAt,
		&userID,
		&expiresAt,
		&link.ViewCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if userID.Valid {
		link.UserID = userID.String
	}
	if expiresAt.Valid {
		val := expiresAt.Int64
		link.ExpiresAt = &val
	}

	return &link, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
