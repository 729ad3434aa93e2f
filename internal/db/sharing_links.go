package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"birthdays/internal/models"
)

const sharingLinkColumns = `id, owner_id, token, description, created_at, expires_at, is_active, revoked_at, submission_count`

func scanSharingLink(row pgx.Row) (*models.SharingLink, error) {
	var link models.SharingLink
	err := row.Scan(
		&link.ID,
		&link.OwnerID,
		&link.Token,
		&link.Description,
		&link.CreatedAt,
		&link.ExpiresAt,
		&link.IsActive,
		&link.RevokedAt,
		&link.SubmissionCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSharingLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateSharingLink inserts a new active link. CreatedAt and ExpiresAt are
// taken from the caller so the expiration window is exact.
func (d *DB) CreateSharingLink(ctx context.Context, link *models.SharingLink) error {
	query := `
		INSERT INTO sharing_links (owner_id, token, description, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, submission_count
	`
	err := d.Pool.QueryRow(ctx, query,
		link.OwnerID,
		link.Token,
		link.Description,
		link.CreatedAt,
		link.ExpiresAt,
	).Scan(&link.ID, &link.IsActive, &link.SubmissionCount)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateToken
		}
		return err
	}
	return nil
}

// GetSharingLinkByID returns a single link by ID.
func (d *DB) GetSharingLinkByID(ctx context.Context, id uuid.UUID) (*models.SharingLink, error) {
	return scanSharingLink(d.Pool.QueryRow(ctx,
		`SELECT `+sharingLinkColumns+` FROM sharing_links WHERE id = $1`, id))
}

// GetSharingLinkByToken returns a single link by its token, whatever its state.
func (d *DB) GetSharingLinkByToken(ctx context.Context, token string) (*models.SharingLink, error) {
	return scanSharingLink(d.Pool.QueryRow(ctx,
		`SELECT `+sharingLinkColumns+` FROM sharing_links WHERE token = $1`, token))
}

// ListSharingLinksByOwner returns an owner's links, newest first.
func (d *DB) ListSharingLinksByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.SharingLink, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+sharingLinkColumns+`
		FROM sharing_links
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []models.SharingLink{}
	for rows.Next() {
		link, err := scanSharingLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	return links, rows.Err()
}

// DeactivateSharingLink marks a link inactive and returns it. Deactivating an
// already inactive link leaves revoked_at untouched.
func (d *DB) DeactivateSharingLink(ctx context.Context, id uuid.UUID) (*models.SharingLink, error) {
	return scanSharingLink(d.Pool.QueryRow(ctx, `
		UPDATE sharing_links
		SET is_active = FALSE, revoked_at = COALESCE(revoked_at, NOW())
		WHERE id = $1
		RETURNING `+sharingLinkColumns, id))
}

// DeleteStaleSharingLinks removes links that expired or were revoked before
// cutoff and have nothing left to review. Returns the number deleted.
func (d *DB) DeleteStaleSharingLinks(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM sharing_links l
		WHERE (l.expires_at < $1 OR (NOT l.is_active AND l.revoked_at < $1))
		  AND NOT EXISTS (
			SELECT 1 FROM submissions s
			WHERE s.link_id = l.id AND s.status = $2
		  )
	`, cutoff, models.StatusPending)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
