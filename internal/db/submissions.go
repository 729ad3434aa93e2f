package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"birthdays/internal/models"
)

const submissionColumns = `
	s.id, s.link_id, s.name, s.birth_year, s.birth_month, s.birth_day,
	s.category, s.notes, s.submitter_name, s.submitter_email, s.relationship,
	s.status, s.summary_pending, s.reviewed_at, s.created_at, l.owner_id`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var (
		s          models.Submission
		year       *int
		month, day int
	)
	err := row.Scan(
		&s.ID, &s.LinkID, &s.Name, &year, &month, &day,
		&s.Category, &s.Notes, &s.SubmitterName, &s.SubmitterEmail, &s.Relationship,
		&s.Status, &s.SummaryPending, &s.ReviewedAt, &s.CreatedAt, &s.OwnerID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Date = dateFromColumns(year, month, day)
	return &s, nil
}

func dateFromColumns(year *int, month, day int) models.Date {
	d := models.Date{Month: time.Month(month), Day: day}
	if year != nil {
		d.Year = *year
	}
	return d
}

func collectSubmissions(rows pgx.Rows) ([]models.Submission, error) {
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// CreateSubmission stores a pending submission for an active link. The link
// row is locked while it is re-checked, so a concurrent revoke either
// happens before (ErrLinkInactive) or after the insert commits.
func (d *DB) CreateSubmission(ctx context.Context, sub *models.Submission, now time.Time) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		ownerID   uuid.UUID
		isActive  bool
		expiresAt time.Time
	)
	err = tx.QueryRow(ctx, `
		SELECT owner_id, is_active, expires_at FROM sharing_links
		WHERE id = $1
		FOR UPDATE
	`, sub.LinkID).Scan(&ownerID, &isActive, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSharingLinkNotFound
	}
	if err != nil {
		return err
	}
	if !isActive || !now.Before(expiresAt) {
		return ErrLinkInactive
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO submissions (link_id, name, birth_year, birth_month, birth_day,
			category, notes, submitter_name, submitter_email, relationship)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, status, created_at
	`,
		sub.LinkID,
		sub.Name,
		sub.Date.YearPtr(),
		int(sub.Date.Month),
		sub.Date.Day,
		sub.Category,
		sub.Notes,
		sub.SubmitterName,
		sub.SubmitterEmail,
		sub.Relationship,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE sharing_links SET submission_count = submission_count + 1 WHERE id = $1
	`, sub.LinkID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	sub.OwnerID = ownerID
	return nil
}

// GetSubmissionByID returns a submission with its link owner.
func (d *DB) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return scanSubmission(d.Pool.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions s
		JOIN sharing_links l ON l.id = s.link_id
		WHERE s.id = $1
	`, id))
}

// ListPendingSubmissionsByOwner returns the owner's pending submissions across
// all links, oldest first.
func (d *DB) ListPendingSubmissionsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Submission, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions s
		JOIN sharing_links l ON l.id = s.link_id
		WHERE l.owner_id = $1 AND s.status = $2
		ORDER BY s.created_at ASC, s.id ASC
	`, ownerID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

// ImportSubmission marks a pending submission imported and inserts the
// birthday built from it, atomically. Returns ErrSubmissionNotPending if the
// submission already left the pending state.
func (d *DB) ImportSubmission(ctx context.Context, id uuid.UUID, birthday *models.Birthday) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE submissions
		SET status = $1, reviewed_at = NOW(), summary_pending = FALSE
		WHERE id = $2 AND status = $3
	`, models.StatusImported, id, models.StatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSubmissionNotPending
	}

	if err := insertBirthday(ctx, tx, birthday); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RejectSubmission marks a pending submission rejected and returns the
// review time.
func (d *DB) RejectSubmission(ctx context.Context, id uuid.UUID) (time.Time, error) {
	var reviewedAt time.Time
	err := d.Pool.QueryRow(ctx, `
		UPDATE submissions
		SET status = $1, reviewed_at = NOW(), summary_pending = FALSE
		WHERE id = $2 AND status = $3
		RETURNING reviewed_at
	`, models.StatusRejected, id, models.StatusPending).Scan(&reviewedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrSubmissionNotPending
	}
	return reviewedAt, err
}

// MarkSubmissionForSummary flags a pending submission for the next digest.
func (d *DB) MarkSubmissionForSummary(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE submissions SET summary_pending = TRUE WHERE id = $1 AND status = $2
	`, id, models.StatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// ListSummaryOwners returns owners with submissions waiting for a digest,
// in id order, starting after the given owner. Pass uuid.Nil for the first
// page.
func (d *DB) ListSummaryOwners(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT DISTINCT l.owner_id
		FROM submissions s
		JOIN sharing_links l ON l.id = s.link_id
		WHERE s.summary_pending AND s.status = $1 AND l.owner_id > $2
		ORDER BY l.owner_id
		LIMIT $3
	`, models.StatusPending, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

// ListSummaryPendingForOwner returns one owner's submissions waiting for a
// digest, oldest first.
func (d *DB) ListSummaryPendingForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Submission, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions s
		JOIN sharing_links l ON l.id = s.link_id
		WHERE s.summary_pending AND s.status = $1 AND l.owner_id = $2
		ORDER BY s.created_at ASC
		LIMIT $3
	`, models.StatusPending, ownerID, limit)
	if err != nil {
		return nil, err
	}
	return collectSubmissions(rows)
}

// ClearSummaryPending unflags submissions once their digest was sent.
func (d *DB) ClearSummaryPending(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.Pool.Exec(ctx, `
		UPDATE submissions SET summary_pending = FALSE WHERE id = ANY($1)
	`, ids)
	return err
}

// CountSubmissionsByStatus returns submission totals keyed by status.
func (d *DB) CountSubmissionsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM submissions GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{
		models.StatusPending:  0,
		models.StatusImported: 0,
		models.StatusRejected: 0,
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
