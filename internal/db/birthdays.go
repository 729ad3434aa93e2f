package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"birthdays/internal/models"
)

// insertBirthday inserts within an existing transaction or on the pool.
func insertBirthday(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, b *models.Birthday) error {
	return q.QueryRow(ctx, `
		INSERT INTO birthdays (owner_id, name, birth_year, birth_month, birth_day, category, notes, source_submission_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		b.OwnerID,
		b.Name,
		b.Date.YearPtr(),
		int(b.Date.Month),
		b.Date.Day,
		b.Category,
		b.Notes,
		b.SourceSubmissionID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// CreateBirthday inserts an owner-created birthday.
func (d *DB) CreateBirthday(ctx context.Context, b *models.Birthday) error {
	return insertBirthday(ctx, d.Pool, b)
}

const birthdayColumns = `
	id, owner_id, name, birth_year, birth_month, birth_day, category, notes,
	source_submission_id, created_at, updated_at`

func scanBirthday(row pgx.Row) (*models.Birthday, error) {
	var (
		b          models.Birthday
		year       *int
		month, day int
	)
	if err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &year, &month, &day, &b.Category, &b.Notes,
		&b.SourceSubmissionID, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Date = dateFromColumns(year, month, day)
	return &b, nil
}

// ListBirthdaysByOwner returns an owner's birthdays in calendar order.
func (d *DB) ListBirthdaysByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Birthday, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+birthdayColumns+`
		FROM birthdays
		WHERE owner_id = $1
		ORDER BY birth_month, birth_day, name
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	birthdays := []models.Birthday{}
	for rows.Next() {
		b, err := scanBirthday(rows)
		if err != nil {
			return nil, err
		}
		birthdays = append(birthdays, *b)
	}
	return birthdays, rows.Err()
}

// DeleteBirthday removes one of the owner's birthdays and returns the
// deleted row.
func (d *DB) DeleteBirthday(ctx context.Context, ownerID, id uuid.UUID) (*models.Birthday, error) {
	b, err := scanBirthday(d.Pool.QueryRow(ctx, `
		DELETE FROM birthdays WHERE id = $1 AND owner_id = $2
		RETURNING `+birthdayColumns, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBirthdayNotFound
	}
	return b, err
}
