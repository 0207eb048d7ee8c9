package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"timetrack/internal/entry/domain"
)

// exclusionViolation is the SQLSTATE raised by the owner/interval exclusion
// constraint that backstops the in-transaction overlap check.
const exclusionViolation = "23P01"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a time-entry repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, owner_id, project_id, description, start_time, end_time, total_minutes,
	is_billable, is_paid, invoice_number, note, created_at`

// Insert writes the entry inside a transaction that serializes commits per
// owner via an advisory lock and re-checks overlap before inserting, so two
// concurrent commits cannot both pass validation against each other.
func (r *PostgresRepository) Insert(ctx context.Context, e *domain.TimeEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, e.OwnerID); err != nil {
		return fmt.Errorf("owner lock: %w", err)
	}

	conflict, err := scanEntry(tx.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE owner_id = $1 AND start_time < $3 AND end_time > $2
		 LIMIT 1`,
		e.OwnerID, e.Start, e.End))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("overlap check: %w", err)
	}
	if conflict != nil {
		return &domain.OverlapError{
			OwnerID:     e.OwnerID,
			Candidate:   e.Interval(),
			Conflicting: conflict.Interval(),
			EntryID:     conflict.ID,
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO time_entries (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.OwnerID, e.ProjectID, e.Description, e.Start, e.End, e.Minutes,
		e.Billable, e.Paid, nullString(e.InvoiceNumber), nullString(e.Note), e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return &domain.OverlapError{OwnerID: e.OwnerID, Candidate: e.Interval()}
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return tx.Commit()
}

// GetByID returns the entry for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// ListByOwner returns the owner's entries, newest start first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, since *time.Time) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE owner_id = $1`
	args := []any{ownerID}
	if since != nil {
		query += ` AND start_time >= $2`
		args = append(args, *since)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return out, nil
}

// FindOverlapping returns the first committed entry intersecting [start, end).
func (r *PostgresRepository) FindOverlapping(ctx context.Context, ownerID string, start, end time.Time) (*domain.TimeEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE owner_id = $1 AND start_time < $3 AND end_time > $2
		 ORDER BY start_time
		 LIMIT 1`,
		ownerID, start, end))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find overlapping: %w", err)
	}
	return e, nil
}

// UpdateOverlay changes only the overlay columns; interval and ownership
// columns are not reachable from this statement.
func (r *PostgresRepository) UpdateOverlay(ctx context.Context, id string, patch domain.OverlayPatch) error {
	if patch.Empty() {
		return nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET
			is_billable    = COALESCE($2, is_billable),
			is_paid        = COALESCE($3, is_paid),
			invoice_number = COALESCE($4, invoice_number),
			note           = COALESCE($5, note)
		 WHERE id = $1`,
		id, nullBool(patch.Billable), nullBool(patch.Paid),
		nullStringPtr(patch.InvoiceNumber), nullStringPtr(patch.Note))
	if err != nil {
		return fmt.Errorf("update overlay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update overlay: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.TimeEntry, error) {
	var (
		e       domain.TimeEntry
		invoice sql.NullString
		note    sql.NullString
	)
	err := row.Scan(&e.ID, &e.OwnerID, &e.ProjectID, &e.Description, &e.Start, &e.End,
		&e.Minutes, &e.Billable, &e.Paid, &invoice, &note, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Start = e.Start.UTC()
	e.End = e.End.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.InvoiceNumber = invoice.String
	e.Note = note.String
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
