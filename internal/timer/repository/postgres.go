package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"timetrack/internal/timer/domain"
)

// uniqueViolation is the SQLSTATE for the active_timers owner primary key.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an active-timer repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByOwner returns the owner's timer, or nil if none exists.
func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.ActiveTimer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT owner_id, project_id, description, is_billable, started_at, accumulated_ms,
		        is_running, segment_start, paused_at, last_heartbeat, version, created_at
		 FROM active_timers WHERE owner_id = $1`, ownerID)

	var (
		t            domain.ActiveTimer
		accumMS      int64
		segmentStart sql.NullTime
		pausedAt     sql.NullTime
	)
	err := row.Scan(&t.OwnerID, &t.ProjectID, &t.Description, &t.Billable, &t.StartedAt,
		&accumMS, &t.Running, &segmentStart, &pausedAt, &t.LastHeartbeat, &t.Version, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timer: %w", err)
	}
	t.Accumulated = time.Duration(accumMS) * time.Millisecond
	t.StartedAt = t.StartedAt.UTC()
	t.LastHeartbeat = t.LastHeartbeat.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	if segmentStart.Valid {
		t.SegmentStart = segmentStart.Time.UTC()
	}
	if pausedAt.Valid {
		t.PausedAt = pausedAt.Time.UTC()
	}
	return &t, nil
}

// Insert creates the owner's timer row. The owner primary key enforces the
// single-timer invariant at the storage layer.
func (r *PostgresRepository) Insert(ctx context.Context, t *domain.ActiveTimer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO active_timers (owner_id, project_id, description, is_billable, started_at,
		        accumulated_ms, is_running, segment_start, paused_at, last_heartbeat, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.OwnerID, t.ProjectID, t.Description, t.Billable, t.StartedAt,
		t.Accumulated.Milliseconds(), t.Running, nullTime(t.SegmentStart), nullTime(t.PausedAt),
		t.LastHeartbeat, t.Version, t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrTimerExists
		}
		return fmt.Errorf("insert timer: %w", err)
	}
	return nil
}

// Update conditionally writes the timer; version mismatches surface as
// domain.ErrStaleTimer so callers can refetch and retry.
func (r *PostgresRepository) Update(ctx context.Context, t *domain.ActiveTimer, expectedVersion int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE active_timers SET
			project_id = $2, description = $3, is_billable = $4, started_at = $5,
			accumulated_ms = $6, is_running = $7, segment_start = $8, paused_at = $9,
			last_heartbeat = $10, version = version + 1
		 WHERE owner_id = $1 AND version = $11`,
		t.OwnerID, t.ProjectID, t.Description, t.Billable, t.StartedAt,
		t.Accumulated.Milliseconds(), t.Running, nullTime(t.SegmentStart), nullTime(t.PausedAt),
		t.LastHeartbeat, expectedVersion)
	if err != nil {
		return fmt.Errorf("update timer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update timer: %w", err)
	}
	if n == 0 {
		return r.staleOrGone(ctx, t.OwnerID)
	}
	t.Version = expectedVersion + 1
	return nil
}

// Delete removes the owner's timer under the same version guard as Update.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, expectedVersion int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM active_timers WHERE owner_id = $1 AND version = $2`,
		ownerID, expectedVersion)
	if err != nil {
		return fmt.Errorf("delete timer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete timer: %w", err)
	}
	if n == 0 {
		return r.staleOrGone(ctx, ownerID)
	}
	return nil
}

// staleOrGone distinguishes a lost version race from a deleted row.
func (r *PostgresRepository) staleOrGone(ctx context.Context, ownerID string) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM active_timers WHERE owner_id = $1`, ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNoActiveTimer
	}
	if err != nil {
		return fmt.Errorf("check timer: %w", err)
	}
	return domain.ErrStaleTimer
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
