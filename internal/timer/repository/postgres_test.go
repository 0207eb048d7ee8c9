package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"timetrack/internal/timer/domain"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func timerColumns() []string {
	return []string{"owner_id", "project_id", "description", "is_billable", "started_at",
		"accumulated_ms", "is_running", "segment_start", "paused_at", "last_heartbeat", "version", "created_at"}
}

func TestGetByOwner_RunningTimer(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(timerColumns()).
		AddRow("u1", "p1", "work", true, base, int64(120000), true, base.Add(2*time.Minute), nil, base.Add(4*time.Minute), int64(3), base)
	mock.ExpectQuery(`(?s)SELECT .* FROM active_timers WHERE owner_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	tm, err := repo.GetByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if tm == nil {
		t.Fatal("want timer, got nil")
	}
	if tm.Accumulated != 2*time.Minute {
		t.Errorf("accumulated: want 2m, got %s", tm.Accumulated)
	}
	if !tm.Running || !tm.SegmentStart.Equal(base.Add(2*time.Minute)) {
		t.Errorf("running segment: %+v", tm)
	}
	if !tm.PausedAt.IsZero() {
		t.Errorf("paused at should be zero, got %s", tm.PausedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByOwner_NoRowIsNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .* FROM active_timers WHERE owner_id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	tm, err := repo.GetByOwner(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if tm != nil {
		t.Fatalf("want nil for missing row, got %+v", tm)
	}
}

func TestInsert_DuplicateOwnerIsErrTimerExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO active_timers`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Insert(context.Background(), &domain.ActiveTimer{
		OwnerID: "u1", ProjectID: "p1", Description: "work",
		StartedAt: base, Running: true, SegmentStart: base, LastHeartbeat: base, Version: 1, CreatedAt: base,
	})
	if !errors.Is(err, domain.ErrTimerExists) {
		t.Fatalf("want ErrTimerExists, got %v", err)
	}
}

func TestUpdate_BumpsVersion(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE active_timers SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tm := &domain.ActiveTimer{OwnerID: "u1", ProjectID: "p1", Description: "work",
		StartedAt: base, Running: true, SegmentStart: base, LastHeartbeat: base, Version: 2}
	if err := repo.Update(context.Background(), tm, 2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if tm.Version != 3 {
		t.Errorf("version: want 3, got %d", tm.Version)
	}
}

func TestUpdate_VersionRaceIsErrStaleTimer(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE active_timers SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Row still exists, so the version must be stale.
	mock.ExpectQuery(`SELECT 1 FROM active_timers WHERE owner_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	tm := &domain.ActiveTimer{OwnerID: "u1", ProjectID: "p1", Description: "work",
		StartedAt: base, Running: true, SegmentStart: base, LastHeartbeat: base, Version: 1}
	if err := repo.Update(context.Background(), tm, 1); !errors.Is(err, domain.ErrStaleTimer) {
		t.Fatalf("want ErrStaleTimer, got %v", err)
	}
}

func TestDelete_GoneRowIsErrNoActiveTimer(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM active_timers WHERE owner_id = \$1 AND version = \$2`).
		WithArgs("u1", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM active_timers WHERE owner_id = \$1`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	if err := repo.Delete(context.Background(), "u1", 4); !errors.Is(err, domain.ErrNoActiveTimer) {
		t.Fatalf("want ErrNoActiveTimer, got %v", err)
	}
}
