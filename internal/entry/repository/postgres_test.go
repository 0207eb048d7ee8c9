package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"timetrack/internal/entry/domain"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var base = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func entryRowColumns() []string {
	return []string{"id", "owner_id", "project_id", "description", "start_time", "end_time",
		"total_minutes", "is_billable", "is_paid", "invoice_number", "note", "created_at"}
}

func testEntry() *domain.TimeEntry {
	return &domain.TimeEntry{
		ID:          "e1",
		OwnerID:     "u1",
		ProjectID:   "p1",
		Description: "work",
		Start:       base,
		End:         base.Add(time.Hour),
		Minutes:     60,
		Billable:    true,
		CreatedAt:   base.Add(time.Hour),
	}
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)SELECT .* FROM time_entries\s+WHERE owner_id = \$1 AND start_time < \$3 AND end_time > \$2`).
		WithArgs("u1", base, base.Add(time.Hour)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO time_entries`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Insert(context.Background(), testEntry()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_InTxOverlapCheckRejects(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	conflictRow := sqlmock.NewRows(entryRowColumns()).
		AddRow("other", "u1", "p1", "earlier", base.Add(30*time.Minute), base.Add(90*time.Minute),
			60, true, false, nil, nil, base)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)SELECT .* FROM time_entries`).
		WillReturnRows(conflictRow)
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), testEntry())
	var overlapErr *domain.OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("want OverlapError, got %v", err)
	}
	if overlapErr.EntryID != "other" {
		t.Errorf("conflicting id: want other, got %s", overlapErr.EntryID)
	}
}

func TestInsert_ExclusionConstraintBackstop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)SELECT .* FROM time_entries`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO time_entries`).
		WillReturnError(&pgconn.PgError{Code: exclusionViolation})
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), testEntry())
	var overlapErr *domain.OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("want OverlapError from exclusion constraint, got %v", err)
	}
}

func TestGetByID_MissingIsNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .* FROM time_entries WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	e, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if e != nil {
		t.Fatalf("want nil, got %+v", e)
	}
}

func TestListByOwner_SinceNarrowsQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	since := base.Add(2 * time.Hour)
	rows := sqlmock.NewRows(entryRowColumns()).
		AddRow("e2", "u1", "p1", "later", since, since.Add(time.Hour),
			60, true, false, "INV-1", nil, base)
	mock.ExpectQuery(`(?s)SELECT .* FROM time_entries WHERE owner_id = \$1 AND start_time >= \$2 ORDER BY start_time DESC`).
		WithArgs("u1", since).
		WillReturnRows(rows)

	entries, err := repo.ListByOwner(context.Background(), "u1", &since)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(entries) != 1 || entries[0].InvoiceNumber != "INV-1" {
		t.Fatalf("entries: %+v", entries)
	}
}

func TestUpdateOverlay_MissingRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	paid := true
	mock.ExpectExec(`UPDATE time_entries SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateOverlay(context.Background(), "missing", domain.OverlayPatch{Paid: &paid})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateOverlay_EmptyPatchIsNoop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	if err := repo.UpdateOverlay(context.Background(), "e1", domain.OverlayPatch{}); err != nil {
		t.Fatalf("UpdateOverlay: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statements expected: %v", err)
	}
}
