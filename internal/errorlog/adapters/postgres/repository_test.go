package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"reporting-service/internal/errorlog/core/domain"
)

// fakeResult implements sql.Result for tests.
type fakeResult struct {
	rowsAffected int64
}

func (f *fakeResult) LastInsertId() (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResult) RowsAffected() (int64, error) {
	return f.rowsAffected, nil
}

// fakeRowScanner replays prepared rows.
type fakeRowScanner struct {
	rows [][]any
	idx  int
}

func (f *fakeRowScanner) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	row := f.rows[f.idx-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *time.Time:
			*p = row[i].(time.Time)
		case *bool:
			*p = row[i].(bool)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

func (f *fakeRowScanner) Err() error   { return nil }
func (f *fakeRowScanner) Close() error { return nil }

// fakeDB implements DB interface for tests.
type fakeDB struct {
	ExecFn    func(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryFn   func(ctx context.Context, query string, args ...any) (RowScanner, error)
	lastQuery string
	lastArgs  []any
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.QueryFn != nil {
		return f.QueryFn(ctx, query, args...)
	}
	return &fakeRowScanner{}, nil
}

func sampleError() *domain.ErrorLog {
	return &domain.ErrorLog{
		ErrorType:  "DbError",
		Message:    "connection refused",
		Severity:   domain.SeverityHigh,
		Component:  "api",
		OccurredAt: time.Now().UTC(),
		DedupeKey:  "dk",
	}
}

// ------------------------------------------------------------
// InsertError
// ------------------------------------------------------------

func TestErrorRepository_InsertError_Created(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO error_logs") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "ON CONFLICT (dedupe_key) DO NOTHING") {
				t.Fatalf("expected idempotent insert, got: %s", query)
			}
			return &fakeResult{rowsAffected: 1}, nil
		},
	}

	repo := NewErrorRepository(db)

	created, err := repo.InsertError(context.Background(), sampleError())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true, got false")
	}
	if len(db.lastArgs) != 8 {
		t.Fatalf("expected 8 args, got %d", len(db.lastArgs))
	}
}

func TestErrorRepository_InsertError_Duplicate(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return &fakeResult{rowsAffected: 0}, nil
		},
	}

	repo := NewErrorRepository(db)

	created, err := repo.InsertError(context.Background(), sampleError())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for duplicate")
	}
}

func TestErrorRepository_InsertError_NullStackTrace(t *testing.T) {
	db := &fakeDB{}
	repo := NewErrorRepository(db)

	e := sampleError()
	e.StackTrace = ""

	if _, err := repo.InsertError(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastArgs[2] != nil {
		t.Fatalf("expected NULL stack trace, got %v", db.lastArgs[2])
	}
}

func TestErrorRepository_InsertError_Error(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return nil, errors.New("db error")
		},
	}

	repo := NewErrorRepository(db)

	created, err := repo.InsertError(context.Background(), sampleError())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if created {
		t.Fatalf("expected created=false on error")
	}
}

// ------------------------------------------------------------
// RecentErrors / ErrorsBetween
// ------------------------------------------------------------

func TestErrorRepository_RecentErrors(t *testing.T) {
	occurred := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "ORDER BY occurred_at DESC LIMIT $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeRowScanner{rows: [][]any{
				{"DbError", "connection refused", "trace", domain.SeverityHigh, "api", occurred, false},
			}}, nil
		},
	}

	repo := NewErrorRepository(db)

	rows, err := repo.RecentErrors(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ErrorType != "DbError" || rows[0].StackTrace != "trace" || !rows[0].OccurredAt.Equal(occurred) {
		t.Errorf("unexpected row: %+v", rows[0])
	}
	if db.lastArgs[0] != 10 {
		t.Errorf("expected limit forwarded, got %v", db.lastArgs[0])
	}
}

func TestErrorRepository_ErrorsBetween(t *testing.T) {
	db := &fakeDB{}
	repo := NewErrorRepository(db)

	rows, err := repo.ErrorsBetween(context.Background(), "2025-03-01", "2025-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %d", len(rows))
	}
	if !strings.Contains(db.lastQuery, "occurred_at >= $1::date") {
		t.Errorf("unexpected query: %s", db.lastQuery)
	}
	if db.lastArgs[0] != "2025-03-01" || db.lastArgs[1] != "2025-03-05" {
		t.Errorf("expected date bounds forwarded, got %v", db.lastArgs)
	}
}

func TestErrorRepository_QueryError(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			return nil, errors.New("db error")
		},
	}

	repo := NewErrorRepository(db)

	if _, err := repo.RecentErrors(context.Background(), 10); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
