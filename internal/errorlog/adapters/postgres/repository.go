package postgres

import (
	"context"

	"reporting-service/internal/errorlog/core/domain"
	"reporting-service/internal/errorlog/core/ports"
)

type ErrorRepository struct {
	db DB
}

func NewErrorRepository(db DB) *ErrorRepository {
	return &ErrorRepository{db: db}
}

var _ ports.ErrorRepositoryPort = (*ErrorRepository)(nil)

const insertErrorSQL = `
INSERT INTO error_logs (
    error_type,
    message,
    stack_trace,
    severity,
    component,
    occurred_at,
    resolved,
    dedupe_key
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, $8
)
ON CONFLICT (dedupe_key) DO NOTHING;
`

func (r *ErrorRepository) InsertError(ctx context.Context, e *domain.ErrorLog) (bool, error) {
	var stackTrace any
	if e.StackTrace != "" {
		stackTrace = e.StackTrace
	}

	res, err := r.db.ExecContext(ctx, insertErrorSQL,
		e.ErrorType,
		e.Message,
		stackTrace,
		e.Severity,
		e.Component,
		e.OccurredAt,
		e.Resolved,
		e.DedupeKey,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new record
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

const selectErrorSQL = `
SELECT error_type, message, COALESCE(stack_trace, ''), severity, component, occurred_at, resolved
FROM error_logs
`

func (r *ErrorRepository) RecentErrors(ctx context.Context, limit int) ([]domain.ErrorLog, error) {
	rows, err := r.db.QueryContext(ctx,
		selectErrorSQL+"ORDER BY occurred_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return scanErrors(rows)
}

func (r *ErrorRepository) ErrorsBetween(ctx context.Context, start, end string) ([]domain.ErrorLog, error) {
	rows, err := r.db.QueryContext(ctx,
		selectErrorSQL+`WHERE occurred_at >= $1::date AND occurred_at < $2::date + INTERVAL '1 day'
ORDER BY occurred_at`, start, end)
	if err != nil {
		return nil, err
	}
	return scanErrors(rows)
}

func scanErrors(rows RowScanner) ([]domain.ErrorLog, error) {
	defer rows.Close()

	out := []domain.ErrorLog{}
	for rows.Next() {
		var e domain.ErrorLog
		if err := rows.Scan(&e.ErrorType, &e.Message, &e.StackTrace, &e.Severity, &e.Component, &e.OccurredAt, &e.Resolved); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
