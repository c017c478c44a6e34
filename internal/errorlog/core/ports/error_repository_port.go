package ports

import (
	"context"

	"reporting-service/internal/errorlog/core/domain"
)

type ErrorRepositoryPort interface {
	// InsertError:
	//   created = true,  err = nil  -> new record
	//   created = false, err = nil  -> duplicate (idempotent)
	//   created = false, err != nil -> DB error
	InsertError(ctx context.Context, e *domain.ErrorLog) (created bool, err error)

	// RecentErrors returns up to limit rows, newest first.
	RecentErrors(ctx context.Context, limit int) ([]domain.ErrorLog, error)

	// ErrorsBetween returns rows whose occurrence date falls within the
	// inclusive [start, end] range of YYYY-MM-DD dates.
	ErrorsBetween(ctx context.Context, start, end string) ([]domain.ErrorLog, error)
}
