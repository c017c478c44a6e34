package postgres

import (
	"context"
	"fmt"

	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// SalesLedgerRepository reads the mirrored sales ledger and maps each
// transaction into a normalized Record.
type SalesLedgerRepository struct {
	db DB
}

func NewSalesLedgerRepository(db DB) *SalesLedgerRepository {
	return &SalesLedgerRepository{db: db}
}

var _ ports.SalesSource = (*SalesLedgerRepository)(nil)

func (r *SalesLedgerRepository) FetchRows(ctx context.Context, q ports.RowQuery) ([]domain.Record, error) {
	where := "transaction_date BETWEEN $1 AND $2"
	args := []any{q.StartDate, q.EndDate}
	argIndex := 3

	// customerEmail is the only filter worth pushing down; the usecase
	// re-filters everything anyway.
	if email, ok := q.Filters["customerEmail"]; ok && email != "" {
		where += fmt.Sprintf(" AND LOWER(customer_email) = LOWER($%d)", argIndex)
		args = append(args, email)
		argIndex++
	}

	query := `
SELECT
    transaction_date::text,
    COALESCE(customer_name, ''),
    COALESCE(customer_email, ''),
    amount
FROM sales
WHERE ` + where + `
ORDER BY transaction_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		var date, name, email string
		var amount float64

		if err := rows.Scan(&date, &name, &email, &amount); err != nil {
			return nil, err
		}

		out = append(out, domain.Record{
			Date: date,
			Dims: map[string]string{
				"customerName":  name,
				"customerEmail": email,
			},
			Nums: map[string]float64{"amount": amount},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
