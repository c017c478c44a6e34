package ports

import (
	"context"

	"reporting-service/internal/reports/core/domain"
)

// RowQuery is the vendor-boundary query: an inclusive ISO date range
// plus optional equality filters the client may push down. Sources are
// free to ignore Filters and return a superset; usecases re-filter.
type RowQuery struct {
	StartDate string
	EndDate   string
	Filters   map[string]string
}

// AdsSource returns one normalized row per (date, campaign) slice with
// clicks, impressions, costMicros and conversions metrics.
type AdsSource interface {
	FetchRows(ctx context.Context, q RowQuery) ([]domain.Record, error)
}

// TrafficSource returns one normalized row per (date, source, medium,
// device) slice with users, newUsers, sessions, pageViews and bounces.
type TrafficSource interface {
	FetchRows(ctx context.Context, q RowQuery) ([]domain.Record, error)
}

// SalesSource returns one normalized row per ledger transaction with an
// amount metric and customerName/customerEmail dimensions.
type SalesSource interface {
	FetchRows(ctx context.Context, q RowQuery) ([]domain.Record, error)
}

// SearchSource returns one normalized row per (date, query) slice with
// clicks, impressions and position metrics.
type SearchSource interface {
	FetchRows(ctx context.Context, q RowQuery) ([]domain.Record, error)
}
