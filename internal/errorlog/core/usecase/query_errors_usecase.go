package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"reporting-service/internal/cache"
	"reporting-service/internal/errorlog/core/domain"
	"reporting-service/internal/errorlog/core/ports"
	"reporting-service/internal/reports/core/aggregate"
	reports "reporting-service/internal/reports/core/domain"
)

var (
	ErrMissingDates = errors.New("startDate and endDate are required")
	ErrInvalidDate  = errors.New("dates must use the YYYY-MM-DD format")
	ErrFutureDate   = errors.New("dates cannot be in the future")
	ErrInvalidRange = errors.New("endDate cannot be before startDate")
)

const dateLayout = "2006-01-02"

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

type QueryErrorsUseCase struct {
	repo  ports.ErrorRepositoryPort
	store *cache.Store
	ttl   time.Duration
}

func NewQueryErrorsUseCase(repo ports.ErrorRepositoryPort, store *cache.Store, ttl time.Duration) *QueryErrorsUseCase {
	return &QueryErrorsUseCase{repo: repo, store: store, ttl: ttl}
}

// Recent returns the newest entries. The limit defaults to 10 and is
// clamped to 100.
func (uc *QueryErrorsUseCase) Recent(ctx context.Context, limit int) ([]domain.ErrorLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	key := cache.Key("errors_recent", strconv.Itoa(limit))
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.repo.RecentErrors(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ErrorLog), nil
}

func (uc *QueryErrorsUseCase) Stats(ctx context.Context, start, end string) (*domain.Stats, error) {
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	key := cache.Key("errors_stats", start, end)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.buildStats(ctx, start, end)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Stats), nil
}

func (uc *QueryErrorsUseCase) buildStats(ctx context.Context, start, end string) (*domain.Stats, error) {
	rows, err := uc.repo.ErrorsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	records := make([]reports.Record, 0, len(rows))
	for _, e := range rows {
		resolved := 0.0
		if e.Resolved {
			resolved = 1
		}
		records = append(records, reports.Record{
			Date: e.OccurredAt.UTC().Format(dateLayout),
			Dims: map[string]string{"severity": e.Severity, "component": e.Component},
			Nums: map[string]float64{"errors": 1, "resolved": resolved},
		})
	}

	stats := &domain.Stats{
		Total:      int64(len(rows)),
		BySeverity: map[string]int64{},
	}

	for _, g := range aggregate.GroupBy(records, []string{"severity"}, []string{"errors"}) {
		stats.BySeverity[g.Key] = int64(g.Totals["errors"])
	}

	components := aggregate.GroupBy(records, []string{"component"}, []string{"errors", "resolved"})
	aggregate.SortByTotalDesc(components, "errors")
	stats.ByComponent = make([]domain.ComponentStats, 0, len(components))
	for _, g := range components {
		stats.ByComponent = append(stats.ByComponent, domain.ComponentStats{
			Component: g.Key,
			Count:     int64(g.Totals["errors"]),
			Resolved:  int64(g.Totals["resolved"]),
		})
	}

	buckets := aggregate.BucketByDate(records, start, end, []string{"errors"})
	stats.ErrorsOverTime = make([]domain.DailyCount, 0, len(buckets))
	for _, b := range buckets {
		stats.ErrorsOverTime = append(stats.ErrorsOverTime, domain.DailyCount{
			Date:  b.Date,
			Count: int64(b.Metrics["errors"]),
		})
	}

	// Rate from accumulated totals, rounded once at the end.
	stats.ResolutionRate = aggregate.Round2(aggregate.Percent(aggregate.SumMetric(records, "resolved"), float64(len(rows))))

	return stats, nil
}

// validateDateRange mirrors the reports query contract: both bounds
// present, ISO formatted, not in the future, end not before start.
func validateDateRange(start, end string) error {
	if start == "" || end == "" {
		return ErrMissingDates
	}
	if _, err := time.Parse(dateLayout, start); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		return ErrInvalidDate
	}

	today := time.Now().UTC().Format(dateLayout)
	if start > today || end > today {
		return ErrFutureDate
	}
	if end < start {
		return ErrInvalidRange
	}
	return nil
}
