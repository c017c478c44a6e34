package usecase

import (
	"context"
	"time"

	"reporting-service/internal/cache"
	"reporting-service/internal/reports/core/aggregate"
	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/ports"
)

type RangeInput struct {
	StartDate string
	EndDate   string
}

type AnalyticsUseCase struct {
	source ports.TrafficSource
	store  *cache.Store
	ttl    time.Duration
}

func NewAnalyticsUseCase(source ports.TrafficSource, store *cache.Store, ttl time.Duration) *AnalyticsUseCase {
	return &AnalyticsUseCase{source: source, store: store, ttl: ttl}
}

var trafficMetrics = []string{"users", "newUsers", "sessions", "pageViews", "bounces"}

// Overview returns the site-wide daily series plus accumulated totals.
// The bounce rate is derived from total bounces over total sessions,
// not averaged from per-day percentages.
func (uc *AnalyticsUseCase) Overview(ctx context.Context, in RangeInput) (*domain.AnalyticsOverview, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	key := cache.Key("analytics_overview", in.StartDate, in.EndDate)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.buildOverview(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AnalyticsOverview), nil
}

func (uc *AnalyticsUseCase) buildOverview(ctx context.Context, in RangeInput) (*domain.AnalyticsOverview, error) {
	raw, err := uc.source.FetchRows(ctx, ports.RowQuery{StartDate: in.StartDate, EndDate: in.EndDate})
	if err != nil {
		return nil, err
	}
	rows := aggregate.Filter(raw, aggregate.Query{StartDate: in.StartDate, EndDate: in.EndDate})

	daily := aggregate.BucketByDate(rows, in.StartDate, in.EndDate, trafficMetrics)
	sessions := aggregate.SumMetric(rows, "sessions")
	bounces := aggregate.SumMetric(rows, "bounces")

	return &domain.AnalyticsOverview{
		TotalUsers: aggregate.SumMetric(rows, "users"),
		NewUsers:   aggregate.SumMetric(rows, "newUsers"),
		Sessions:   sessions,
		PageViews:  aggregate.SumMetric(rows, "pageViews"),
		BounceRate: aggregate.Round2(aggregate.Percent(bounces, sessions)),
		Daily:      daily,
	}, nil
}

// TrafficSources returns (source, medium) groups ranked by sessions.
func (uc *AnalyticsUseCase) TrafficSources(ctx context.Context, in RangeInput) ([]domain.TrafficSourceStats, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	key := cache.Key("analytics_traffic", in.StartDate, in.EndDate)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.buildTrafficSources(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.TrafficSourceStats), nil
}

func (uc *AnalyticsUseCase) buildTrafficSources(ctx context.Context, in RangeInput) ([]domain.TrafficSourceStats, error) {
	raw, err := uc.source.FetchRows(ctx, ports.RowQuery{StartDate: in.StartDate, EndDate: in.EndDate})
	if err != nil {
		return nil, err
	}
	rows := aggregate.Filter(raw, aggregate.Query{StartDate: in.StartDate, EndDate: in.EndDate})

	groups := aggregate.GroupBy(rows, []string{"source", "medium"}, trafficMetrics)
	aggregate.DeriveRatePercent(groups, "bounceRate", "bounces", "sessions")
	aggregate.SortByTotalDesc(groups, "sessions")

	out := make([]domain.TrafficSourceStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.TrafficSourceStats{
			Source:     g.Dims["source"],
			Medium:     g.Dims["medium"],
			Users:      g.Totals["users"],
			Sessions:   g.Totals["sessions"],
			PageViews:  g.Totals["pageViews"],
			BounceRate: aggregate.Round2(g.Rates["bounceRate"]),
		})
	}
	return out, nil
}
