package usecase

import (
	"context"
	"time"

	"reporting-service/internal/cache"
	"reporting-service/internal/reports/core/aggregate"
	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/ports"
)

const keywordLimit = 100

type SearchUseCase struct {
	source ports.SearchSource
	store  *cache.Store
	ttl    time.Duration
}

func NewSearchUseCase(source ports.SearchSource, store *cache.Store, ttl time.Duration) *SearchUseCase {
	return &SearchUseCase{source: source, store: store, ttl: ttl}
}

// Keywords ranks search queries by clicks. CTR comes from accumulated
// totals; the average position is weighted by impressions so thin days
// cannot skew it.
func (uc *SearchUseCase) Keywords(ctx context.Context, in RangeInput) ([]domain.KeywordStats, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	key := cache.Key("search_keywords", in.StartDate, in.EndDate)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.build(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.KeywordStats), nil
}

func (uc *SearchUseCase) build(ctx context.Context, in RangeInput) ([]domain.KeywordStats, error) {
	raw, err := uc.source.FetchRows(ctx, ports.RowQuery{StartDate: in.StartDate, EndDate: in.EndDate})
	if err != nil {
		return nil, err
	}
	rows := withWeightedPosition(aggregate.Filter(raw, aggregate.Query{StartDate: in.StartDate, EndDate: in.EndDate}))

	groups := aggregate.GroupBy(rows, []string{"query"}, []string{"clicks", "impressions", "positionWeighted"})
	aggregate.SortByTotalDesc(groups, "clicks")
	groups = aggregate.TopN(groups, keywordLimit)

	out := make([]domain.KeywordStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.KeywordStats{
			Query:           g.Dims["query"],
			Clicks:          g.Totals["clicks"],
			Impressions:     g.Totals["impressions"],
			CTR:             aggregate.Round2(aggregate.Percent(g.Totals["clicks"], g.Totals["impressions"])),
			AveragePosition: aggregate.Round2(aggregate.Ratio(g.Totals["positionWeighted"], g.Totals["impressions"])),
		})
	}
	return out, nil
}

func withWeightedPosition(rows []domain.Record) []domain.Record {
	out := make([]domain.Record, len(rows))
	for i, r := range rows {
		nums := make(map[string]float64, len(r.Nums)+1)
		for k, v := range r.Nums {
			nums[k] = v
		}
		nums["positionWeighted"] = r.Num("position") * r.Num("impressions")
		out[i] = domain.Record{Date: r.Date, Dims: r.Dims, Nums: nums}
	}
	return out
}
