package usecase

import (
	"context"
	"time"

	"reporting-service/internal/cache"
	"reporting-service/internal/reports/core/aggregate"
	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/ports"
)

type AdsCostsUseCase struct {
	source ports.AdsSource
	store  *cache.Store
	ttl    time.Duration
}

func NewAdsCostsUseCase(source ports.AdsSource, store *cache.Store, ttl time.Duration) *AdsCostsUseCase {
	return &AdsCostsUseCase{source: source, store: store, ttl: ttl}
}

func (uc *AdsCostsUseCase) Execute(ctx context.Context, in AdsQueryInput) (*domain.AdsCostsReport, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	key := cache.Key("ads_costs", in.StartDate, in.EndDate, in.CampaignID)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.build(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AdsCostsReport), nil
}

func (uc *AdsCostsUseCase) build(ctx context.Context, in AdsQueryInput) (*domain.AdsCostsReport, error) {
	raw, err := uc.source.FetchRows(ctx, ports.RowQuery{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Filters:   campaignFilter(in.CampaignID),
	})
	if err != nil {
		return nil, err
	}

	q := aggregate.Query{StartDate: in.StartDate, EndDate: in.EndDate}
	if in.CampaignID != "" {
		q.Equals = map[string]string{"campaignId": in.CampaignID}
	}
	rows := withAdsCost(aggregate.Filter(raw, q))

	daily := aggregate.BucketByDate(rows, in.StartDate, in.EndDate, []string{"cost", "conversions"})
	costsOverTime := make([]domain.DailyCost, 0, len(daily))
	for _, b := range daily {
		costsOverTime = append(costsOverTime, domain.DailyCost{
			Date:              b.Date,
			Cost:              aggregate.Round2(b.Metrics["cost"]),
			Conversions:       b.Metrics["conversions"],
			CostPerConversion: aggregate.Round2(aggregate.Ratio(b.Metrics["cost"], b.Metrics["conversions"])),
		})
	}

	groups := aggregate.GroupBy(rows, []string{"campaignId", "campaignName"}, []string{"cost", "conversions"})
	aggregate.SortByTotalDesc(groups, "cost")

	campaigns := make([]domain.CampaignCost, 0, len(groups))
	for _, g := range groups {
		campaigns = append(campaigns, domain.CampaignCost{
			CampaignID:               g.Dims["campaignId"],
			CampaignName:             g.Dims["campaignName"],
			TotalCost:                aggregate.Round2(g.Totals["cost"]),
			TotalConversions:         g.Totals["conversions"],
			AverageCostPerConversion: aggregate.Round2(aggregate.Ratio(g.Totals["cost"], g.Totals["conversions"])),
		})
	}

	totalCost := aggregate.SumMetric(rows, "cost")
	totalConversions := aggregate.SumMetric(rows, "conversions")
	days := aggregate.DayCount(in.StartDate, in.EndDate)

	return &domain.AdsCostsReport{
		CostsOverTime: costsOverTime,
		Campaigns:     campaigns,
		Summary: domain.CostsSummary{
			TotalCost:                aggregate.Round2(totalCost),
			TotalConversions:         totalConversions,
			AverageCostPerConversion: aggregate.Round2(aggregate.Ratio(totalCost, totalConversions)),
			AverageDailyCost:         aggregate.Round2(aggregate.Ratio(totalCost, float64(days))),
		},
	}, nil
}
