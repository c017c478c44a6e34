package usecase

import (
	"context"
	"time"

	"reporting-service/internal/cache"
	"reporting-service/internal/reports/core/aggregate"
	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/ports"
)

type AdsQueryInput struct {
	StartDate  string
	EndDate    string
	CampaignID string // optional
}

type AdsPerformanceUseCase struct {
	source ports.AdsSource
	store  *cache.Store
	ttl    time.Duration
}

func NewAdsPerformanceUseCase(source ports.AdsSource, store *cache.Store, ttl time.Duration) *AdsPerformanceUseCase {
	return &AdsPerformanceUseCase{source: source, store: store, ttl: ttl}
}

func (uc *AdsPerformanceUseCase) Execute(ctx context.Context, in AdsQueryInput) (*domain.AdsPerformanceReport, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	key := cache.Key("ads_performance", in.StartDate, in.EndDate, in.CampaignID)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.build(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AdsPerformanceReport), nil
}

func (uc *AdsPerformanceUseCase) build(ctx context.Context, in AdsQueryInput) (*domain.AdsPerformanceReport, error) {
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

	adsMetrics := []string{"clicks", "impressions", "cost", "conversions"}
	groups := aggregate.GroupBy(rows, []string{"campaignId", "campaignName", "status"}, adsMetrics)

	report := &domain.AdsPerformanceReport{
		Campaigns: make([]domain.CampaignPerformance, 0, len(groups)),
	}

	for _, g := range groups {
		campaignRows := aggregate.Filter(rows, aggregate.Query{
			Equals: map[string]string{"campaignId": g.Dims["campaignId"]},
		})
		daily := aggregate.BucketByDate(campaignRows, in.StartDate, in.EndDate, adsMetrics)
		roundBucketMetric(daily, "cost")

		report.Campaigns = append(report.Campaigns, domain.CampaignPerformance{
			CampaignID:     g.Dims["campaignId"],
			CampaignName:   g.Dims["campaignName"],
			Status:         g.Dims["status"],
			Daily:          daily,
			Clicks:         g.Totals["clicks"],
			Impressions:    g.Totals["impressions"],
			Cost:           aggregate.Round2(g.Totals["cost"]),
			Conversions:    g.Totals["conversions"],
			CTR:            aggregate.Round2(aggregate.Percent(g.Totals["clicks"], g.Totals["impressions"])),
			AverageCPC:     aggregate.Round2(aggregate.Ratio(g.Totals["cost"], g.Totals["clicks"])),
			ConversionRate: aggregate.Round2(aggregate.Percent(g.Totals["conversions"], g.Totals["clicks"])),
		})
	}

	clicks := aggregate.SumMetric(rows, "clicks")
	impressions := aggregate.SumMetric(rows, "impressions")
	cost := aggregate.SumMetric(rows, "cost")
	conversions := aggregate.SumMetric(rows, "conversions")

	report.Summary = domain.PerformanceSummary{
		TotalClicks:           clicks,
		TotalImpressions:      impressions,
		TotalCost:             aggregate.Round2(cost),
		TotalConversions:      conversions,
		AverageCTR:            aggregate.Round2(aggregate.Percent(clicks, impressions)),
		AverageCPC:            aggregate.Round2(aggregate.Ratio(cost, clicks)),
		AverageConversionRate: aggregate.Round2(aggregate.Percent(conversions, clicks)),
	}

	return report, nil
}

// withAdsCost copies rows with the vendor's micro-unit spend converted
// to standard units, before any aggregation touches it.
func withAdsCost(rows []domain.Record) []domain.Record {
	out := make([]domain.Record, len(rows))
	for i, r := range rows {
		nums := make(map[string]float64, len(r.Nums)+1)
		for k, v := range r.Nums {
			nums[k] = v
		}
		nums["cost"] = aggregate.FromMicros(r.Num("costMicros"))
		out[i] = domain.Record{Date: r.Date, Dims: r.Dims, Nums: nums}
	}
	return out
}

func campaignFilter(id string) map[string]string {
	if id == "" {
		return nil
	}
	return map[string]string{"campaignId": id}
}

func roundBucketMetric(buckets []domain.TimeBucket, metric string) {
	for i := range buckets {
		buckets[i].Metrics[metric] = aggregate.Round2(buckets[i].Metrics[metric])
	}
}
