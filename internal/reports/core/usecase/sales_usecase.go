package usecase

import (
	"context"
	"sort"
	"strconv"
	"time"

	"reporting-service/internal/cache"
	"reporting-service/internal/reports/core/aggregate"
	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/ports"
)

const topCustomerLimit = 10

type SalesQueryInput struct {
	StartDate     string
	EndDate       string
	CustomerEmail string // optional, exact match
	CustomerName  string // optional, substring match
	MinAmount     float64
	MaxAmount     float64 // 0 means unbounded
}

type SalesUseCase struct {
	source ports.SalesSource
	store  *cache.Store
	ttl    time.Duration
}

func NewSalesUseCase(source ports.SalesSource, store *cache.Store, ttl time.Duration) *SalesUseCase {
	return &SalesUseCase{source: source, store: store, ttl: ttl}
}

func (uc *SalesUseCase) Summary(ctx context.Context, in RangeInput) (*domain.SalesReport, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	key := cache.Key("sales_summary", in.StartDate, in.EndDate)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.buildSummary(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.SalesReport), nil
}

func (uc *SalesUseCase) buildSummary(ctx context.Context, in RangeInput) (*domain.SalesReport, error) {
	raw, err := uc.source.FetchRows(ctx, ports.RowQuery{StartDate: in.StartDate, EndDate: in.EndDate})
	if err != nil {
		return nil, err
	}
	rows := withTransactionCount(aggregate.Filter(raw, aggregate.Query{StartDate: in.StartDate, EndDate: in.EndDate}))

	totalAmount := aggregate.SumMetric(rows, "amount")
	totalTransactions := len(rows)

	daily := aggregate.BucketByDate(rows, in.StartDate, in.EndDate, []string{"amount", "transactions"})
	uniquePerDay := aggregate.DistinctPerDate(rows, "customerEmail")

	dailyStats := make([]domain.DailySales, 0, len(daily))
	for _, b := range daily {
		dailyStats = append(dailyStats, domain.DailySales{
			Date:                     b.Date,
			TotalAmount:              aggregate.Round2(b.Metrics["amount"]),
			Transactions:             b.Metrics["transactions"],
			UniqueCustomers:          uniquePerDay[b.Date],
			AverageTransactionAmount: aggregate.Round2(aggregate.Ratio(b.Metrics["amount"], b.Metrics["transactions"])),
		})
	}

	customers := aggregate.GroupBy(rows, []string{"customerEmail", "customerName"}, []string{"amount"})
	repeat := 0
	for _, c := range customers {
		if c.Count > 1 {
			repeat++
		}
	}

	aggregate.SortByTotalDesc(customers, "amount")
	top := aggregate.TopN(customers, topCustomerLimit)

	topCustomers := make([]domain.CustomerStats, 0, len(top))
	for _, c := range top {
		topCustomers = append(topCustomers, domain.CustomerStats{
			CustomerName:             c.Dims["customerName"],
			Email:                    c.Dims["customerEmail"],
			TotalAmount:              aggregate.Round2(c.Totals["amount"]),
			Transactions:             c.Count,
			AverageTransactionAmount: aggregate.Round2(aggregate.Ratio(c.Totals["amount"], float64(c.Count))),
		})
	}

	return &domain.SalesReport{
		Summary: domain.SalesSummary{
			TotalAmount:              aggregate.Round2(totalAmount),
			TotalTransactions:        totalTransactions,
			AverageTransactionAmount: aggregate.Round2(aggregate.Ratio(totalAmount, float64(totalTransactions))),
			UniqueCustomers:          len(customers),
			RepeatCustomers:          repeat,
		},
		DailyStats:   dailyStats,
		TopCustomers: topCustomers,
	}, nil
}

func (uc *SalesUseCase) Transactions(ctx context.Context, in SalesQueryInput) ([]domain.SaleRecord, error) {
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	key := cache.Key("sales_transactions",
		in.StartDate, in.EndDate,
		in.CustomerEmail, in.CustomerName,
		formatAmount(in.MinAmount), formatAmount(in.MaxAmount),
	)
	v, err := uc.store.Fetch(ctx, key, uc.ttl, func(ctx context.Context) (any, error) {
		return uc.buildTransactions(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.SaleRecord), nil
}

func (uc *SalesUseCase) buildTransactions(ctx context.Context, in SalesQueryInput) ([]domain.SaleRecord, error) {
	raw, err := uc.source.FetchRows(ctx, ports.RowQuery{StartDate: in.StartDate, EndDate: in.EndDate})
	if err != nil {
		return nil, err
	}

	q := aggregate.Query{StartDate: in.StartDate, EndDate: in.EndDate}
	if in.CustomerEmail != "" {
		q.Equals = map[string]string{"customerEmail": in.CustomerEmail}
	}
	if in.CustomerName != "" {
		q.Contains = map[string]string{"customerName": in.CustomerName}
	}
	if in.MinAmount > 0 {
		q.MinNum = map[string]float64{"amount": in.MinAmount}
	}
	if in.MaxAmount > 0 {
		q.MaxNum = map[string]float64{"amount": in.MaxAmount}
	}

	rows := aggregate.Filter(raw, q)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	out := make([]domain.SaleRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.SaleRecord{
			Date:          r.Date,
			CustomerName:  r.Dim("customerName"),
			CustomerEmail: r.Dim("customerEmail"),
			Amount:        aggregate.Round2(r.Num("amount")),
		})
	}
	return out, nil
}

// withTransactionCount copies rows with an implicit transactions=1
// metric so date bucketing can count rows per day.
func withTransactionCount(rows []domain.Record) []domain.Record {
	out := make([]domain.Record, len(rows))
	for i, r := range rows {
		nums := make(map[string]float64, len(r.Nums)+1)
		for k, v := range r.Nums {
			nums[k] = v
		}
		nums["transactions"] = 1
		out[i] = domain.Record{Date: r.Date, Dims: r.Dims, Nums: nums}
	}
	return out
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
