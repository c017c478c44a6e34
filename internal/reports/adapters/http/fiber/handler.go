package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/usecase"
)

type AdsPerformanceUseCase interface {
	Execute(ctx context.Context, in usecase.AdsQueryInput) (*domain.AdsPerformanceReport, error)
}

type AdsCostsUseCase interface {
	Execute(ctx context.Context, in usecase.AdsQueryInput) (*domain.AdsCostsReport, error)
}

type AnalyticsUseCase interface {
	Overview(ctx context.Context, in usecase.RangeInput) (*domain.AnalyticsOverview, error)
	TrafficSources(ctx context.Context, in usecase.RangeInput) ([]domain.TrafficSourceStats, error)
}

type SalesUseCase interface {
	Summary(ctx context.Context, in usecase.RangeInput) (*domain.SalesReport, error)
	Transactions(ctx context.Context, in usecase.SalesQueryInput) ([]domain.SaleRecord, error)
}

type SearchUseCase interface {
	Keywords(ctx context.Context, in usecase.RangeInput) ([]domain.KeywordStats, error)
}

type ReportsHandler struct {
	adsPerformanceUC AdsPerformanceUseCase
	adsCostsUC       AdsCostsUseCase
	analyticsUC      AnalyticsUseCase
	salesUC          SalesUseCase
	searchUC         SearchUseCase
	log              zerolog.Logger
}

func NewReportsHandler(
	adsPerformanceUC AdsPerformanceUseCase,
	adsCostsUC AdsCostsUseCase,
	analyticsUC AnalyticsUseCase,
	salesUC SalesUseCase,
	searchUC SearchUseCase,
	log zerolog.Logger,
) *ReportsHandler {
	return &ReportsHandler{
		adsPerformanceUC: adsPerformanceUC,
		adsCostsUC:       adsCostsUC,
		analyticsUC:      analyticsUC,
		salesUC:          salesUC,
		searchUC:         searchUC,
		log:              log,
	}
}

// fail maps usecase errors onto the response envelope. Every date
// validation sentinel is a client error; anything else is logged and
// hidden behind a generic body.
func (h *ReportsHandler) fail(c *fiber.Ctx, report string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrMissingDates),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrFutureDate),
		errors.Is(err, usecase.ErrInvalidRange):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.log.Error().Err(err).Str("report", report).Msg("report failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
		})
	}
}

func period(c *fiber.Ctx) PeriodResponse {
	return PeriodResponse{
		StartDate: c.Query("startDate", ""),
		EndDate:   c.Query("endDate", ""),
	}
}

// AdsPerformance godoc
// @Summary Campaign performance report
// @Description Per-campaign daily series and derived rates over a date range
// @Tags Ads
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Param campaignId query string false "Restrict to one campaign"
// @Success 200 {object} AdsPerformanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ads/performance [get]
func (h *ReportsHandler) AdsPerformance(c *fiber.Ctx) error {
	report, err := h.adsPerformanceUC.Execute(c.UserContext(), usecase.AdsQueryInput{
		StartDate:  c.Query("startDate", ""),
		EndDate:    c.Query("endDate", ""),
		CampaignID: c.Query("campaignId", ""),
	})
	if err != nil {
		return h.fail(c, "ads_performance", err)
	}

	data := AdsPerformanceData{
		Campaigns: make([]CampaignPerformanceResponse, 0, len(report.Campaigns)),
		Summary: PerformanceSummaryResponse{
			TotalClicks:           report.Summary.TotalClicks,
			TotalImpressions:      report.Summary.TotalImpressions,
			TotalCost:             report.Summary.TotalCost,
			TotalConversions:      report.Summary.TotalConversions,
			AverageCTR:            report.Summary.AverageCTR,
			AverageCPC:            report.Summary.AverageCPC,
			AverageConversionRate: report.Summary.AverageConversionRate,
		},
	}

	for _, cp := range report.Campaigns {
		daily := make([]DailyAdsMetrics, 0, len(cp.Daily))
		for _, b := range cp.Daily {
			daily = append(daily, DailyAdsMetrics{
				Date:        b.Date,
				Clicks:      b.Metrics["clicks"],
				Impressions: b.Metrics["impressions"],
				Cost:        b.Metrics["cost"],
				Conversions: b.Metrics["conversions"],
			})
		}
		data.Campaigns = append(data.Campaigns, CampaignPerformanceResponse{
			CampaignID:     cp.CampaignID,
			CampaignName:   cp.CampaignName,
			Status:         cp.Status,
			Clicks:         cp.Clicks,
			Impressions:    cp.Impressions,
			Cost:           cp.Cost,
			Conversions:    cp.Conversions,
			CTR:            cp.CTR,
			AverageCPC:     cp.AverageCPC,
			ConversionRate: cp.ConversionRate,
			Daily:          daily,
		})
	}

	return c.Status(http.StatusOK).JSON(AdsPerformanceResponse{
		Success: true,
		Data:    data,
		Period:  period(c),
	})
}

// AdsCosts godoc
// @Summary Campaign cost report
// @Description Daily cost series, per-campaign cost ranking and summary
// @Tags Ads
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Param campaignId query string false "Restrict to one campaign"
// @Success 200 {object} AdsCostsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ads/costs [get]
func (h *ReportsHandler) AdsCosts(c *fiber.Ctx) error {
	report, err := h.adsCostsUC.Execute(c.UserContext(), usecase.AdsQueryInput{
		StartDate:  c.Query("startDate", ""),
		EndDate:    c.Query("endDate", ""),
		CampaignID: c.Query("campaignId", ""),
	})
	if err != nil {
		return h.fail(c, "ads_costs", err)
	}

	data := AdsCostsData{
		CostsOverTime: make([]DailyCostResponse, 0, len(report.CostsOverTime)),
		Campaigns:     make([]CampaignCostResponse, 0, len(report.Campaigns)),
		Summary: CostsSummaryResponse{
			TotalCost:                report.Summary.TotalCost,
			TotalConversions:         report.Summary.TotalConversions,
			AverageCostPerConversion: report.Summary.AverageCostPerConversion,
			AverageDailyCost:         report.Summary.AverageDailyCost,
		},
	}
	for _, d := range report.CostsOverTime {
		data.CostsOverTime = append(data.CostsOverTime, DailyCostResponse{
			Date:              d.Date,
			Cost:              d.Cost,
			Conversions:       d.Conversions,
			CostPerConversion: d.CostPerConversion,
		})
	}
	for _, cc := range report.Campaigns {
		data.Campaigns = append(data.Campaigns, CampaignCostResponse{
			CampaignID:               cc.CampaignID,
			CampaignName:             cc.CampaignName,
			TotalCost:                cc.TotalCost,
			TotalConversions:         cc.TotalConversions,
			AverageCostPerConversion: cc.AverageCostPerConversion,
		})
	}

	return c.Status(http.StatusOK).JSON(AdsCostsResponse{
		Success: true,
		Data:    data,
		Period:  period(c),
	})
}

// AnalyticsOverview godoc
// @Summary Site analytics overview
// @Description Gap-filled daily traffic series with accumulated totals and bounce rate
// @Tags Analytics
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Success 200 {object} AnalyticsOverviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/overview [get]
func (h *ReportsHandler) AnalyticsOverview(c *fiber.Ctx) error {
	overview, err := h.analyticsUC.Overview(c.UserContext(), usecase.RangeInput{
		StartDate: c.Query("startDate", ""),
		EndDate:   c.Query("endDate", ""),
	})
	if err != nil {
		return h.fail(c, "analytics_overview", err)
	}

	daily := make([]DailyTrafficMetrics, 0, len(overview.Daily))
	for _, b := range overview.Daily {
		daily = append(daily, DailyTrafficMetrics{
			Date:      b.Date,
			Users:     b.Metrics["users"],
			NewUsers:  b.Metrics["newUsers"],
			Sessions:  b.Metrics["sessions"],
			PageViews: b.Metrics["pageViews"],
		})
	}

	return c.Status(http.StatusOK).JSON(AnalyticsOverviewResponse{
		Success: true,
		Data: AnalyticsOverviewData{
			TotalUsers: overview.TotalUsers,
			NewUsers:   overview.NewUsers,
			Sessions:   overview.Sessions,
			PageViews:  overview.PageViews,
			BounceRate: overview.BounceRate,
			Daily:      daily,
		},
		Period: period(c),
	})
}

// TrafficSources godoc
// @Summary Traffic source breakdown
// @Description Sessions per (source, medium) pair, ranked by sessions
// @Tags Analytics
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Success 200 {object} TrafficSourcesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/traffic [get]
func (h *ReportsHandler) TrafficSources(c *fiber.Ctx) error {
	sources, err := h.analyticsUC.TrafficSources(c.UserContext(), usecase.RangeInput{
		StartDate: c.Query("startDate", ""),
		EndDate:   c.Query("endDate", ""),
	})
	if err != nil {
		return h.fail(c, "analytics_traffic", err)
	}

	data := make([]TrafficSourceResponse, 0, len(sources))
	for _, s := range sources {
		data = append(data, TrafficSourceResponse{
			Source:     s.Source,
			Medium:     s.Medium,
			Users:      s.Users,
			Sessions:   s.Sessions,
			PageViews:  s.PageViews,
			BounceRate: s.BounceRate,
		})
	}

	return c.Status(http.StatusOK).JSON(TrafficSourcesResponse{
		Success: true,
		Data:    data,
		Period:  period(c),
	})
}

// SalesSummary godoc
// @Summary Sales summary report
// @Description Totals, gap-filled daily stats, unique/repeat customers and top customers
// @Tags Sales
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Success 200 {object} SalesReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sales/summary [get]
func (h *ReportsHandler) SalesSummary(c *fiber.Ctx) error {
	report, err := h.salesUC.Summary(c.UserContext(), usecase.RangeInput{
		StartDate: c.Query("startDate", ""),
		EndDate:   c.Query("endDate", ""),
	})
	if err != nil {
		return h.fail(c, "sales_summary", err)
	}

	data := SalesReportData{
		Summary: SalesSummaryResponse{
			TotalAmount:              report.Summary.TotalAmount,
			TotalTransactions:        report.Summary.TotalTransactions,
			AverageTransactionAmount: report.Summary.AverageTransactionAmount,
			UniqueCustomers:          report.Summary.UniqueCustomers,
			RepeatCustomers:          report.Summary.RepeatCustomers,
		},
		DailyStats:   make([]DailySalesResponse, 0, len(report.DailyStats)),
		TopCustomers: make([]CustomerStatsResponse, 0, len(report.TopCustomers)),
	}
	for _, d := range report.DailyStats {
		data.DailyStats = append(data.DailyStats, DailySalesResponse{
			Date:                     d.Date,
			TotalAmount:              d.TotalAmount,
			Transactions:             d.Transactions,
			UniqueCustomers:          d.UniqueCustomers,
			AverageTransactionAmount: d.AverageTransactionAmount,
		})
	}
	for _, cs := range report.TopCustomers {
		data.TopCustomers = append(data.TopCustomers, CustomerStatsResponse{
			CustomerName:             cs.CustomerName,
			Email:                    cs.Email,
			TotalAmount:              cs.TotalAmount,
			Transactions:             cs.Transactions,
			AverageTransactionAmount: cs.AverageTransactionAmount,
		})
	}

	return c.Status(http.StatusOK).JSON(SalesReportResponse{
		Success: true,
		Data:    data,
		Period:  period(c),
	})
}

// SalesTransactions godoc
// @Summary Filtered sales transactions
// @Description Raw ledger rows filtered by customer and amount bounds, oldest first
// @Tags Sales
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Param customerEmail query string false "Exact email match"
// @Param customerName query string false "Name substring match"
// @Param minAmount query number false "Minimum amount"
// @Param maxAmount query number false "Maximum amount"
// @Success 200 {object} SalesTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sales/transactions [get]
func (h *ReportsHandler) SalesTransactions(c *fiber.Ctx) error {
	minAmount, err := queryFloat(c, "minAmount")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid 'minAmount' parameter",
		})
	}
	maxAmount, err := queryFloat(c, "maxAmount")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid 'maxAmount' parameter",
		})
	}

	rows, err := h.salesUC.Transactions(c.UserContext(), usecase.SalesQueryInput{
		StartDate:     c.Query("startDate", ""),
		EndDate:       c.Query("endDate", ""),
		CustomerEmail: c.Query("customerEmail", ""),
		CustomerName:  c.Query("customerName", ""),
		MinAmount:     minAmount,
		MaxAmount:     maxAmount,
	})
	if err != nil {
		return h.fail(c, "sales_transactions", err)
	}

	data := make([]SaleRecordResponse, 0, len(rows))
	for _, r := range rows {
		data = append(data, SaleRecordResponse{
			Date:          r.Date,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			Amount:        r.Amount,
		})
	}

	return c.Status(http.StatusOK).JSON(SalesTransactionsResponse{
		Success: true,
		Data:    data,
		Period:  period(c),
	})
}

// SearchKeywords godoc
// @Summary Search keyword report
// @Description Keywords ranked by clicks with CTR and impression-weighted position
// @Tags Search
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Success 200 {object} KeywordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /search/keywords [get]
func (h *ReportsHandler) SearchKeywords(c *fiber.Ctx) error {
	keywords, err := h.searchUC.Keywords(c.UserContext(), usecase.RangeInput{
		StartDate: c.Query("startDate", ""),
		EndDate:   c.Query("endDate", ""),
	})
	if err != nil {
		return h.fail(c, "search_keywords", err)
	}

	data := make([]KeywordStatsResponse, 0, len(keywords))
	for _, k := range keywords {
		data = append(data, KeywordStatsResponse{
			Query:           k.Query,
			Clicks:          k.Clicks,
			Impressions:     k.Impressions,
			CTR:             k.CTR,
			AveragePosition: k.AveragePosition,
		})
	}

	return c.Status(http.StatusOK).JSON(KeywordsResponse{
		Success: true,
		Data:    data,
		Period:  period(c),
	})
}

func queryFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name, "")
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
