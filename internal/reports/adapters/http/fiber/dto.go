package fiber

// Shared envelope pieces

type PeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"startDate and endDate are required"`
}

// Ads

type DailyAdsMetrics struct {
	Date        string  `json:"date"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Cost        float64 `json:"cost"`
	Conversions float64 `json:"conversions"`
}

type CampaignPerformanceResponse struct {
	CampaignID     string            `json:"campaignId"`
	CampaignName   string            `json:"campaignName"`
	Status         string            `json:"status"`
	Clicks         float64           `json:"clicks"`
	Impressions    float64           `json:"impressions"`
	Cost           float64           `json:"cost"`
	Conversions    float64           `json:"conversions"`
	CTR            float64           `json:"ctr"`
	AverageCPC     float64           `json:"averageCpc"`
	ConversionRate float64           `json:"conversionRate"`
	Daily          []DailyAdsMetrics `json:"daily"`
}

type PerformanceSummaryResponse struct {
	TotalClicks           float64 `json:"totalClicks"`
	TotalImpressions      float64 `json:"totalImpressions"`
	TotalCost             float64 `json:"totalCost"`
	TotalConversions      float64 `json:"totalConversions"`
	AverageCTR            float64 `json:"averageCtr"`
	AverageCPC            float64 `json:"averageCpc"`
	AverageConversionRate float64 `json:"averageConversionRate"`
}

type AdsPerformanceData struct {
	Campaigns []CampaignPerformanceResponse `json:"campaigns"`
	Summary   PerformanceSummaryResponse    `json:"summary"`
}

type AdsPerformanceResponse struct {
	Success bool               `json:"success"`
	Data    AdsPerformanceData `json:"data"`
	Period  PeriodResponse     `json:"period"`
}

type DailyCostResponse struct {
	Date              string  `json:"date"`
	Cost              float64 `json:"cost"`
	Conversions       float64 `json:"conversions"`
	CostPerConversion float64 `json:"costPerConversion"`
}

type CampaignCostResponse struct {
	CampaignID               string  `json:"campaignId"`
	CampaignName             string  `json:"campaignName"`
	TotalCost                float64 `json:"totalCost"`
	TotalConversions         float64 `json:"totalConversions"`
	AverageCostPerConversion float64 `json:"averageCostPerConversion"`
}

type CostsSummaryResponse struct {
	TotalCost                float64 `json:"totalCost"`
	TotalConversions         float64 `json:"totalConversions"`
	AverageCostPerConversion float64 `json:"averageCostPerConversion"`
	AverageDailyCost         float64 `json:"averageDailyCost"`
}

type AdsCostsData struct {
	CostsOverTime []DailyCostResponse    `json:"costsOverTime"`
	Campaigns     []CampaignCostResponse `json:"campaigns"`
	Summary       CostsSummaryResponse   `json:"summary"`
}

type AdsCostsResponse struct {
	Success bool           `json:"success"`
	Data    AdsCostsData   `json:"data"`
	Period  PeriodResponse `json:"period"`
}

// Analytics

type DailyTrafficMetrics struct {
	Date      string  `json:"date"`
	Users     float64 `json:"users"`
	NewUsers  float64 `json:"newUsers"`
	Sessions  float64 `json:"sessions"`
	PageViews float64 `json:"pageViews"`
}

type AnalyticsOverviewData struct {
	TotalUsers float64               `json:"totalUsers"`
	NewUsers   float64               `json:"newUsers"`
	Sessions   float64               `json:"sessions"`
	PageViews  float64               `json:"pageViews"`
	BounceRate float64               `json:"bounceRate"`
	Daily      []DailyTrafficMetrics `json:"daily"`
}

type AnalyticsOverviewResponse struct {
	Success bool                  `json:"success"`
	Data    AnalyticsOverviewData `json:"data"`
	Period  PeriodResponse        `json:"period"`
}

type TrafficSourceResponse struct {
	Source     string  `json:"source"`
	Medium     string  `json:"medium"`
	Users      float64 `json:"users"`
	Sessions   float64 `json:"sessions"`
	PageViews  float64 `json:"pageViews"`
	BounceRate float64 `json:"bounceRate"`
}

type TrafficSourcesResponse struct {
	Success bool                    `json:"success"`
	Data    []TrafficSourceResponse `json:"data"`
	Period  PeriodResponse          `json:"period"`
}

// Sales

type SalesSummaryResponse struct {
	TotalAmount              float64 `json:"totalAmount"`
	TotalTransactions        int     `json:"totalTransactions"`
	AverageTransactionAmount float64 `json:"averageTransactionAmount"`
	UniqueCustomers          int     `json:"uniqueCustomers"`
	RepeatCustomers          int     `json:"repeatCustomers"`
}

type DailySalesResponse struct {
	Date                     string  `json:"date"`
	TotalAmount              float64 `json:"totalAmount"`
	Transactions             float64 `json:"transactions"`
	UniqueCustomers          int     `json:"uniqueCustomers"`
	AverageTransactionAmount float64 `json:"averageTransactionAmount"`
}

type CustomerStatsResponse struct {
	CustomerName             string  `json:"customerName"`
	Email                    string  `json:"email"`
	TotalAmount              float64 `json:"totalAmount"`
	Transactions             int     `json:"transactions"`
	AverageTransactionAmount float64 `json:"averageTransactionAmount"`
}

type SalesReportData struct {
	Summary      SalesSummaryResponse    `json:"summary"`
	DailyStats   []DailySalesResponse    `json:"dailyStats"`
	TopCustomers []CustomerStatsResponse `json:"topCustomers"`
}

type SalesReportResponse struct {
	Success bool            `json:"success"`
	Data    SalesReportData `json:"data"`
	Period  PeriodResponse  `json:"period"`
}

type SaleRecordResponse struct {
	Date          string  `json:"date"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	Amount        float64 `json:"amount"`
}

type SalesTransactionsResponse struct {
	Success bool                 `json:"success"`
	Data    []SaleRecordResponse `json:"data"`
	Period  PeriodResponse       `json:"period"`
}

// Search

type KeywordStatsResponse struct {
	Query           string  `json:"query"`
	Clicks          float64 `json:"clicks"`
	Impressions     float64 `json:"impressions"`
	CTR             float64 `json:"ctr"`
	AveragePosition float64 `json:"averagePosition"`
}

type KeywordsResponse struct {
	Success bool                   `json:"success"`
	Data    []KeywordStatsResponse `json:"data"`
	Period  PeriodResponse         `json:"period"`
}
