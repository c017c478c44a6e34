package domain

// Ads

type CampaignPerformance struct {
	CampaignID     string
	CampaignName   string
	Status         string
	Daily          []TimeBucket
	Clicks         float64
	Impressions    float64
	Cost           float64
	Conversions    float64
	CTR            float64
	AverageCPC     float64
	ConversionRate float64
}

type PerformanceSummary struct {
	TotalClicks           float64
	TotalImpressions      float64
	TotalCost             float64
	TotalConversions      float64
	AverageCTR            float64
	AverageCPC            float64
	AverageConversionRate float64
}

type AdsPerformanceReport struct {
	Campaigns []CampaignPerformance
	Summary   PerformanceSummary
}

type DailyCost struct {
	Date              string
	Cost              float64
	Conversions       float64
	CostPerConversion float64
}

type CampaignCost struct {
	CampaignID               string
	CampaignName             string
	TotalCost                float64
	TotalConversions         float64
	AverageCostPerConversion float64
}

type CostsSummary struct {
	TotalCost                float64
	TotalConversions         float64
	AverageCostPerConversion float64
	AverageDailyCost         float64
}

type AdsCostsReport struct {
	CostsOverTime []DailyCost
	Campaigns     []CampaignCost
	Summary       CostsSummary
}

// Analytics

type AnalyticsOverview struct {
	TotalUsers float64
	NewUsers   float64
	Sessions   float64
	PageViews  float64
	BounceRate float64
	Daily      []TimeBucket
}

type TrafficSourceStats struct {
	Source     string
	Medium     string
	Users      float64
	Sessions   float64
	PageViews  float64
	BounceRate float64
}

// Sales

type SaleRecord struct {
	Date          string
	CustomerName  string
	CustomerEmail string
	Amount        float64
}

type DailySales struct {
	Date                     string
	TotalAmount              float64
	Transactions             float64
	UniqueCustomers          int
	AverageTransactionAmount float64
}

type CustomerStats struct {
	CustomerName             string
	Email                    string
	TotalAmount              float64
	Transactions             int
	AverageTransactionAmount float64
}

type SalesSummary struct {
	TotalAmount              float64
	TotalTransactions        int
	AverageTransactionAmount float64
	UniqueCustomers          int
	RepeatCustomers          int
}

type SalesReport struct {
	Summary      SalesSummary
	DailyStats   []DailySales
	TopCustomers []CustomerStats
}

// Search

type KeywordStats struct {
	Query           string
	Clicks          float64
	Impressions     float64
	CTR             float64
	AveragePosition float64
}
