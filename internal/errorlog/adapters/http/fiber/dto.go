package fiber

type LogErrorRequest struct {
	ErrorType  string `json:"errorType" example:"DbError"`
	Message    string `json:"message" example:"connection refused"`
	StackTrace string `json:"stackTrace,omitempty"`
	Severity   string `json:"severity,omitempty" example:"high"`
	Component  string `json:"component,omitempty" example:"api"`
	Timestamp  int64  `json:"timestamp,omitempty"`
}

type LogErrorResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status" example:"created"`
}

type ErrorEntryResponse struct {
	ErrorType  string `json:"errorType"`
	Message    string `json:"message"`
	StackTrace string `json:"stackTrace,omitempty"`
	Severity   string `json:"severity"`
	Component  string `json:"component"`
	Timestamp  string `json:"timestamp"`
	Resolved   bool   `json:"resolved"`
}

type RecentErrorsResponse struct {
	Success bool                 `json:"success"`
	Data    []ErrorEntryResponse `json:"data"`
}

type DailyCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type ComponentStatsResponse struct {
	Component string `json:"component"`
	Count     int64  `json:"count"`
	Resolved  int64  `json:"resolved"`
}

type StatsData struct {
	Total          int64                    `json:"total"`
	BySeverity     map[string]int64         `json:"bySeverity"`
	ByComponent    []ComponentStatsResponse `json:"byComponent"`
	ErrorsOverTime []DailyCountResponse     `json:"errorsOverTime"`
	ResolutionRate float64                  `json:"resolutionRate"`
}

type PeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type StatsResponse struct {
	Success bool           `json:"success"`
	Data    StatsData      `json:"data"`
	Period  PeriodResponse `json:"period"`
}

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"errorType and message are required"`
}
