package domain

import "time"

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// UnknownComponent is the bucket for entries logged without a
// component name.
const UnknownComponent = "unknown"

// ValidSeverity reports whether s is one of the known severity levels.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type ErrorLog struct {
	ErrorType  string
	Message    string
	StackTrace string
	Severity   string
	Component  string
	OccurredAt time.Time
	Resolved   bool
	DedupeKey  string
}

type DailyCount struct {
	Date  string
	Count int64
}

type ComponentStats struct {
	Component string
	Count     int64
	Resolved  int64
}

type Stats struct {
	Total          int64
	BySeverity     map[string]int64
	ByComponent    []ComponentStats
	ErrorsOverTime []DailyCount
	ResolutionRate float64
}
