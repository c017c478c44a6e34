package domain

// UnknownDim is the bucket for rows missing a categorical field.
const UnknownDim = "unknown"

// Record is the normalized row shape every vendor adapter maps into
// before aggregation: one row per atomic event or per (date, dimension)
// slice. Date is an ISO calendar day (YYYY-MM-DD).
type Record struct {
	Date string
	Dims map[string]string
	Nums map[string]float64
}

// Dim returns the categorical value for name, or UnknownDim when the
// field is missing or empty, so one malformed row never fails a report.
func (r Record) Dim(name string) string {
	if v, ok := r.Dims[name]; ok && v != "" {
		return v
	}
	return UnknownDim
}

// Num returns the numeric value for name, or 0 when missing.
func (r Record) Num(name string) float64 {
	return r.Nums[name]
}

// TimeBucket holds accumulated metrics for one calendar day.
type TimeBucket struct {
	Date    string
	Metrics map[string]float64
}

// DimensionGroup holds accumulated totals for one dimension key (or
// joined tuple of keys), plus rates derived after accumulation.
type DimensionGroup struct {
	Key    string
	Dims   map[string]string
	Totals map[string]float64
	Rates  map[string]float64
	Count  int
}
