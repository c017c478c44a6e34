// Package aggregate turns normalized rows into date-bucketed series and
// dimension-grouped summaries. All functions are pure; callers may run
// them concurrently.
package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"reporting-service/internal/reports/core/domain"
)

const dateLayout = "2006-01-02"

// Query narrows a row set before bucketing or grouping. Date bounds are
// inclusive ISO days; the remaining maps are optional per-field filters.
type Query struct {
	StartDate string
	EndDate   string

	Equals   map[string]string  // dimension equality (case-insensitive)
	Contains map[string]string  // dimension substring (case-insensitive)
	MinNum   map[string]float64 // numeric lower bound, inclusive
	MaxNum   map[string]float64 // numeric upper bound, inclusive
}

// Filter selects rows inside the query's date range that satisfy every
// additional filter. Inputs are normalized ISO dates, so the range
// check is a plain string comparison.
func Filter(rows []domain.Record, q Query) []domain.Record {
	out := make([]domain.Record, 0, len(rows))

	for _, r := range rows {
		if q.StartDate != "" && r.Date < q.StartDate {
			continue
		}
		if q.EndDate != "" && r.Date > q.EndDate {
			continue
		}
		if !matchesDims(r, q) || !matchesNums(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesDims(r domain.Record, q Query) bool {
	for name, want := range q.Equals {
		if !strings.EqualFold(r.Dim(name), want) {
			return false
		}
	}
	for name, want := range q.Contains {
		if !strings.Contains(strings.ToLower(r.Dim(name)), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

func matchesNums(r domain.Record, q Query) bool {
	for name, min := range q.MinNum {
		if r.Num(name) < min {
			return false
		}
	}
	for name, max := range q.MaxNum {
		if r.Num(name) > max {
			return false
		}
	}
	return true
}

// BucketByDate accumulates the named metrics into one TimeBucket per
// calendar day of [start, end] inclusive, ascending. Days without rows
// still appear with every metric at zero: the series length is part of
// the contract chart consumers rely on. Rows outside the range are
// ignored. Returns nil if the bounds are not valid ISO dates.
func BucketByDate(rows []domain.Record, start, end string, metrics []string) []domain.TimeBucket {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil || to.Before(from) {
		return nil
	}

	index := make(map[string]int)
	buckets := make([]domain.TimeBucket, 0, int(to.Sub(from).Hours()/24)+1)

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(dateLayout)
		m := make(map[string]float64, len(metrics))
		for _, name := range metrics {
			m[name] = 0
		}
		index[day] = len(buckets)
		buckets = append(buckets, domain.TimeBucket{Date: day, Metrics: m})
	}

	for _, r := range rows {
		i, ok := index[r.Date]
		if !ok {
			continue
		}
		for _, name := range metrics {
			buckets[i].Metrics[name] += r.Num(name)
		}
	}

	return buckets
}

// GroupBy accumulates the named metrics per distinct combination of the
// given dimension values. Group order is the order of first encounter,
// keeping later stable sorts deterministic. Missing dimensions land in
// the "unknown" bucket.
func GroupBy(rows []domain.Record, dims []string, metrics []string) []domain.DimensionGroup {
	index := make(map[string]int)
	groups := make([]domain.DimensionGroup, 0)

	for _, r := range rows {
		values := make([]string, len(dims))
		for i, d := range dims {
			values[i] = r.Dim(d)
		}
		key := strings.Join(values, " / ")

		i, ok := index[key]
		if !ok {
			dm := make(map[string]string, len(dims))
			for j, d := range dims {
				dm[d] = values[j]
			}
			tm := make(map[string]float64, len(metrics))
			for _, name := range metrics {
				tm[name] = 0
			}
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.DimensionGroup{
				Key:    key,
				Dims:   dm,
				Totals: tm,
				Rates:  make(map[string]float64),
			})
		}

		for _, name := range metrics {
			groups[i].Totals[name] += r.Num(name)
		}
		groups[i].Count++
	}

	return groups
}

// Ratio divides accumulated totals, defined as 0 when the denominator
// is zero. Rates must always be derived this way, from totals, never by
// averaging per-row percentages, which would bias toward low-volume
// rows.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Percent is Ratio scaled to a percentage.
func Percent(num, den float64) float64 {
	return Ratio(num, den) * 100
}

// DeriveRate sets group.Rates[name] = num/den from each group's totals.
func DeriveRate(groups []domain.DimensionGroup, name, num, den string) {
	for i := range groups {
		groups[i].Rates[name] = Ratio(groups[i].Totals[num], groups[i].Totals[den])
	}
}

// DeriveRatePercent is DeriveRate scaled to a percentage.
func DeriveRatePercent(groups []domain.DimensionGroup, name, num, den string) {
	for i := range groups {
		groups[i].Rates[name] = Percent(groups[i].Totals[num], groups[i].Totals[den])
	}
}

// SortByTotalDesc orders groups by the given total descending. The sort
// is stable: ties keep their encounter order.
func SortByTotalDesc(groups []domain.DimensionGroup, metric string) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Totals[metric] > groups[j].Totals[metric]
	})
}

// TopN truncates groups to at most n entries.
func TopN(groups []domain.DimensionGroup, n int) []domain.DimensionGroup {
	if n < 0 || n >= len(groups) {
		return groups
	}
	return groups[:n]
}

// SumMetric totals one metric over all rows.
func SumMetric(rows []domain.Record, metric string) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Num(metric)
	}
	return sum
}

// CountDistinct counts distinct values of one dimension.
func CountDistinct(rows []domain.Record, dim string) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Dim(dim)] = struct{}{}
	}
	return len(seen)
}

// DistinctPerDate counts distinct values of one dimension per day.
func DistinctPerDate(rows []domain.Record, dim string) map[string]int {
	seen := make(map[string]map[string]struct{})
	for _, r := range rows {
		if seen[r.Date] == nil {
			seen[r.Date] = make(map[string]struct{})
		}
		seen[r.Date][r.Dim(dim)] = struct{}{}
	}

	out := make(map[string]int, len(seen))
	for day, vals := range seen {
		out[day] = len(vals)
	}
	return out
}

// Round2 rounds a monetary value to 2 decimal places. Applied once,
// after all arithmetic, so intermediate rounding error cannot compound.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FromMicros converts vendor micro-unit money into standard units.
// Conversion happens before aggregation, rounding after.
func FromMicros(v float64) float64 {
	return v / 1e6
}

// DayCount returns the number of calendar days in [start, end]
// inclusive, or 0 if the bounds are invalid.
func DayCount(start, end string) int {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
