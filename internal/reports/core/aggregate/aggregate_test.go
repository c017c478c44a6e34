package aggregate_test

import (
	"math"
	"testing"

	"reporting-service/internal/reports/core/aggregate"
	"reporting-service/internal/reports/core/domain"
)

func row(date string, dims map[string]string, nums map[string]float64) domain.Record {
	return domain.Record{Date: date, Dims: dims, Nums: nums}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ------------------------------------------------------------
// FILTER
// ------------------------------------------------------------

func TestFilter_DateRangeInclusive(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", nil, nil),
		row("2025-01-02", nil, nil),
		row("2025-01-03", nil, nil),
		row("2025-01-04", nil, nil),
	}

	got := aggregate.Filter(rows, aggregate.Query{StartDate: "2025-01-02", EndDate: "2025-01-03"})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Date != "2025-01-02" || got[1].Date != "2025-01-03" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestFilter_EqualsContainsAndNumericBounds(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", map[string]string{"email": "a@x.com", "name": "Alice Smith"}, map[string]float64{"amount": 120}),
		row("2025-01-01", map[string]string{"email": "b@x.com", "name": "Bob Jones"}, map[string]float64{"amount": 40}),
		row("2025-01-01", map[string]string{"email": "A@X.COM", "name": "Alice Smith"}, map[string]float64{"amount": 500}),
	}

	got := aggregate.Filter(rows, aggregate.Query{
		Equals:   map[string]string{"email": "a@x.com"},
		Contains: map[string]string{"name": "smith"},
		MinNum:   map[string]float64{"amount": 100},
		MaxNum:   map[string]float64{"amount": 400},
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].Num("amount") != 120 {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

// ------------------------------------------------------------
// BUCKET BY DATE (gap-filling)
// ------------------------------------------------------------

func TestBucketByDate_EmptyInputStillFillsEveryDay(t *testing.T) {
	buckets := aggregate.BucketByDate(nil, "2025-03-10", "2025-03-13", []string{"clicks", "cost"})

	if len(buckets) != 4 {
		t.Fatalf("expected exactly 4 buckets for a 4-day range, got %d", len(buckets))
	}
	want := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}
	for i, b := range buckets {
		if b.Date != want[i] {
			t.Fatalf("bucket %d: expected date %s, got %s", i, want[i], b.Date)
		}
		if b.Metrics["clicks"] != 0 || b.Metrics["cost"] != 0 {
			t.Fatalf("bucket %s: expected zero metrics, got %+v", b.Date, b.Metrics)
		}
	}
}

func TestBucketByDate_SparseRowsAccumulate(t *testing.T) {
	rows := []domain.Record{
		row("2025-03-11", nil, map[string]float64{"clicks": 3}),
		row("2025-03-11", nil, map[string]float64{"clicks": 2}),
		row("2025-03-13", nil, map[string]float64{"clicks": 7}),
		// outside the range, must be ignored
		row("2025-03-20", nil, map[string]float64{"clicks": 100}),
	}

	buckets := aggregate.BucketByDate(rows, "2025-03-10", "2025-03-13", []string{"clicks"})
	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}
	if buckets[0].Metrics["clicks"] != 0 {
		t.Fatalf("2025-03-10 should be zero-filled")
	}
	if buckets[1].Metrics["clicks"] != 5 {
		t.Fatalf("expected 5 clicks on 2025-03-11, got %v", buckets[1].Metrics["clicks"])
	}
	if buckets[3].Metrics["clicks"] != 7 {
		t.Fatalf("expected 7 clicks on 2025-03-13, got %v", buckets[3].Metrics["clicks"])
	}
}

// Aggregation is associative under filtering: bucketing R1 and R2
// separately and summing per day equals bucketing their union.
func TestBucketByDate_AssociativeUnderUnion(t *testing.T) {
	r1 := []domain.Record{
		row("2025-03-10", nil, map[string]float64{"clicks": 1}),
		row("2025-03-12", nil, map[string]float64{"clicks": 4}),
	}
	r2 := []domain.Record{
		row("2025-03-10", nil, map[string]float64{"clicks": 2}),
		row("2025-03-11", nil, map[string]float64{"clicks": 8}),
	}

	union := aggregate.BucketByDate(append(append([]domain.Record{}, r1...), r2...),
		"2025-03-10", "2025-03-12", []string{"clicks"})
	b1 := aggregate.BucketByDate(r1, "2025-03-10", "2025-03-12", []string{"clicks"})
	b2 := aggregate.BucketByDate(r2, "2025-03-10", "2025-03-12", []string{"clicks"})

	for i := range union {
		merged := b1[i].Metrics["clicks"] + b2[i].Metrics["clicks"]
		if union[i].Metrics["clicks"] != merged {
			t.Fatalf("day %s: union %v != merged %v", union[i].Date, union[i].Metrics["clicks"], merged)
		}
	}
}

func TestBucketByDate_InvalidBounds(t *testing.T) {
	if b := aggregate.BucketByDate(nil, "not-a-date", "2025-03-13", []string{"clicks"}); b != nil {
		t.Fatalf("expected nil for invalid start date")
	}
	if b := aggregate.BucketByDate(nil, "2025-03-13", "2025-03-10", []string{"clicks"}); b != nil {
		t.Fatalf("expected nil for end before start")
	}
}

// ------------------------------------------------------------
// GROUP BY
// ------------------------------------------------------------

func TestGroupBy_EncounterOrderAndTotals(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", map[string]string{"campaign": "b"}, map[string]float64{"cost": 10}),
		row("2025-01-01", map[string]string{"campaign": "a"}, map[string]float64{"cost": 5}),
		row("2025-01-02", map[string]string{"campaign": "b"}, map[string]float64{"cost": 3}),
	}

	groups := aggregate.GroupBy(rows, []string{"campaign"}, []string{"cost"})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "b" || groups[1].Key != "a" {
		t.Fatalf("expected encounter order b,a got %s,%s", groups[0].Key, groups[1].Key)
	}
	if groups[0].Totals["cost"] != 13 || groups[0].Count != 2 {
		t.Fatalf("unexpected totals for b: %+v", groups[0])
	}
}

func TestGroupBy_TupleKeyAndUnknownBucket(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", map[string]string{"source": "google", "medium": "cpc"}, map[string]float64{"sessions": 4}),
		row("2025-01-01", map[string]string{"source": "google"}, map[string]float64{"sessions": 1}),
		row("2025-01-01", nil, map[string]float64{"sessions": 2}),
	}

	groups := aggregate.GroupBy(rows, []string{"source", "medium"}, []string{"sessions"})
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Key != "google / cpc" {
		t.Fatalf("expected tuple key, got %s", groups[0].Key)
	}
	if groups[1].Key != "google / unknown" {
		t.Fatalf("missing dimension must land in unknown, got %s", groups[1].Key)
	}
	if groups[2].Key != "unknown / unknown" {
		t.Fatalf("expected unknown / unknown, got %s", groups[2].Key)
	}
}

// ------------------------------------------------------------
// DERIVED RATES
// ------------------------------------------------------------

// The skewed case from the charter: rows (1,100) and (9,10) give
// 10/110 ~= 9.09% from totals; averaging per-row rates would give 45.5%.
func TestDeriveRate_FromTotalsNotRowAverages(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", map[string]string{"campaign": "c1"}, map[string]float64{"clicks": 1, "impressions": 100}),
		row("2025-01-02", map[string]string{"campaign": "c1"}, map[string]float64{"clicks": 9, "impressions": 10}),
	}

	groups := aggregate.GroupBy(rows, []string{"campaign"}, []string{"clicks", "impressions"})
	aggregate.DeriveRatePercent(groups, "ctr", "clicks", "impressions")

	got := groups[0].Rates["ctr"]
	want := 100.0 * 10 / 110
	if !almostEqual(got, want) {
		t.Fatalf("expected ctr %.4f from totals, got %.4f", want, got)
	}
	if almostEqual(got, 45.5) {
		t.Fatalf("ctr must not be the average of per-row rates")
	}
}

func TestRatio_ZeroDenominator(t *testing.T) {
	if got := aggregate.Ratio(5, 0); got != 0 {
		t.Fatalf("expected 0 for zero denominator, got %v", got)
	}
	if got := aggregate.Percent(5, 0); got != 0 {
		t.Fatalf("expected 0%% for zero denominator, got %v", got)
	}
}

// ------------------------------------------------------------
// SORT / TOP N
// ------------------------------------------------------------

func TestSortByTotalDesc_StableTies(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", map[string]string{"c": "first"}, map[string]float64{"cost": 10}),
		row("2025-01-01", map[string]string{"c": "second"}, map[string]float64{"cost": 10}),
		row("2025-01-01", map[string]string{"c": "big"}, map[string]float64{"cost": 99}),
	}

	groups := aggregate.GroupBy(rows, []string{"c"}, []string{"cost"})
	aggregate.SortByTotalDesc(groups, "cost")

	if groups[0].Key != "big" {
		t.Fatalf("expected big first, got %s", groups[0].Key)
	}
	// Tie keeps encounter order.
	if groups[1].Key != "first" || groups[2].Key != "second" {
		t.Fatalf("expected stable tie order first,second got %s,%s", groups[1].Key, groups[2].Key)
	}

	top := aggregate.TopN(groups, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 groups after TopN, got %d", len(top))
	}
	if all := aggregate.TopN(groups, 10); len(all) != 3 {
		t.Fatalf("TopN beyond length must return everything, got %d", len(all))
	}
}

// ------------------------------------------------------------
// NUMERIC NORMALIZATION / HELPERS
// ------------------------------------------------------------

func TestRound2AndFromMicros(t *testing.T) {
	if got := aggregate.Round2(10.456); got != 10.46 {
		t.Fatalf("expected 10.46, got %v", got)
	}
	if got := aggregate.Round2(10.454); got != 10.45 {
		t.Fatalf("expected 10.45, got %v", got)
	}
	if got := aggregate.FromMicros(12340000); got != 12.34 {
		t.Fatalf("expected 12.34, got %v", got)
	}
}

func TestMissingNumericFieldCountsAsZero(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", nil, map[string]float64{"clicks": 3}),
		row("2025-01-01", nil, nil), // malformed row: no numeric fields
	}

	buckets := aggregate.BucketByDate(rows, "2025-01-01", "2025-01-01", []string{"clicks"})
	if buckets[0].Metrics["clicks"] != 3 {
		t.Fatalf("malformed row must count as zero, got %v", buckets[0].Metrics["clicks"])
	}
}

func TestDistinctHelpers(t *testing.T) {
	rows := []domain.Record{
		row("2025-01-01", map[string]string{"email": "a@x.com"}, nil),
		row("2025-01-01", map[string]string{"email": "a@x.com"}, nil),
		row("2025-01-02", map[string]string{"email": "b@x.com"}, nil),
	}

	if got := aggregate.CountDistinct(rows, "email"); got != 2 {
		t.Fatalf("expected 2 distinct emails, got %d", got)
	}
	perDay := aggregate.DistinctPerDate(rows, "email")
	if perDay["2025-01-01"] != 1 || perDay["2025-01-02"] != 1 {
		t.Fatalf("unexpected per-day distinct counts: %+v", perDay)
	}
}

func TestDayCount(t *testing.T) {
	if got := aggregate.DayCount("2025-01-01", "2025-01-04"); got != 4 {
		t.Fatalf("expected 4 days, got %d", got)
	}
	if got := aggregate.DayCount("2025-01-04", "2025-01-01"); got != 0 {
		t.Fatalf("expected 0 for inverted range, got %d", got)
	}
}
