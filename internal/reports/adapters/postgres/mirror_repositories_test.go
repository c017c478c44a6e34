package postgres

import (
	"context"
	"strings"
	"testing"

	"reporting-service/internal/reports/core/ports"
)

func TestAdsMirrorRepository_MapsRows(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "FROM ads_metrics_daily") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeRowScanner{rows: [][]any{
				{"2025-03-01", "c1", "Spring", "ENABLED", 10.0, 110.0, 7500000.0, 2.0},
			}}, nil
		},
	}

	repo := NewAdsMirrorRepository(db)

	rows, err := repo.FetchRows(context.Background(), ports.RowQuery{StartDate: "2025-03-01", EndDate: "2025-03-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if r.Dim("campaignId") != "c1" || r.Dim("status") != "ENABLED" {
		t.Errorf("unexpected dims: %+v", r.Dims)
	}
	// Cost stays in micros at the boundary; conversion happens in the
	// usecase before aggregation.
	if r.Num("costMicros") != 7500000.0 {
		t.Errorf("expected raw micros, got %v", r.Num("costMicros"))
	}
}

func TestAdsMirrorRepository_CampaignPushdown(t *testing.T) {
	db := &fakeDB{}
	repo := NewAdsMirrorRepository(db)

	_, err := repo.FetchRows(context.Background(), ports.RowQuery{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-05",
		Filters:   map[string]string{"campaignId": "c1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "campaign_id = $3") {
		t.Errorf("expected campaign filter in query: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 3 || db.lastArgs[2] != "c1" {
		t.Errorf("unexpected args: %v", db.lastArgs)
	}
}

func TestTrafficMirrorRepository_MapsRows(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "FROM traffic_daily") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeRowScanner{rows: [][]any{
				{"2025-03-01", "google", "organic", 100.0, 40.0, 110.0, 300.0, 19.0},
			}}, nil
		},
	}

	repo := NewTrafficMirrorRepository(db)

	rows, err := repo.FetchRows(context.Background(), ports.RowQuery{StartDate: "2025-03-01", EndDate: "2025-03-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Dim("source") != "google" || rows[0].Num("bounces") != 19 {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestSearchMirrorRepository_MapsRows(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "FROM search_terms_daily") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeRowScanner{rows: [][]any{
				{"2025-03-01", "red shoes", 30.0, 800.0, 5.0},
			}}, nil
		},
	}

	repo := NewSearchMirrorRepository(db)

	rows, err := repo.FetchRows(context.Background(), ports.RowQuery{StartDate: "2025-03-01", EndDate: "2025-03-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Dim("query") != "red shoes" || rows[0].Num("position") != 5 {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}
