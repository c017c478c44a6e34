package postgres

import (
	"context"
	"fmt"

	"reporting-service/internal/reports/core/domain"
	"reporting-service/internal/reports/core/ports"
)

// The vendor mirror tables hold one row per (date, dimension) slice,
// synced from the vendor exports out of band. Each repository maps its
// table into normalized Records; filters beyond the pushed-down ones
// stay with the usecases.

// AdsMirrorRepository reads ads_metrics_daily.
type AdsMirrorRepository struct {
	db DB
}

func NewAdsMirrorRepository(db DB) *AdsMirrorRepository {
	return &AdsMirrorRepository{db: db}
}

var _ ports.AdsSource = (*AdsMirrorRepository)(nil)

func (r *AdsMirrorRepository) FetchRows(ctx context.Context, q ports.RowQuery) ([]domain.Record, error) {
	where := "date BETWEEN $1 AND $2"
	args := []any{q.StartDate, q.EndDate}

	if id, ok := q.Filters["campaignId"]; ok && id != "" {
		where += fmt.Sprintf(" AND campaign_id = $%d", len(args)+1)
		args = append(args, id)
	}

	query := `
SELECT
    date::text,
    campaign_id,
    COALESCE(campaign_name, ''),
    COALESCE(status, ''),
    clicks,
    impressions,
    cost_micros,
    conversions
FROM ads_metrics_daily
WHERE ` + where + `
ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		var date, id, name, status string
		var clicks, impressions, costMicros, conversions float64

		if err := rows.Scan(&date, &id, &name, &status, &clicks, &impressions, &costMicros, &conversions); err != nil {
			return nil, err
		}

		out = append(out, domain.Record{
			Date: date,
			Dims: map[string]string{
				"campaignId":   id,
				"campaignName": name,
				"status":       status,
			},
			Nums: map[string]float64{
				"clicks":      clicks,
				"impressions": impressions,
				"costMicros":  costMicros,
				"conversions": conversions,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TrafficMirrorRepository reads traffic_daily.
type TrafficMirrorRepository struct {
	db DB
}

func NewTrafficMirrorRepository(db DB) *TrafficMirrorRepository {
	return &TrafficMirrorRepository{db: db}
}

var _ ports.TrafficSource = (*TrafficMirrorRepository)(nil)

func (r *TrafficMirrorRepository) FetchRows(ctx context.Context, q ports.RowQuery) ([]domain.Record, error) {
	query := `
SELECT
    date::text,
    COALESCE(source, ''),
    COALESCE(medium, ''),
    users,
    new_users,
    sessions,
    page_views,
    bounces
FROM traffic_daily
WHERE date BETWEEN $1 AND $2
ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		var date, source, medium string
		var users, newUsers, sessions, pageViews, bounces float64

		if err := rows.Scan(&date, &source, &medium, &users, &newUsers, &sessions, &pageViews, &bounces); err != nil {
			return nil, err
		}

		out = append(out, domain.Record{
			Date: date,
			Dims: map[string]string{
				"source": source,
				"medium": medium,
			},
			Nums: map[string]float64{
				"users":     users,
				"newUsers":  newUsers,
				"sessions":  sessions,
				"pageViews": pageViews,
				"bounces":   bounces,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchMirrorRepository reads search_terms_daily.
type SearchMirrorRepository struct {
	db DB
}

func NewSearchMirrorRepository(db DB) *SearchMirrorRepository {
	return &SearchMirrorRepository{db: db}
}

var _ ports.SearchSource = (*SearchMirrorRepository)(nil)

func (r *SearchMirrorRepository) FetchRows(ctx context.Context, q ports.RowQuery) ([]domain.Record, error) {
	query := `
SELECT
    date::text,
    query,
    clicks,
    impressions,
    position
FROM search_terms_daily
WHERE date BETWEEN $1 AND $2
ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		var date, term string
		var clicks, impressions, position float64

		if err := rows.Scan(&date, &term, &clicks, &impressions, &position); err != nil {
			return nil, err
		}

		out = append(out, domain.Record{
			Date: date,
			Dims: map[string]string{"query": term},
			Nums: map[string]float64{
				"clicks":      clicks,
				"impressions": impressions,
				"position":    position,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
