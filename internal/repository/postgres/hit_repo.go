package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

type hitRepository struct {
	DB *sql.DB
}

// NewHitRepository returns the append-only stats store. Hits are inserted
// once and never updated; deduplication happens at query time.
func NewHitRepository(db *sql.DB) domain.HitRepository {
	return &hitRepository{
		DB: db,
	}
}

func (r *hitRepository) Insert(ctx context.Context, hit *domain.EndpointHit) error {
	query := `
		INSERT INTO endpoint_hits (id, app, uri, ip, ts)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, hit.ID, hit.App, hit.URI, hit.IP, hit.Timestamp)
	if err != nil {
		return fmt.Errorf("insert hit: %w", err)
	}
	return nil
}

func (r *hitRepository) Aggregate(ctx context.Context, filter domain.StatsFilter) ([]*domain.ViewStats, error) {
	countExpr := "COUNT(ip)"
	if filter.Unique {
		countExpr = "COUNT(DISTINCT ip)"
	}

	// BETWEEN keeps both window ends inclusive.
	query := `
		SELECT app, uri, ` + countExpr + ` AS hits
		FROM endpoint_hits
		WHERE ts BETWEEN $1 AND $2
	`
	args := []any{filter.Start, filter.End}
	if len(filter.URIs) > 0 {
		query += ` AND uri = ANY($3)`
		args = append(args, pq.Array(filter.URIs))
	}
	query += `
		GROUP BY app, uri
		ORDER BY hits DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate hits: %w", err)
	}
	defer rows.Close()

	stats := make([]*domain.ViewStats, 0)
	for rows.Next() {
		vs := &domain.ViewStats{}
		if err := rows.Scan(&vs.App, &vs.URI, &vs.Hits); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		stats = append(stats, vs)
	}
	return stats, rows.Err()
}
