package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventboard/internal/domain"
)

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{
		DB: db,
	}
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE id = $1
	`
	req := &domain.ParticipationRequest{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created.Time)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

func (r *requestRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE event_id = $1
		ORDER BY created
	`
	return r.list(ctx, query, eventID)
}

func (r *requestRepository) ListByRequesterID(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE requester_id = $1
		ORDER BY created
	`
	return r.list(ctx, query, requesterID)
}

func (r *requestRepository) list(ctx context.Context, query string, arg any) ([]*domain.ParticipationRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	reqs := make([]*domain.ParticipationRequest, 0)
	for rows.Next() {
		req := &domain.ParticipationRequest{}
		if err := rows.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created.Time); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
