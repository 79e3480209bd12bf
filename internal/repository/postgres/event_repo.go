package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventboard/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, initiator_id, state, participant_limit, request_moderation, confirmed_requests, created_at`

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByIDAndInitiator(ctx context.Context, id, initiatorID string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND initiator_id = $2
	`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id, initiatorID))
}

func scanEvent(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.InitiatorID, &e.State,
		&e.ParticipantLimit, &e.RequestModeration, &e.ConfirmedRequests, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return e, nil
}
