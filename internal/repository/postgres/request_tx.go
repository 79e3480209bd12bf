package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

// requestTx implements domain.RequestTx over an open *sql.Tx. The zero
// value is not usable; it is constructed by txRunner for each attempt.
type requestTx struct {
	tx *sql.Tx
}

func (t *requestTx) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `
		SELECT id, title, initiator_id, state, participant_limit, request_moderation, confirmed_requests, created_at
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	e := &domain.Event{}
	err := t.tx.QueryRowContext(ctx, query, eventID).Scan(
		&e.ID, &e.Title, &e.InitiatorID, &e.State,
		&e.ParticipantLimit, &e.RequestModeration, &e.ConfirmedRequests, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}
	return e, nil
}

func (t *requestTx) SetConfirmedCount(ctx context.Context, eventID string, count int) error {
	query := `UPDATE events SET confirmed_requests = $1 WHERE id = $2`
	result, err := t.tx.ExecContext(ctx, query, count, eventID)
	if err != nil {
		return fmt.Errorf("set confirmed count: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *requestTx) InsertRequest(ctx context.Context, req *domain.ParticipationRequest) error {
	query := `
		INSERT INTO participation_requests (id, event_id, requester_id, status, created)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.ExecContext(ctx, query, req.ID, req.EventID, req.RequesterID, req.Status, req.Created.Time)
	if err != nil {
		var pqErr *pq.Error
		// 23505 on the partial unique index over non-canceled requests.
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateRequest
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (t *requestTx) GetRequest(ctx context.Context, requestID string) (*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE id = $1
	`
	req := &domain.ParticipationRequest{}
	err := t.tx.QueryRowContext(ctx, query, requestID).
		Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created.Time)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

func (t *requestTx) HasActiveRequest(ctx context.Context, eventID, requesterID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participation_requests
			WHERE event_id = $1 AND requester_id = $2 AND status <> $3
		)
	`
	var exists bool
	err := t.tx.QueryRowContext(ctx, query, eventID, requesterID, domain.RequestStatusCanceled).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active request: %w", err)
	}
	return exists, nil
}

func (t *requestTx) ListRequestsByIDs(ctx context.Context, requestIDs []string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE id = ANY($1)
	`
	rows, err := t.tx.QueryContext(ctx, query, pq.Array(requestIDs))
	if err != nil {
		return nil, fmt.Errorf("list requests by ids: %w", err)
	}
	defer rows.Close()

	reqs := make([]*domain.ParticipationRequest, 0, len(requestIDs))
	for rows.Next() {
		req := &domain.ParticipationRequest{}
		if err := rows.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created.Time); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (t *requestTx) UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus) error {
	query := `UPDATE participation_requests SET status = $1 WHERE id = $2`
	result, err := t.tx.ExecContext(ctx, query, status, requestID)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *requestTx) UpdateRequestStatuses(ctx context.Context, requestIDs []string, status domain.RequestStatus) error {
	if len(requestIDs) == 0 {
		return nil
	}
	query := `UPDATE participation_requests SET status = $1 WHERE id = ANY($2)`
	_, err := t.tx.ExecContext(ctx, query, status, pq.Array(requestIDs))
	if err != nil {
		return fmt.Errorf("update request statuses: %w", err)
	}
	return nil
}

func (t *requestTx) RejectPendingExcept(ctx context.Context, eventID string, exclude []string) (int64, error) {
	query := `
		UPDATE participation_requests
		SET status = $1
		WHERE event_id = $2 AND status = $3 AND NOT (id = ANY($4))
	`
	result, err := t.tx.ExecContext(ctx, query,
		domain.RequestStatusRejected, eventID, domain.RequestStatusPending, pq.Array(exclude))
	if err != nil {
		return 0, fmt.Errorf("reject pending requests: %w", err)
	}
	return result.RowsAffected()
}
