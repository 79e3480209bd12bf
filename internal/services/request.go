package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"eventboard/internal/domain"
	"eventboard/internal/metrics"
)

type requestService struct {
	txRunner       domain.TxRunner
	requestRepo    domain.RequestRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewRequestService creates the participation-request lifecycle engine.
// Every capacity-affecting operation runs inside one event-row-locked
// transaction supplied by the TxRunner.
func NewRequestService(
	txRunner domain.TxRunner,
	requestRepo domain.RequestRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		txRunner:       txRunner,
		requestRepo:    requestRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *requestService) Create(ctx context.Context, userID, eventID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	var req *domain.ParticipationRequest
	err = s.txRunner.InTx(ctx, func(tx domain.RequestTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.InitiatorID == userID {
			return domain.ErrOwnEventRequest
		}
		if event.State != domain.EventStatePublished {
			return domain.ErrEventNotPublished
		}
		active, err := tx.HasActiveRequest(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrDuplicateRequest
		}
		// The event row is locked, so this check cannot race with another
		// confirmation.
		if !event.HasFreeSlot() {
			return domain.ErrParticipantLimitReached
		}

		req = &domain.ParticipationRequest{
			ID:          uuid.New().String(),
			EventID:     eventID,
			RequesterID: userID,
			Status:      domain.RequestStatusPending,
			Created:     domain.NewDateTime(time.Now()),
		}
		if event.ModerationBypassed() {
			req.Status = domain.RequestStatusConfirmed
			if err := tx.SetConfirmedCount(ctx, eventID, event.ConfirmedRequests+1); err != nil {
				return err
			}
		}
		return tx.InsertRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	autoConfirmed := req.Status == domain.RequestStatusConfirmed
	metrics.RequestsCreated.WithLabelValues(strconv.FormatBool(autoConfirmed)).Inc()
	return req, nil
}

func (s *requestService) Cancel(ctx context.Context, userID, requestID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var req *domain.ParticipationRequest
	err := s.txRunner.InTx(ctx, func(tx domain.RequestTx) error {
		var err error
		req, err = tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.RequesterID != userID {
			return domain.ErrForbidden
		}

		event, err := tx.LockEvent(ctx, req.EventID)
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		// Re-read under the event lock; the status may have changed while
		// we were acquiring it.
		req, err = tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status == domain.RequestStatusCanceled {
			return domain.ErrRequestAlreadyCanceled
		}
		if req.Status == domain.RequestStatusConfirmed {
			if err := tx.SetConfirmedCount(ctx, event.ID, event.ConfirmedRequests-1); err != nil {
				return err
			}
		}
		if err := tx.UpdateRequestStatus(ctx, requestID, domain.RequestStatusCanceled); err != nil {
			return err
		}
		req.Status = domain.RequestStatusCanceled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestService) ListForRequester(ctx context.Context, userID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.requestRepo.ListByRequesterID(ctx, userID)
}

func (s *requestService) ListForEvent(ctx context.Context, initiatorID, eventID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.requestRepo.ListByEventID(ctx, eventID)
}

func (s *requestService) UpdateStatuses(ctx context.Context, initiatorID, eventID string, requestIDs []string, action domain.StatusAction) (*domain.StatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if action != domain.StatusActionConfirm && action != domain.StatusActionReject {
		return nil, fmt.Errorf("%w: unknown status action %q", domain.ErrInvalidInput, action)
	}
	if len(requestIDs) == 0 {
		return nil, fmt.Errorf("%w: request_ids must not be empty", domain.ErrInvalidInput)
	}
	// A repeated id would consume one capacity slot per occurrence.
	seen := make(map[string]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate request id %q", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	result := &domain.StatusUpdateResult{
		ConfirmedRequests: []*domain.ParticipationRequest{},
		RejectedRequests:  []*domain.ParticipationRequest{},
	}
	err := s.txRunner.InTx(ctx, func(tx domain.RequestTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.InitiatorID != initiatorID {
			// A foreign event looks absent to its non-owner.
			return domain.ErrNotFound
		}
		if event.ModerationBypassed() {
			return domain.ErrModerationNotRequired
		}

		batch, err := s.loadBatch(ctx, tx, eventID, requestIDs)
		if err != nil {
			return err
		}

		switch action {
		case domain.StatusActionReject:
			return s.rejectBatch(ctx, tx, batch, result)
		default:
			return s.confirmBatch(ctx, tx, event, batch, result)
		}
	})
	if err != nil {
		return nil, err
	}

	metrics.RequestsModerated.WithLabelValues(string(domain.RequestStatusConfirmed)).
		Add(float64(len(result.ConfirmedRequests)))
	metrics.RequestsModerated.WithLabelValues(string(domain.RequestStatusRejected)).
		Add(float64(len(result.RejectedRequests)))
	return result, nil
}

// loadBatch fetches the referenced requests and verifies the whole batch is
// moderatable before anything is mutated: every id must exist, belong to the
// event, and be pending.
func (s *requestService) loadBatch(ctx context.Context, tx domain.RequestTx, eventID string, requestIDs []string) ([]*domain.ParticipationRequest, error) {
	reqs, err := tx.ListRequestsByIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.ParticipationRequest, len(reqs))
	for _, r := range reqs {
		byID[r.ID] = r
	}

	// Confirmation order is the order the caller gave.
	batch := make([]*domain.ParticipationRequest, 0, len(requestIDs))
	for _, id := range requestIDs {
		r, ok := byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if r.EventID != eventID {
			return nil, domain.ErrForeignRequest
		}
		if r.Status != domain.RequestStatusPending {
			return nil, domain.ErrRequestNotPending
		}
		batch = append(batch, r)
	}
	return batch, nil
}

func (s *requestService) rejectBatch(ctx context.Context, tx domain.RequestTx, batch []*domain.ParticipationRequest, result *domain.StatusUpdateResult) error {
	ids := make([]string, len(batch))
	for i, r := range batch {
		ids[i] = r.ID
	}
	if err := tx.UpdateRequestStatuses(ctx, ids, domain.RequestStatusRejected); err != nil {
		return err
	}
	for _, r := range batch {
		r.Status = domain.RequestStatusRejected
		result.RejectedRequests = append(result.RejectedRequests, r)
	}
	return nil
}

// confirmBatch confirms requests in order until the participant limit is
// reached, rejects the remainder of the batch, and cascade-rejects every
// other pending request for the event once the limit is hit. The batch's own
// rejections are excluded from the cascade so they are counted exactly once.
func (s *requestService) confirmBatch(ctx context.Context, tx domain.RequestTx, event *domain.Event, batch []*domain.ParticipationRequest, result *domain.StatusUpdateResult) error {
	confirmed := event.ConfirmedRequests
	var confirmIDs, rejectIDs []string
	for _, r := range batch {
		if confirmed < event.ParticipantLimit {
			confirmed++
			confirmIDs = append(confirmIDs, r.ID)
			r.Status = domain.RequestStatusConfirmed
			result.ConfirmedRequests = append(result.ConfirmedRequests, r)
		} else {
			rejectIDs = append(rejectIDs, r.ID)
			r.Status = domain.RequestStatusRejected
			result.RejectedRequests = append(result.RejectedRequests, r)
		}
	}

	if err := tx.UpdateRequestStatuses(ctx, confirmIDs, domain.RequestStatusConfirmed); err != nil {
		return err
	}
	if err := tx.UpdateRequestStatuses(ctx, rejectIDs, domain.RequestStatusRejected); err != nil {
		return err
	}
	if err := tx.SetConfirmedCount(ctx, event.ID, confirmed); err != nil {
		return err
	}

	if confirmed >= event.ParticipantLimit {
		batchIDs := make([]string, len(batch))
		for i, r := range batch {
			batchIDs[i] = r.ID
		}
		n, err := tx.RejectPendingExcept(ctx, event.ID, batchIDs)
		if err != nil {
			return err
		}
		metrics.CascadeRejections.Add(float64(n))
	}
	return nil
}
