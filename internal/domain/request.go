package domain

import "context"

// RequestStatus is the state of a participation request.
//
// PENDING is initial. PENDING may move to CONFIRMED, REJECTED, or CANCELED;
// CONFIRMED may move to CANCELED. REJECTED and CANCELED are terminal.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// StatusAction is the organizer's bulk moderation action.
type StatusAction string

const (
	StatusActionConfirm StatusAction = "CONFIRMED"
	StatusActionReject  StatusAction = "REJECTED"
)

// ParticipationRequest is a user's request to participate in an event.
// Requests are never deleted; terminal states are kept for history.
type ParticipationRequest struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event"`
	RequesterID string        `json:"requester"`
	Status      RequestStatus `json:"status"`
	Created     DateTime      `json:"created"`
}

// StatusUpdateResult partitions the requests touched by a single bulk
// moderation call. Requests cascade-rejected outside the batch are not
// included.
type StatusUpdateResult struct {
	ConfirmedRequests []*ParticipationRequest `json:"confirmed_requests"`
	RejectedRequests  []*ParticipationRequest `json:"rejected_requests"`
}

// RequestRepository defines non-transactional read access to participation
// requests. All writes go through RequestTx.
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*ParticipationRequest, error)
	ListByEventID(ctx context.Context, eventID string) ([]*ParticipationRequest, error)
	ListByRequesterID(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
}

// RequestService is the participation-request lifecycle engine.
type RequestService interface {
	// Create files a request by userID for eventID. The request starts
	// PENDING and is auto-confirmed (with the event counter incremented)
	// when the event bypasses moderation.
	Create(ctx context.Context, userID, eventID string) (*ParticipationRequest, error)
	// Cancel cancels the caller's own request. Canceling a confirmed
	// request frees one capacity slot.
	Cancel(ctx context.Context, userID, requestID string) (*ParticipationRequest, error)
	// ListForRequester returns all requests made by the user, any status.
	ListForRequester(ctx context.Context, userID string) ([]*ParticipationRequest, error)
	// ListForEvent is the organizer's view of all requests for an event
	// they own.
	ListForEvent(ctx context.Context, initiatorID, eventID string) ([]*ParticipationRequest, error)
	// UpdateStatuses applies a bulk confirm/reject to the given pending
	// requests, in the order given. Confirmations stop at the participant
	// limit; the remainder of the batch is rejected, and once the limit is
	// reached every other pending request for the event is cascade-rejected.
	UpdateStatuses(ctx context.Context, initiatorID, eventID string, requestIDs []string, action StatusAction) (*StatusUpdateResult, error)
}
