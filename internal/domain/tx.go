package domain

import "context"

// RequestTx exposes the storage operations available inside one capacity
// transaction. Implementations must make LockEvent take a row-level lock on
// the event so that every check-then-mutate sequence on the confirmed
// counter is serialized per event.
type RequestTx interface {
	// LockEvent reads the event under an exclusive row lock held until the
	// transaction ends.
	LockEvent(ctx context.Context, eventID string) (*Event, error)
	SetConfirmedCount(ctx context.Context, eventID string, count int) error

	// InsertRequest returns ErrDuplicateRequest when the one-active-request-
	// per-(event, requester) constraint is violated.
	InsertRequest(ctx context.Context, req *ParticipationRequest) error
	GetRequest(ctx context.Context, requestID string) (*ParticipationRequest, error)
	// HasActiveRequest reports whether a non-canceled request by requesterID
	// for eventID exists.
	HasActiveRequest(ctx context.Context, eventID, requesterID string) (bool, error)
	ListRequestsByIDs(ctx context.Context, requestIDs []string) ([]*ParticipationRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID string, status RequestStatus) error
	UpdateRequestStatuses(ctx context.Context, requestIDs []string, status RequestStatus) error
	// RejectPendingExcept rejects every pending request for the event whose
	// id is not in exclude, returning how many were rejected.
	RejectPendingExcept(ctx context.Context, eventID string, exclude []string) (int64, error)
}

// TxRunner runs fn inside a single storage transaction, committing when fn
// returns nil and rolling back otherwise. Serialization failures are retried
// a bounded number of times; when retries are exhausted the returned error
// wraps ErrTransient.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx RequestTx) error) error
}
