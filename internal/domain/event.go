package domain

import (
	"context"
	"time"
)

// EventState is the publication state of an event. Only published events
// accept participation requests.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Event is the subset of an event relevant to participation and capacity.
// ConfirmedRequests counts confirmed participants against ParticipantLimit;
// a limit of 0 means unlimited.
type Event struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	InitiatorID       string     `json:"initiator_id"`
	State             EventState `json:"state"`
	ParticipantLimit  int        `json:"participant_limit"`
	RequestModeration bool       `json:"request_moderation"`
	ConfirmedRequests int        `json:"confirmed_requests"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ModerationBypassed reports whether new requests are confirmed immediately:
// either the organizer does not moderate, or capacity is unlimited.
func (e *Event) ModerationBypassed() bool {
	return !e.RequestModeration || e.ParticipantLimit == 0
}

// HasFreeSlot reports whether one more confirmation fits under the limit.
// Always true for unlimited events.
func (e *Event) HasFreeSlot() bool {
	return e.ParticipantLimit == 0 || e.ConfirmedRequests < e.ParticipantLimit
}

// EventRepository defines non-transactional read access to events.
// Capacity-mutating access goes through RequestTx instead.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetByIDAndInitiator returns ErrNotFound both when the event is absent
	// and when it is not owned by initiatorID.
	GetByIDAndInitiator(ctx context.Context, id, initiatorID string) (*Event, error)
}
