package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the actor has no rights over the target
// resource. Controllers map it to 404 so resource existence is not leaked.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is the base error for business-rule violations. Every
// rule-specific conflict below wraps it, so errors.Is(err, ErrConflict)
// holds for all of them.
var ErrConflict = errors.New("conflict")

// ErrInvalidInput is returned when the request itself is malformed
// (bad dates, empty required fields, unknown status action).
var ErrInvalidInput = errors.New("invalid input")

// ErrTransient is returned when a storage transaction kept failing with
// serialization conflicts after retries. Callers may retry the operation.
var ErrTransient = errors.New("transient storage failure")

// Participation-request rule violations.
var (
	ErrOwnEventRequest         = fmt.Errorf("%w: initiator cannot request own event", ErrConflict)
	ErrEventNotPublished       = fmt.Errorf("%w: cannot request unpublished event", ErrConflict)
	ErrDuplicateRequest        = fmt.Errorf("%w: request already exists", ErrConflict)
	ErrParticipantLimitReached = fmt.Errorf("%w: participant limit reached", ErrConflict)
	ErrRequestAlreadyCanceled  = fmt.Errorf("%w: request already canceled", ErrConflict)
	ErrModerationNotRequired   = fmt.Errorf("%w: event does not require request moderation", ErrConflict)
	ErrRequestNotPending       = fmt.Errorf("%w: only pending requests can be moderated", ErrConflict)
	ErrForeignRequest          = fmt.Errorf("%w: request does not belong to this event", ErrConflict)
)
