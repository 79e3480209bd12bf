package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *RequestController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, domain.ErrForbidden) &&
		!errors.Is(err, domain.ErrConflict) &&
		!errors.Is(err, domain.ErrInvalidInput) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteDomainError(w, err)
}

// RequestSuccessResponse is the success envelope for single-request endpoints.
type RequestSuccessResponse struct {
	Data  *domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// RequestListSuccessResponse is the success envelope for request-list endpoints.
type RequestListSuccessResponse struct {
	Data  []*domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// CreateRequest godoc
// @Summary File a participation request
// @Description Creates a participation request by the user for the event given in the eventId query parameter. The request starts PENDING and is confirmed immediately when the event does not moderate requests or has no participant limit.
// @Tags requests
// @Produce json
// @Param userID path string true "Requester ID (UUID)"
// @Param eventId query string true "Event ID (UUID)"
// @Success 201 {object} controllers.RequestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{userID}/requests [post]
func (c *RequestController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventId")
		return
	}
	if !helpers.IsUUID(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventId")
		return
	}

	req, err := c.Service.Create(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, req)
}

// ListMyRequests godoc
// @Summary List the user's participation requests
// @Description Returns every participation request the user has made, in any status.
// @Tags requests
// @Produce json
// @Param userID path string true "Requester ID (UUID)"
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userID}/requests [get]
func (c *RequestController) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}

	reqs, err := c.Service.ListForRequester(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// CancelRequest godoc
// @Summary Cancel the user's own participation request
// @Description Cancels the request. Canceling a confirmed request frees one capacity slot on the event. A request that is already canceled cannot be canceled again.
// @Tags requests
// @Produce json
// @Param userID path string true "Requester ID (UUID)"
// @Param requestID path string true "Request ID (UUID)"
// @Success 200 {object} controllers.RequestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{userID}/requests/{requestID}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	requestID, ok := helpers.PathUUID(w, r, "requestID")
	if !ok {
		return
	}

	req, err := c.Service.Cancel(r.Context(), userID, requestID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, req)
}

// ListEventRequests godoc
// @Summary List participation requests for an owned event
// @Description Organizer-only view of all requests for an event the user initiated.
// @Tags requests
// @Produce json
// @Param userID path string true "Initiator ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userID}/events/{eventID}/requests [get]
func (c *RequestController) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}

	reqs, err := c.Service.ListForEvent(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// UpdateRequestStatusesRequest is the request body for PATCH /users/{userID}/events/{eventID}/requests.
type UpdateRequestStatusesRequest struct {
	RequestIDs []string `json:"request_ids"`
	Status     string   `json:"status"`
}

// Validate implements helpers.Validator.
func (r *UpdateRequestStatusesRequest) Validate() []string {
	var errs []string
	if len(r.RequestIDs) == 0 {
		errs = append(errs, "request_ids is required")
	}
	for _, id := range r.RequestIDs {
		if !helpers.IsUUID(id) {
			errs = append(errs, "request_ids must be UUIDs")
			break
		}
	}
	if r.Status != string(domain.StatusActionConfirm) && r.Status != string(domain.StatusActionReject) {
		errs = append(errs, "status must be CONFIRMED or REJECTED")
	}
	return errs
}

// StatusUpdateSuccessResponse is the success envelope for bulk moderation.
type StatusUpdateSuccessResponse struct {
	Data  *domain.StatusUpdateResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// UpdateRequestStatuses godoc
// @Summary Bulk confirm or reject pending requests
// @Description Applies the action to the listed pending requests of an owned, moderated event, in the given order. Confirmations stop at the participant limit; the rest of the batch is rejected, and once the limit is reached every other pending request of the event is rejected as well.
// @Tags requests
// @Accept json
// @Produce json
// @Param userID path string true "Initiator ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.UpdateRequestStatusesRequest true "Request ids and action"
// @Success 200 {object} controllers.StatusUpdateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{userID}/events/{eventID}/requests [patch]
func (c *RequestController) UpdateRequestStatuses(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}

	var body UpdateRequestStatusesRequest
	if !helpers.DecodeAndValidate(w, r, &body) {
		return
	}

	result, err := c.Service.UpdateStatuses(r.Context(), userID, eventID, body.RequestIDs, domain.StatusAction(body.Status))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
