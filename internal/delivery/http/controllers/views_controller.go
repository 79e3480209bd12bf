package controllers

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// ViewsController is the view-count surface used by event browsing. It is
// fail-open end to end: a hit that cannot be recorded or a count that cannot
// be fetched never turns into a client-facing error.
type ViewsController struct {
	Logger  *slog.Logger
	Service domain.ViewsService
}

func NewViewsController(logger *slog.Logger, svc domain.ViewsService) *ViewsController {
	return &ViewsController{
		Logger:  logger,
		Service: svc,
	}
}

// EventViewsSuccessResponse is the success envelope for GET /events/{eventID}/views.
type EventViewsSuccessResponse struct {
	Data struct {
		Views int64 `json:"views"`
	} `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventViews godoc
// @Summary Get the unique view count of an event
// @Description Records a view hit for the calling client and returns the all-time unique-visitor count of the event page. Stats-service failures count as 0 views.
// @Tags views
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventViewsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/{eventID}/views [get]
func (c *ViewsController) GetEventViews(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}

	c.Service.RecordEventView(r.Context(), eventID, clientIP(r))
	views := c.Service.EventViews(r.Context(), eventID)

	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]int64{"views": views})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}
