package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

type StatsController struct {
	Logger  *slog.Logger
	Service domain.StatsService
}

func NewStatsController(logger *slog.Logger, svc domain.StatsService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// HitRequest is the request body for POST /hit.
type HitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// Validate implements helpers.Validator.
func (r *HitRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.App) == "" {
		errs = append(errs, "app is required")
	}
	if strings.TrimSpace(r.URI) == "" {
		errs = append(errs, "uri is required")
	}
	if strings.TrimSpace(r.IP) == "" {
		errs = append(errs, "ip is required")
	}
	if r.Timestamp == "" {
		errs = append(errs, "timestamp is required")
	}
	return errs
}

// RecordHit godoc
// @Summary Record an endpoint hit
// @Description Appends one page-view hit to the stats store. Hits are immutable facts; duplicates are resolved at query time via unique-ip counting.
// @Tags stats
// @Accept json
// @Produce json
// @Param body body controllers.HitRequest true "Hit record; timestamp format yyyy-MM-dd HH:mm:ss"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /hit [post]
func (c *StatsController) RecordHit(w http.ResponseWriter, r *http.Request) {
	var body HitRequest
	if !helpers.DecodeAndValidate(w, r, &body) {
		return
	}

	ts, err := domain.ParseDateTime(body.Timestamp)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	if err := c.Service.RecordHit(r.Context(), body.App, body.URI, body.IP, ts); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "record hit failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, nil)
}

// StatsSuccessResponse is the success envelope for GET /stats.
type StatsSuccessResponse struct {
	Data  []*domain.ViewStats `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GetStats godoc
// @Summary Query aggregated view statistics
// @Description Returns hit counts per (app, uri) inside the inclusive time window, ordered by count descending. With unique=true each distinct client IP is counted once per (app, uri). Without uris the aggregation covers all recorded URIs.
// @Tags stats
// @Produce json
// @Param start query string true "Window start, yyyy-MM-dd HH:mm:ss"
// @Param end query string true "Window end, yyyy-MM-dd HH:mm:ss"
// @Param uris query []string false "URIs to restrict the aggregation to"
// @Param unique query bool false "Count distinct IPs only" default(false)
// @Success 200 {object} controllers.StatsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats [get]
func (c *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := domain.ParseDateTime(q.Get("start"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "start: "+err.Error())
		return
	}
	end, err := domain.ParseDateTime(q.Get("end"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end: "+err.Error())
		return
	}

	unique := false
	if s := q.Get("unique"); s != "" {
		unique, err = strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unique must be a boolean")
			return
		}
	}

	filter := domain.StatsFilter{
		Start:  start,
		End:    end,
		URIs:   q["uris"],
		Unique: unique,
	}
	stats, err := c.Service.QueryStats(r.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "stats query failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
