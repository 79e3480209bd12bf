package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventboard/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	requestController *controllers.RequestController,
	statsController *controllers.StatsController,
	viewsController *controllers.ViewsController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Participation requests
	mux.HandleFunc("POST /users/{userID}/requests", requestController.CreateRequest)
	mux.HandleFunc("GET /users/{userID}/requests", requestController.ListMyRequests)
	mux.HandleFunc("PATCH /users/{userID}/requests/{requestID}/cancel", requestController.CancelRequest)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}/requests", requestController.ListEventRequests)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}/requests", requestController.UpdateRequestStatuses)

	// Views
	mux.HandleFunc("GET /events/{eventID}/views", viewsController.GetEventViews)

	// Stats server
	mux.HandleFunc("POST /hit", statsController.RecordHit)
	mux.HandleFunc("GET /stats", statsController.GetStats)

	// Operational
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
