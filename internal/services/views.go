package services

import (
	"context"
	"log/slog"
	"time"

	"eventboard/internal/domain"
)

// viewCountWindow is half of the "all time" query window. The stats server
// requires an explicit range, so view counts ask for now ± 100 years.
const viewCountWindow = 100

type viewsService struct {
	client domain.StatsClient
	app    string
	logger *slog.Logger
}

// NewViewsService creates the view-count decorator. Every stats failure is
// logged and swallowed: a missing view count renders as 0, it never fails
// the caller.
func NewViewsService(client domain.StatsClient, app string, logger *slog.Logger) domain.ViewsService {
	return &viewsService{
		client: client,
		app:    app,
		logger: logger,
	}
}

func eventURI(eventID string) string {
	return "/events/" + eventID
}

func (s *viewsService) EventViews(ctx context.Context, eventID string) int64 {
	now := time.Now()
	filter := domain.StatsFilter{
		Start:  now.AddDate(-viewCountWindow, 0, 0),
		End:    now.AddDate(viewCountWindow, 0, 0),
		URIs:   []string{eventURI(eventID)},
		Unique: true,
	}
	stats, err := s.client.Stats(ctx, filter)
	if err != nil {
		s.logger.Warn("stats query failed, counting 0 views", "event_id", eventID, "err", err)
		return 0
	}
	if len(stats) == 0 {
		return 0
	}
	return stats[0].Hits
}

func (s *viewsService) RecordEventView(ctx context.Context, eventID, ip string) {
	hit := &domain.EndpointHit{
		App:       s.app,
		URI:       eventURI(eventID),
		IP:        ip,
		Timestamp: time.Now(),
	}
	if err := s.client.Hit(ctx, hit); err != nil {
		s.logger.Warn("failed to send view hit", "event_id", eventID, "err", err)
	}
}
