package domain

import (
	"context"
	"time"
)

// EndpointHit is one recorded visit to a URI by a client IP. Hits are
// append-only facts: written once, never mutated or deleted.
type EndpointHit struct {
	ID        string    `json:"-"`
	App       string    `json:"app"`
	URI       string    `json:"uri"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"-"`
}

// ViewStats is a derived aggregate over hits, grouped by (app, uri).
// It is computed on demand and never persisted.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsFilter selects hits for aggregation. The window is inclusive on both
// ends. An empty URIs slice means all URIs. Unique counts each distinct IP
// once per (app, uri).
type StatsFilter struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}

// HitRepository is the append-only stats store.
type HitRepository interface {
	Insert(ctx context.Context, hit *EndpointHit) error
	Aggregate(ctx context.Context, filter StatsFilter) ([]*ViewStats, error)
}

// StatsService records hits and answers windowed aggregate queries.
type StatsService interface {
	RecordHit(ctx context.Context, app, uri, ip string, timestamp time.Time) error
	// QueryStats returns aggregates ordered by hit count descending.
	// Returns ErrInvalidInput when filter.Start is after filter.End.
	QueryStats(ctx context.Context, filter StatsFilter) ([]*ViewStats, error)
}

// StatsClient talks to a stats server over HTTP. It mirrors StatsService
// from the consumer side.
type StatsClient interface {
	Hit(ctx context.Context, hit *EndpointHit) error
	Stats(ctx context.Context, filter StatsFilter) ([]*ViewStats, error)
}

// ViewsService decorates events with view counts. Stats failures never
// propagate: telemetry is not worth failing a page for.
type ViewsService interface {
	// EventViews returns the unique all-time view count for the event,
	// or 0 when the stats server is unreachable or returned nothing.
	EventViews(ctx context.Context, eventID string) int64
	// RecordEventView sends a view hit for the event, best effort.
	RecordEventView(ctx context.Context, eventID, ip string)
}
