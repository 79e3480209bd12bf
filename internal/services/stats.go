package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventboard/internal/domain"
	"eventboard/internal/metrics"
)

type statsService struct {
	hitRepo        domain.HitRepository
	contextTimeout time.Duration
}

// NewStatsService creates the hit recording and aggregation service.
func NewStatsService(hitRepo domain.HitRepository, timeout time.Duration) domain.StatsService {
	return &statsService{
		hitRepo:        hitRepo,
		contextTimeout: timeout,
	}
}

func (s *statsService) RecordHit(ctx context.Context, app, uri, ip string, timestamp time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	app = strings.TrimSpace(app)
	uri = strings.TrimSpace(uri)
	ip = strings.TrimSpace(ip)
	if app == "" {
		return fmt.Errorf("%w: app must not be empty", domain.ErrInvalidInput)
	}
	if uri == "" {
		return fmt.Errorf("%w: uri must not be empty", domain.ErrInvalidInput)
	}
	if ip == "" {
		return fmt.Errorf("%w: ip must not be empty", domain.ErrInvalidInput)
	}

	hit := &domain.EndpointHit{
		ID:        uuid.New().String(),
		App:       app,
		URI:       uri,
		IP:        ip,
		Timestamp: timestamp,
	}
	if err := s.hitRepo.Insert(ctx, hit); err != nil {
		return fmt.Errorf("record hit: %w", err)
	}
	metrics.HitsRecorded.Inc()
	return nil
}

func (s *statsService) QueryStats(ctx context.Context, filter domain.StatsFilter) ([]*domain.ViewStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Start.After(filter.End) {
		return nil, fmt.Errorf("%w: start must not be after end", domain.ErrInvalidInput)
	}

	stats, err := s.hitRepo.Aggregate(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	metrics.StatsQueries.WithLabelValues(strconv.FormatBool(filter.Unique)).Inc()
	if stats == nil {
		stats = []*domain.ViewStats{}
	}
	return stats, nil
}
