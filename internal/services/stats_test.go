package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventboard/internal/domain"
)

type mockHitRepository struct {
	inserted   []*domain.EndpointHit
	insertErr  error
	aggregated []*domain.ViewStats
	aggErr     error
	lastFilter domain.StatsFilter
}

func (m *mockHitRepository) Insert(ctx context.Context, hit *domain.EndpointHit) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, hit)
	return nil
}

func (m *mockHitRepository) Aggregate(ctx context.Context, filter domain.StatsFilter) ([]*domain.ViewStats, error) {
	m.lastFilter = filter
	if m.aggErr != nil {
		return nil, m.aggErr
	}
	return m.aggregated, nil
}

func TestStatsService_RecordHit(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("persists the hit with a generated id", func(t *testing.T) {
		repo := &mockHitRepository{}
		svc := NewStatsService(repo, time.Second)

		if err := svc.RecordHit(ctx, "eventboard", "/events/1", "192.163.0.1", ts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.inserted) != 1 {
			t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
		}
		hit := repo.inserted[0]
		if hit.ID == "" {
			t.Fatal("expected a generated hit id")
		}
		if hit.App != "eventboard" || hit.URI != "/events/1" || hit.IP != "192.163.0.1" {
			t.Fatalf("unexpected hit: %+v", hit)
		}
		if !hit.Timestamp.Equal(ts) {
			t.Fatalf("expected timestamp %v, got %v", ts, hit.Timestamp)
		}
	})

	t.Run("trims every field", func(t *testing.T) {
		repo := &mockHitRepository{}
		svc := NewStatsService(repo, time.Second)

		if err := svc.RecordHit(ctx, "  eventboard  ", " /events/1 ", " 10.0.0.1 ", ts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		hit := repo.inserted[0]
		if hit.App != "eventboard" || hit.URI != "/events/1" || hit.IP != "10.0.0.1" {
			t.Fatalf("expected trimmed fields, got %+v", hit)
		}
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		repo := &mockHitRepository{}
		svc := NewStatsService(repo, time.Second)

		for _, args := range [][3]string{
			{"   ", "/events/1", "10.0.0.1"},
			{"eventboard", "", "10.0.0.1"},
			{"eventboard", "   ", "10.0.0.1"},
			{"eventboard", "/events/1", ""},
			{"eventboard", "/events/1", "   "},
		} {
			err := svc.RecordHit(ctx, args[0], args[1], args[2], ts)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("args %v: expected ErrInvalidInput, got %v", args, err)
			}
		}
		if len(repo.inserted) != 0 {
			t.Fatal("invalid hits must not be persisted")
		}
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		repo := &mockHitRepository{insertErr: errors.New("connection reset")}
		svc := NewStatsService(repo, time.Second)

		if err := svc.RecordHit(ctx, "eventboard", "/events/1", "10.0.0.1", ts); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestStatsService_QueryStats(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("delegates the filter to the repository", func(t *testing.T) {
		want := []*domain.ViewStats{{App: "eventboard", URI: "/events/1", Hits: 7}}
		repo := &mockHitRepository{aggregated: want}
		svc := NewStatsService(repo, time.Second)

		filter := domain.StatsFilter{Start: start, End: end, URIs: []string{"/events/1"}, Unique: true}
		got, err := svc.QueryStats(ctx, filter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Hits != 7 {
			t.Fatalf("unexpected stats: %+v", got)
		}
		if !repo.lastFilter.Unique || len(repo.lastFilter.URIs) != 1 {
			t.Fatalf("filter not passed through: %+v", repo.lastFilter)
		}
	})

	t.Run("start after end is invalid", func(t *testing.T) {
		svc := NewStatsService(&mockHitRepository{}, time.Second)

		_, err := svc.QueryStats(ctx, domain.StatsFilter{Start: end, End: start})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("equal bounds are allowed", func(t *testing.T) {
		svc := NewStatsService(&mockHitRepository{}, time.Second)

		got, err := svc.QueryStats(ctx, domain.StatsFilter{Start: start, End: start})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected an empty slice, not nil")
		}
	})

	t.Run("nil aggregate becomes empty slice", func(t *testing.T) {
		svc := NewStatsService(&mockHitRepository{}, time.Second)

		got, err := svc.QueryStats(ctx, domain.StatsFilter{Start: start, End: end})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice, got %v", got)
		}
	})
}
