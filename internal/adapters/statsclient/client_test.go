package statsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsHTTPClient_Hit(t *testing.T) {
	ctx := context.Background()
	hit := &domain.EndpointHit{
		App:       "eventboard",
		URI:       "/events/1",
		IP:        "192.163.0.1",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("posts the hit in the fixed timestamp layout", func(t *testing.T) {
		var received map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/hit", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client())
		require.NoError(t, client.Hit(ctx, hit))
		assert.Equal(t, "eventboard", received["app"])
		assert.Equal(t, "/events/1", received["uri"])
		assert.Equal(t, "192.163.0.1", received["ip"])
		assert.Equal(t, "2025-06-01 12:00:00", received["timestamp"])
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client())
		err := client.Hit(ctx, hit)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unreachable server is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := New(srv.URL, nil)
		require.Error(t, client.Hit(ctx, hit))
	})
}

func TestStatsHTTPClient_Stats(t *testing.T) {
	ctx := context.Background()
	filter := domain.StatsFilter{
		Start:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		URIs:   []string{"/events/1", "/events/2"},
		Unique: true,
	}

	t.Run("encodes the filter and decodes the envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/stats", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "2025-06-01 00:00:00", q.Get("start"))
			assert.Equal(t, "2025-06-02 00:00:00", q.Get("end"))
			assert.Equal(t, "true", q.Get("unique"))
			assert.Equal(t, []string{"/events/1", "/events/2"}, q["uris"])

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"app": "eventboard", "uri": "/events/1", "hits": 5},
				},
				"error": nil,
			})
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client())
		stats, err := client.Stats(ctx, filter)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, "/events/1", stats[0].URI)
		assert.Equal(t, int64(5), stats[0].Hits)
	})

	t.Run("error envelope becomes an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"data":  nil,
				"error": map[string]string{"code": "bad_request", "message": "start must not be after end"},
			})
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client())
		_, err := client.Stats(ctx, filter)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start must not be after end")
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := New(srv.URL, srv.Client())
		_, err := client.Stats(ctx, filter)
		require.Error(t, err)
	})

	t.Run("trailing slash in base url is tolerated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/stats", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}, "error": nil})
		}))
		defer srv.Close()

		client := New(srv.URL+"/", srv.Client())
		stats, err := client.Stats(ctx, filter)
		require.NoError(t, err)
		require.Empty(t, stats)
	})
}
