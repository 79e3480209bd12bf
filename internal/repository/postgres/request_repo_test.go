package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventboard/internal/domain"
)

func requestRows(reqs ...*domain.ParticipationRequest) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "event_id", "requester_id", "status", "created"})
	for _, r := range reqs {
		rows.AddRow(r.ID, r.EventID, r.RequesterID, r.Status, r.Created.Time)
	}
	return rows
}

func TestRequestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	req := &domain.ParticipationRequest{
		ID:          "req-uuid-1",
		EventID:     "event-uuid-1",
		RequesterID: "user-uuid-1",
		Status:      domain.RequestStatusPending,
		Created:     domain.DateTime{Time: time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)},
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM participation_requests`).
					WithArgs("req-uuid-1").
					WillReturnRows(requestRows(req))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM participation_requests`).
					WithArgs("req-uuid-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM participation_requests`).
					WithArgs("req-uuid-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			got, err := repo.GetByID(ctx, "req-uuid-1")
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, req.ID, got.ID)
				require.Equal(t, domain.RequestStatusPending, got.Status)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	reqs := []*domain.ParticipationRequest{
		{ID: "req-1", EventID: "event-1", RequesterID: "user-1", Status: domain.RequestStatusPending, Created: domain.DateTime{Time: created}},
		{ID: "req-2", EventID: "event-1", RequesterID: "user-2", Status: domain.RequestStatusConfirmed, Created: domain.DateTime{Time: created.Add(time.Minute)}},
	}

	t.Run("returns requests ordered by created", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM participation_requests WHERE event_id = \$1 ORDER BY created`).
			WithArgs("event-1").
			WillReturnRows(requestRows(reqs...))

		repo := NewRequestRepository(db)
		got, err := repo.ListByEventID(ctx, "event-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "req-1", got[0].ID)
		require.Equal(t, "req-2", got[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no requests yields empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM participation_requests`).
			WithArgs("event-1").
			WillReturnRows(requestRows())

		repo := NewRequestRepository(db)
		got, err := repo.ListByEventID(ctx, "event-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepository_ListByRequesterID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	req := &domain.ParticipationRequest{
		ID:          "req-1",
		EventID:     "event-1",
		RequesterID: "user-1",
		Status:      domain.RequestStatusCanceled,
		Created:     domain.DateTime{Time: time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)},
	}
	mock.ExpectQuery(`SELECT (.+) FROM participation_requests WHERE requester_id = \$1 ORDER BY created`).
		WithArgs("user-1").
		WillReturnRows(requestRows(req))

	repo := NewRequestRepository(db)
	got, err := repo.ListByRequesterID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, domain.RequestStatusCanceled, got[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
