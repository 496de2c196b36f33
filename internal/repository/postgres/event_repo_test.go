package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"quickplan/internal/domain"
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	deadline := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	price := 12.5

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		event := &domain.Event{
			CreatorID:      "creator-1",
			Name:           "Movie Night",
			VotingDeadline: deadline,
			Options: []*domain.Option{
				{Name: "Friday", Price: &price},
				{Name: "Saturday"},
			},
			Guests: []*domain.Guest{
				{Nickname: "Alice", Vote: domain.NoVote()},
			},
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO events`).
			WithArgs("creator-1", "Movie Night", deadline, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e1"))
		mock.ExpectQuery(`INSERT INTO options`).
			WithArgs("e1", "Friday", sqlmock.AnyArg(), sqlmock.AnyArg(), 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("opt-a"))
		mock.ExpectQuery(`INSERT INTO options`).
			WithArgs("e1", "Saturday", sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("opt-b"))
		mock.ExpectQuery(`INSERT INTO guests`).
			WithArgs("e1", "Alice", "none", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("g-alice"))
		mock.ExpectCommit()

		repo := NewEventRepository(db)
		require.NoError(t, repo.Create(ctx, event))
		require.Equal(t, "e1", event.ID)
		require.Equal(t, "opt-a", event.Options[0].ID)
		require.Equal(t, 1, event.Options[1].Position)
		require.Equal(t, "g-alice", event.Guests[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on option insert failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		event := &domain.Event{
			CreatorID:      "creator-1",
			Name:           "Movie Night",
			VotingDeadline: deadline,
			Options:        []*domain.Option{{Name: "Friday"}},
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO events`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e1"))
		mock.ExpectQuery(`INSERT INTO options`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewEventRepository(db)
		require.Error(t, repo.Create(ctx, event))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	deadline := now.Add(72 * time.Hour)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, creator_id, name, voting_deadline, created_at, updated_at\s+FROM events`).
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "creator_id", "name", "voting_deadline", "created_at", "updated_at"},
			).AddRow("e1", "creator-1", "Movie Night", deadline, now, now))
		mock.ExpectQuery(`FROM options`).
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "event_id", "name", "price", "starts_at", "position"},
			).
				AddRow("opt-a", "e1", "Friday", 12.5, deadline, 0).
				AddRow("opt-b", "e1", "Saturday", nil, nil, 1))
		mock.ExpectQuery(`FROM guests`).
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "event_id", "nickname", "vote_kind", "vote_option_id", "created_at", "updated_at"},
			).
				AddRow("g-alice", "e1", "Alice", "option", "opt-a", now, now).
				AddRow("g-bob", "e1", "Bob", "unavailable", nil, now, now).
				AddRow("g-carol", "e1", "Carol", "none", nil, now, now))

		repo := NewEventRepository(db)
		event, err := repo.GetByID(ctx, "e1")
		require.NoError(t, err)
		require.Equal(t, "Movie Night", event.Name)
		require.Len(t, event.Options, 2)
		require.NotNil(t, event.Options[0].Price)
		require.Nil(t, event.Options[1].Price)
		require.Len(t, event.Guests, 3)
		require.Equal(t, domain.Vote{Kind: domain.VoteFor, OptionID: "opt-a"}, event.Guests[0].Vote)
		require.Equal(t, domain.VoteUnavailable, event.Guests[1].Vote.Kind)
		require.Equal(t, domain.VoteNone, event.Guests[2].Vote.Kind)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events`).
			WithArgs("e-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "e-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListByCreatorID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
		WithArgs("creator-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`FROM events`).
		WithArgs("creator-1", 10, 10).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "creator_id", "name", "voting_deadline", "created_at", "updated_at"},
		).AddRow("e3", "creator-1", "Picnic", now, now, now).
			AddRow("e4", "creator-1", "Game Night", now, now, now))

	repo := NewEventRepository(db)
	events, total, err := repo.ListByCreatorID(ctx, "creator-1", domain.PaginationParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 12, total)
	require.Len(t, events, 2)
	require.Equal(t, "e3", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).
					WithArgs("e1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).
					WithArgs("e1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, "e1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
