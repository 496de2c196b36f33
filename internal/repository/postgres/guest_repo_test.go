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

var guestColumns = []string{"id", "event_id", "nickname", "vote_kind", "vote_option_id", "created_at", "updated_at"}

func TestGuestRepository_GetByEventAndNickname(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mock     func(mock sqlmock.Sqlmock)
		wantVote domain.Vote
		wantErr  error
	}{
		{
			name: "guest with option vote",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM guests`).
					WithArgs("e1", "Alice").
					WillReturnRows(sqlmock.NewRows(guestColumns).
						AddRow("g-alice", "e1", "Alice", "option", "opt-a", now, now))
			},
			wantVote: domain.Vote{Kind: domain.VoteFor, OptionID: "opt-a"},
		},
		{
			name: "guest without vote",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM guests`).
					WithArgs("e1", "Alice").
					WillReturnRows(sqlmock.NewRows(guestColumns).
						AddRow("g-alice", "e1", "Alice", "none", nil, now, now))
			},
			wantVote: domain.NoVote(),
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM guests`).
					WithArgs("e1", "Alice").
					WillReturnError(sql.ErrNoRows)
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
			repo := NewGuestRepository(db)
			guest, err := repo.GetByEventAndNickname(ctx, "e1", "Alice")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantVote, guest.Vote)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGuestRepository_UpdateVote(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		vote     domain.Vote
		mock     func(mock sqlmock.Sqlmock)
		wantVote domain.Vote
		wantErr  error
	}{
		{
			name: "vote for option",
			vote: domain.Vote{Kind: domain.VoteFor, OptionID: "opt-a"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE guests`).
					WithArgs("option", sqlmock.AnyArg(), "e1", "Alice").
					WillReturnRows(sqlmock.NewRows(guestColumns).
						AddRow("g-alice", "e1", "Alice", "option", "opt-a", now, now))
			},
			wantVote: domain.Vote{Kind: domain.VoteFor, OptionID: "opt-a"},
		},
		{
			name: "unavailable clears option id",
			vote: domain.Vote{Kind: domain.VoteUnavailable},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE guests`).
					WithArgs("unavailable", sqlmock.AnyArg(), "e1", "Alice").
					WillReturnRows(sqlmock.NewRows(guestColumns).
						AddRow("g-alice", "e1", "Alice", "unavailable", nil, now, now))
			},
			wantVote: domain.Vote{Kind: domain.VoteUnavailable},
		},
		{
			name: "cancel back to none",
			vote: domain.NoVote(),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE guests`).
					WithArgs("none", sqlmock.AnyArg(), "e1", "Alice").
					WillReturnRows(sqlmock.NewRows(guestColumns).
						AddRow("g-alice", "e1", "Alice", "none", nil, now, now))
			},
			wantVote: domain.NoVote(),
		},
		{
			name: "unknown guest",
			vote: domain.Vote{Kind: domain.VoteFor, OptionID: "opt-a"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE guests`).
					WillReturnError(sql.ErrNoRows)
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
			repo := NewGuestRepository(db)
			guest, err := repo.UpdateVote(ctx, "e1", "Alice", tt.vote)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantVote, guest.Vote)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGuestRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM guests`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows(guestColumns).
			AddRow("g-alice", "e1", "Alice", "option", "opt-a", now, now).
			AddRow("g-bob", "e1", "Bob", "none", nil, now, now))

	repo := NewGuestRepository(db)
	guests, err := repo.ListByEventID(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, guests, 2)
	require.Equal(t, "Alice", guests[0].Nickname)
	require.Equal(t, domain.VoteNone, guests[1].Vote.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}
