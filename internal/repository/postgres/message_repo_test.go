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

func TestMessageRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs("e1", "Alice", "see you there").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("m1", createdAt))

	repo := NewMessageRepository(db)
	msg := &domain.Message{EventID: "e1", Author: "Alice", Content: "see you there"}
	require.NoError(t, repo.Create(ctx, msg))
	require.Equal(t, "m1", msg.ID)
	require.Equal(t, createdAt, msg.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("ascending history", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM messages`).
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "event_id", "author", "content", "created_at"},
			).
				AddRow("m1", "e1", "Alice", "first", now).
				AddRow("m2", "e1", "Bob", "second", now.Add(time.Minute)))

		repo := NewMessageRepository(db)
		messages, err := repo.ListByEventID(ctx, "e1")
		require.NoError(t, err)
		require.Len(t, messages, 2)
		require.Equal(t, "first", messages[0].Content)
		require.Equal(t, "second", messages[1].Content)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM messages`).
			WithArgs("e1").
			WillReturnError(sql.ErrConnDone)

		repo := NewMessageRepository(db)
		_, err = repo.ListByEventID(ctx, "e1")
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
