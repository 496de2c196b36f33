package postgres

import (
	"context"
	"database/sql"

	"quickplan/internal/domain"
)

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) domain.MessageRepository {
	return &messageRepository{
		DB: db,
	}
}

// Create appends the message. ID and CreatedAt are assigned by the database;
// the caller's values for those fields are ignored.
func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (event_id, author, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, m.EventID, m.Author, m.Content).Scan(&m.ID, &m.CreatedAt)
}

func (r *messageRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Message, error) {
	query := `
		SELECT id, event_id, author, content, created_at
		FROM messages
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := make([]*domain.Message, 0)
	for rows.Next() {
		m := &domain.Message{}
		if err := rows.Scan(&m.ID, &m.EventID, &m.Author, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
