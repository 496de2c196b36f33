package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quickplan/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// Create inserts the event together with its options and guests in a single
// transaction. Option positions follow slice order; guests start at no-vote.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	eventQuery := `
		INSERT INTO events (creator_id, name, voting_deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, eventQuery,
		e.CreatorID, e.Name, e.VotingDeadline, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	optionQuery := `
		INSERT INTO options (event_id, name, price, starts_at, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i, o := range e.Options {
		o.EventID = e.ID
		o.Position = i
		var price sql.NullFloat64
		if o.Price != nil {
			price = sql.NullFloat64{Float64: *o.Price, Valid: true}
		}
		var startsAt sql.NullTime
		if o.StartsAt != nil {
			startsAt = sql.NullTime{Time: *o.StartsAt, Valid: true}
		}
		if err := tx.QueryRowContext(ctx, optionQuery,
			e.ID, o.Name, price, startsAt, o.Position,
		).Scan(&o.ID); err != nil {
			return fmt.Errorf("insert option %q: %w", o.Name, err)
		}
	}

	guestQuery := `
		INSERT INTO guests (event_id, nickname, vote_kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for _, g := range e.Guests {
		g.EventID = e.ID
		if err := tx.QueryRowContext(ctx, guestQuery,
			e.ID, g.Nickname, string(domain.VoteNone), g.CreatedAt, g.UpdatedAt,
		).Scan(&g.ID); err != nil {
			return fmt.Errorf("insert guest %q: %w", g.Nickname, err)
		}
	}

	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	eventQuery := `
		SELECT id, creator_id, name, voting_deadline, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, eventQuery, id).Scan(
		&e.ID, &e.CreatorID, &e.Name, &e.VotingDeadline, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	optionQuery := `
		SELECT id, event_id, name, price, starts_at, position
		FROM options
		WHERE event_id = $1
		ORDER BY position ASC
	`
	rows, err := r.DB.QueryContext(ctx, optionQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	e.Options = make([]*domain.Option, 0)
	for rows.Next() {
		o := &domain.Option{}
		var price sql.NullFloat64
		var startsAt sql.NullTime
		if err := rows.Scan(&o.ID, &o.EventID, &o.Name, &price, &startsAt, &o.Position); err != nil {
			return nil, err
		}
		if price.Valid {
			o.Price = &price.Float64
		}
		if startsAt.Valid {
			o.StartsAt = &startsAt.Time
		}
		e.Options = append(e.Options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	guests, err := scanGuests(ctx, r.DB, id)
	if err != nil {
		return nil, err
	}
	e.Guests = guests
	return e, nil
}

func (r *eventRepository) ListByCreatorID(ctx context.Context, creatorID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE creator_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, creatorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, creator_id, name, voting_deadline, created_at, updated_at
		FROM events
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, creatorID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.CreatorID, &e.Name, &e.VotingDeadline, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// Delete removes the event; options, guests, and messages cascade at the
// schema level.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
