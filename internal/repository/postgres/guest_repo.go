package postgres

import (
	"context"
	"database/sql"
	"errors"

	"quickplan/internal/domain"
)

type guestRepository struct {
	DB *sql.DB
}

func NewGuestRepository(db *sql.DB) domain.GuestRepository {
	return &guestRepository{
		DB: db,
	}
}

func (r *guestRepository) GetByEventAndNickname(ctx context.Context, eventID, nickname string) (*domain.Guest, error) {
	query := `
		SELECT id, event_id, nickname, vote_kind, vote_option_id, created_at, updated_at
		FROM guests
		WHERE event_id = $1 AND nickname = $2
	`
	g := &domain.Guest{}
	var kind string
	var optionID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, eventID, nickname).Scan(
		&g.ID, &g.EventID, &g.Nickname, &kind, &optionID, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	g.Vote = voteFromColumns(kind, optionID)
	return g, nil
}

func (r *guestRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	return scanGuests(ctx, r.DB, eventID)
}

// UpdateVote replaces the guest's vote. Plain replacement, no row lock:
// concurrent updates for the same guest are last-write-wins.
func (r *guestRepository) UpdateVote(ctx context.Context, eventID, nickname string, vote domain.Vote) (*domain.Guest, error) {
	query := `
		UPDATE guests
		SET vote_kind = $1, vote_option_id = $2, updated_at = NOW()
		WHERE event_id = $3 AND nickname = $4
		RETURNING id, event_id, nickname, vote_kind, vote_option_id, created_at, updated_at
	`
	var optionArg sql.NullString
	if vote.Kind == domain.VoteFor {
		optionArg = sql.NullString{String: vote.OptionID, Valid: true}
	}
	g := &domain.Guest{}
	var kind string
	var optionID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, string(vote.Kind), optionArg, eventID, nickname).Scan(
		&g.ID, &g.EventID, &g.Nickname, &kind, &optionID, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	g.Vote = voteFromColumns(kind, optionID)
	return g, nil
}

// scanGuests loads all guests for an event, oldest first. Shared with the
// event repository's aggregate load.
func scanGuests(ctx context.Context, db *sql.DB, eventID string) ([]*domain.Guest, error) {
	query := `
		SELECT id, event_id, nickname, vote_kind, vote_option_id, created_at, updated_at
		FROM guests
		WHERE event_id = $1
		ORDER BY created_at ASC, nickname ASC
	`
	rows, err := db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		g := &domain.Guest{}
		var kind string
		var optionID sql.NullString
		if err := rows.Scan(&g.ID, &g.EventID, &g.Nickname, &kind, &optionID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		g.Vote = voteFromColumns(kind, optionID)
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func voteFromColumns(kind string, optionID sql.NullString) domain.Vote {
	switch domain.VoteKind(kind) {
	case domain.VoteFor:
		return domain.Vote{Kind: domain.VoteFor, OptionID: optionID.String}
	case domain.VoteUnavailable:
		return domain.Vote{Kind: domain.VoteUnavailable}
	default:
		return domain.NoVote()
	}
}
