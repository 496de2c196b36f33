package domain

import (
	"context"
	"time"
)

// Event is a proposed activity with a voting deadline, a set of selectable
// options, and a set of invited guests.
// swagger:model Event
type Event struct {
	ID             string    `json:"id"`
	CreatorID      string    `json:"creator_id"`
	Name           string    `json:"name"`
	VotingDeadline time.Time `json:"voting_deadline"`
	Options        []*Option `json:"options"`
	Guests         []*Guest  `json:"guests"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// VotingOpen reports whether votes may still be submitted at the given instant.
func (e *Event) VotingOpen(now time.Time) bool {
	return !now.After(e.VotingDeadline)
}

// OptionByID returns the option with the given id, or nil.
func (e *Event) OptionByID(id string) *Option {
	for _, o := range e.Options {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// GuestByNickname returns the guest registered under nickname, or nil.
func (e *Event) GuestByNickname(nickname string) *Guest {
	for _, g := range e.Guests {
		if g.Nickname == nickname {
			return g
		}
	}
	return nil
}

// Option is one selectable choice within an event. Options are immutable
// after creation; Position records insertion order and is the deterministic
// tie-break key for the tally winner.
// swagger:model Option
type Option struct {
	ID       string     `json:"id"`
	EventID  string     `json:"event_id"`
	Name     string     `json:"name"`
	Price    *float64   `json:"price,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	Position int        `json:"position"`
}

// OptionInput describes an option to create alongside its event.
type OptionInput struct {
	Name     string
	Price    *float64
	StartsAt *time.Time
}

// OptionCount is one entry of a tally, in option insertion order.
type OptionCount struct {
	OptionID string `json:"option_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// Tally is the per-option vote count for an event at a point in time.
// Unavailable votes are counted in their own bucket, never merged into an
// option's count. WinnerOptionID is the option with the maximum count; ties
// resolve to the earliest-created option among the tied ones.
// swagger:model Tally
type Tally struct {
	EventID        string         `json:"event_id"`
	Counts         []*OptionCount `json:"counts"`
	Unavailable    int            `json:"unavailable"`
	TotalVotesCast int            `json:"total_votes_cast"`
	WinnerOptionID string         `json:"winner_option_id,omitempty"`
}

// EventRepository defines storage operations for events and their options
// and guests. Create persists the event aggregate atomically; GetByID loads
// options (ordered by position) and guests.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByCreatorID(ctx context.Context, creatorID string, params PaginationParams) ([]*Event, int, error)
	Delete(ctx context.Context, id string) error
}

// GuestEventView is an event as seen by one guest, with that guest's
// current vote resolved.
// swagger:model GuestEventView
type GuestEventView struct {
	Event *Event `json:"event"`
	Guest *Guest `json:"guest"`
}

// VoteChoiceUnavailable is the reserved submit-vote choice meaning the guest
// cannot attend any option. It is not an option id.
const VoteChoiceUnavailable = "unavailable"

// VotingService owns the event lifecycle, vote submission, and tallying.
type VotingService interface {
	CreateEvent(ctx context.Context, creatorID, name string, votingDeadline time.Time, options []OptionInput, guestNicknames []string) (*Event, error)
	GetEventForGuest(ctx context.Context, eventID, nickname string) (*GuestEventView, error)
	// SubmitVote records choice for the guest. choice is an option id, the
	// VoteChoiceUnavailable sentinel, or nil to cancel the vote. The deadline
	// check runs before any guest or choice validation.
	SubmitVote(ctx context.Context, eventID, nickname string, choice *string) (*Guest, error)
	Tally(ctx context.Context, eventID string) (*Tally, error)
	ListEventsByCreator(ctx context.Context, creatorID string, params PaginationParams) ([]*Event, int, error)
	DeleteEvent(ctx context.Context, eventID, creatorID string) error
}
