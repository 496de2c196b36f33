package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// VoteKind discriminates the guest vote union.
type VoteKind string

const (
	// VoteNone means the guest has not voted.
	VoteNone VoteKind = "none"
	// VoteFor means the guest voted for one of the event's options.
	VoteFor VoteKind = "option"
	// VoteUnavailable means the guest declared they cannot attend any option.
	// It is distinct from VoteNone and references no option.
	VoteUnavailable VoteKind = "unavailable"
)

// Vote is a tagged union: NoVote | VoteFor(optionID) | Unavailable.
// OptionID is set iff Kind is VoteFor.
type Vote struct {
	Kind     VoteKind
	OptionID string
}

// NoVote returns the zero vote.
func NoVote() Vote { return Vote{Kind: VoteNone} }

// Cast reports whether the vote counts toward total_votes_cast
// (unavailable counts as cast, no-vote does not).
func (v Vote) Cast() bool { return v.Kind != VoteNone }

// MarshalJSON renders the union as {"kind": ..., "option_id": ...} with
// option_id omitted unless the vote is for an option.
func (v Vote) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind     VoteKind `json:"kind"`
		OptionID string   `json:"option_id,omitempty"`
	}
	k := v.Kind
	if k == "" {
		k = VoteNone
	}
	return json.Marshal(wire{Kind: k, OptionID: v.OptionID})
}

// UnmarshalJSON parses the wire form produced by MarshalJSON.
func (v *Vote) UnmarshalJSON(b []byte) error {
	var wire struct {
		Kind     VoteKind `json:"kind"`
		OptionID string   `json:"option_id"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	switch wire.Kind {
	case "", VoteNone:
		*v = Vote{Kind: VoteNone}
	case VoteFor:
		if wire.OptionID == "" {
			return fmt.Errorf("vote kind %q requires option_id", VoteFor)
		}
		*v = Vote{Kind: VoteFor, OptionID: wire.OptionID}
	case VoteUnavailable:
		*v = Vote{Kind: VoteUnavailable}
	default:
		return fmt.Errorf("unknown vote kind %q", wire.Kind)
	}
	return nil
}

// Guest is an invited participant, identified by a nickname unique within
// its event, holding at most one vote.
// swagger:model Guest
type Guest struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Nickname  string    `json:"nickname"`
	Vote      Vote      `json:"vote"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GuestRepository defines storage operations for guests. UpdateVote is a
// plain read-then-write replacement: concurrent updates for the same guest
// are last-write-wins.
type GuestRepository interface {
	GetByEventAndNickname(ctx context.Context, eventID, nickname string) (*Guest, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Guest, error)
	UpdateVote(ctx context.Context, eventID, nickname string, vote Vote) (*Guest, error)
}
