package domain

import "context"

// ChatIdentity is who is asking to join or post to an event's chat room:
// an authenticated creator (UserID), an invited guest (Nickname), or both
// fields empty for an anonymous caller. It is passed explicitly into every
// gate and room operation; nothing reads ambient session state.
type ChatIdentity struct {
	UserID   string `json:"user_id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// ChatAccessService decides chat eligibility for an (event, identity) pair.
// The decision is re-evaluated on every join and every send; a prior join is
// never trusted.
type ChatAccessService interface {
	// Authorize loads the event and its creator and evaluates the chat gate.
	// Returns ErrNotFound when the event is unknown and ErrAccessDenied when
	// the gate fails; callers that must not leak event existence report both
	// identically.
	Authorize(ctx context.Context, eventID string, identity ChatIdentity) (*Event, error)
}
