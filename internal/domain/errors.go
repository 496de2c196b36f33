package domain

import "errors"

// Sentinel errors shared across services. Repositories map driver-level
// failures (e.g. sql.ErrNoRows) onto these; controllers and the realtime
// layer map them onto wire responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownGuest = errors.New("guest not registered for event")
	ErrVotingClosed = errors.New("voting deadline has passed")
	ErrAccessDenied = errors.New("access denied")
	ErrForbidden    = errors.New("forbidden")
)
