package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickplan/internal/domain"
)

type votingService struct {
	eventRepo      domain.EventRepository
	guestRepo      domain.GuestRepository
	contextTimeout time.Duration
}

func NewVotingService(eventRepo domain.EventRepository, guestRepo domain.GuestRepository, timeout time.Duration) domain.VotingService {
	return &votingService{
		eventRepo:      eventRepo,
		guestRepo:      guestRepo,
		contextTimeout: timeout,
	}
}

func (s *votingService) CreateEvent(ctx context.Context, creatorID, name string, votingDeadline time.Time, options []domain.OptionInput, guestNicknames []string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator is required", domain.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if votingDeadline.IsZero() {
		return nil, fmt.Errorf("%w: voting deadline is required", domain.ErrInvalidInput)
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: at least one option is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	event := &domain.Event{
		CreatorID:      creatorID,
		Name:           name,
		VotingDeadline: votingDeadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, in := range options {
		optName := strings.TrimSpace(in.Name)
		if optName == "" {
			return nil, fmt.Errorf("%w: option name must not be blank", domain.ErrInvalidInput)
		}
		event.Options = append(event.Options, &domain.Option{
			Name:     optName,
			Price:    in.Price,
			StartsAt: in.StartsAt,
		})
	}

	seen := make(map[string]struct{}, len(guestNicknames))
	for _, nickname := range guestNicknames {
		nickname = strings.TrimSpace(nickname)
		if nickname == "" {
			return nil, fmt.Errorf("%w: guest nickname must not be blank", domain.ErrInvalidInput)
		}
		if _, ok := seen[nickname]; ok {
			return nil, fmt.Errorf("%w: duplicate guest nickname %q", domain.ErrInvalidInput, nickname)
		}
		seen[nickname] = struct{}{}
		event.Guests = append(event.Guests, &domain.Guest{
			Nickname:  nickname,
			Vote:      domain.NoVote(),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *votingService) GetEventForGuest(ctx context.Context, eventID, nickname string) (*domain.GuestEventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	guest := event.GuestByNickname(nickname)
	if guest == nil {
		return nil, domain.ErrUnknownGuest
	}
	return &domain.GuestEventView{Event: event, Guest: guest}, nil
}

// SubmitVote applies the guest's choice. The deadline check runs first so a
// closed event rejects every request identically, regardless of whether the
// guest or choice would otherwise be valid. The read-then-write is not
// serialized: concurrent submissions for one guest are last-write-wins.
func (s *votingService) SubmitVote(ctx context.Context, eventID, nickname string, choice *string) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if !event.VotingOpen(time.Now()) {
		return nil, domain.ErrVotingClosed
	}

	if event.GuestByNickname(nickname) == nil {
		return nil, domain.ErrUnknownGuest
	}

	vote, err := resolveChoice(event, choice)
	if err != nil {
		return nil, err
	}

	guest, err := s.guestRepo.UpdateVote(ctx, eventID, nickname, vote)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnknownGuest
		}
		return nil, fmt.Errorf("update vote: %w", err)
	}
	return guest, nil
}

// resolveChoice maps the wire choice onto the vote union: nil cancels,
// the sentinel marks the guest unavailable, anything else must be an option
// belonging to this event.
func resolveChoice(event *domain.Event, choice *string) (domain.Vote, error) {
	if choice == nil {
		return domain.NoVote(), nil
	}
	if *choice == domain.VoteChoiceUnavailable {
		return domain.Vote{Kind: domain.VoteUnavailable}, nil
	}
	if event.OptionByID(*choice) == nil {
		return domain.Vote{}, fmt.Errorf("%w: unknown option %q", domain.ErrInvalidInput, *choice)
	}
	return domain.Vote{Kind: domain.VoteFor, OptionID: *choice}, nil
}

func (s *votingService) Tally(ctx context.Context, eventID string) (*domain.Tally, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	tally := &domain.Tally{EventID: event.ID}
	countByOption := make(map[string]*domain.OptionCount, len(event.Options))
	for _, o := range event.Options {
		c := &domain.OptionCount{OptionID: o.ID, Name: o.Name}
		countByOption[o.ID] = c
		tally.Counts = append(tally.Counts, c)
	}

	for _, g := range event.Guests {
		switch g.Vote.Kind {
		case domain.VoteFor:
			if c, ok := countByOption[g.Vote.OptionID]; ok {
				c.Count++
			}
			tally.TotalVotesCast++
		case domain.VoteUnavailable:
			tally.Unavailable++
			tally.TotalVotesCast++
		}
	}

	// Winner is the highest count; on ties the option created first wins.
	// Counts follow option insertion order, so the first maximum is the
	// winner regardless of any map iteration above.
	best := -1
	for _, c := range tally.Counts {
		if c.Count > best {
			best = c.Count
			tally.WinnerOptionID = c.OptionID
		}
	}
	return tally, nil
}

func (s *votingService) ListEventsByCreator(ctx context.Context, creatorID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.ListByCreatorID(ctx, creatorID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *votingService) DeleteEvent(ctx context.Context, eventID, creatorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != creatorID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
