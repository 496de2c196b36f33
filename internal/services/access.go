package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickplan/internal/domain"
)

// ChatPredicate is one condition in the chat access decision. Predicates are
// pure: they see the loaded event, its creator, and the asking identity, and
// have no side effects, so they are safe to re-evaluate on every join and
// every send.
type ChatPredicate func(event *domain.Event, creator *domain.User, identity domain.ChatIdentity) bool

// AllOf returns a predicate that passes only when every given predicate passes.
func AllOf(preds ...ChatPredicate) ChatPredicate {
	return func(event *domain.Event, creator *domain.User, identity domain.ChatIdentity) bool {
		for _, p := range preds {
			if !p(event, creator, identity) {
				return false
			}
		}
		return true
	}
}

// AnyOf returns a predicate that passes when at least one given predicate passes.
func AnyOf(preds ...ChatPredicate) ChatPredicate {
	return func(event *domain.Event, creator *domain.User, identity domain.ChatIdentity) bool {
		for _, p := range preds {
			if p(event, creator, identity) {
				return true
			}
		}
		return false
	}
}

// CreatorHasProPlan passes when the event creator is on the PRO tier. Chat is
// a paid feature: when this fails nobody may chat, the creator included.
func CreatorHasProPlan(_ *domain.Event, creator *domain.User, _ domain.ChatIdentity) bool {
	return creator != nil && creator.Plan == domain.PlanPro
}

// IsCreator passes when the identity is the event's creator.
func IsCreator(event *domain.Event, _ *domain.User, identity domain.ChatIdentity) bool {
	return identity.UserID != "" && identity.UserID == event.CreatorID
}

// IsRegisteredGuest passes when the identity's nickname is registered for the event.
func IsRegisteredGuest(event *domain.Event, _ *domain.User, identity domain.ChatIdentity) bool {
	return identity.Nickname != "" && event.GuestByNickname(identity.Nickname) != nil
}

// AllowedToChat is the chat gate: the creator must be on the PRO plan, and
// the identity must be the creator or a registered guest.
var AllowedToChat = AllOf(CreatorHasProPlan, AnyOf(IsCreator, IsRegisteredGuest))

type chatAccessService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewChatAccessService(eventRepo domain.EventRepository, userRepo domain.UserRepository, timeout time.Duration) domain.ChatAccessService {
	return &chatAccessService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

// Authorize loads the event and its creator and evaluates AllowedToChat.
// A missing creator row denies rather than erroring: an event whose creator
// cannot be resolved has no provable plan tier.
func (s *chatAccessService) Authorize(ctx context.Context, eventID string, identity domain.ChatIdentity) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	creator, err := s.userRepo.GetByID(ctx, event.CreatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, fmt.Errorf("get creator: %w", err)
	}

	if !AllowedToChat(event, creator, identity) {
		return nil, domain.ErrAccessDenied
	}
	return event, nil
}
