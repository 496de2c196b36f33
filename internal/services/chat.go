package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quickplan/internal/domain"
)

// Chat content limit, matching the messages the mobile clients send today.
const maxMessageLength = 2000

type chatHistoryService struct {
	messageRepo    domain.MessageRepository
	contextTimeout time.Duration
}

func NewChatHistoryService(messageRepo domain.MessageRepository, timeout time.Duration) domain.ChatHistoryService {
	return &chatHistoryService{
		messageRepo:    messageRepo,
		contextTimeout: timeout,
	}
}

func (s *chatHistoryService) Append(ctx context.Context, eventID, author, content string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if author == "" {
		return nil, fmt.Errorf("%w: author is required", domain.ErrInvalidInput)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content must not be blank", domain.ErrInvalidInput)
	}
	if len(content) > maxMessageLength {
		return nil, fmt.Errorf("%w: message content exceeds %d characters", domain.ErrInvalidInput, maxMessageLength)
	}

	msg := &domain.Message{
		EventID: eventID,
		Author:  author,
		Content: content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

func (s *chatHistoryService) ListForEvent(ctx context.Context, eventID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	messages, err := s.messageRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return messages, nil
}
