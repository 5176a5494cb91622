package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/event"
	"github.com/mistvale/storefront/internal/repository"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

// MessageService implements the public contact form and the admin inbox.
type MessageService struct {
	messageRepo repository.MessageRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewMessageService creates a new message service.
func NewMessageService(messageRepo repository.MessageRepository, producer *event.Producer, logger *slog.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		producer:    producer,
		logger:      logger,
	}
}

// SubmitMessageInput holds the parameters for a contact form submission.
type SubmitMessageInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Submit stores a contact form submission and announces it.
func (s *MessageService) Submit(ctx context.Context, input SubmitMessageInput) (*domain.ContactMessage, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Body == "" {
		return nil, apperrors.InvalidInput("message body is required")
	}

	message := &domain.ContactMessage{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Body:      input.Body,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}

	if err := s.producer.PublishContactReceived(ctx, message); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contact.received event",
			slog.String("message_id", message.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "contact message received",
		slog.String("message_id", message.ID),
	)

	return message, nil
}

// ListMessages returns a page of messages for the admin inbox, newest first.
func (s *MessageService) ListMessages(ctx context.Context, unreadOnly bool, page, perPage int) ([]domain.ContactMessage, int, error) {
	messages, total, err := s.messageRepo.List(ctx, unreadOnly, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}

	return messages, total, nil
}

// MarkRead flags a message as read.
func (s *MessageService) MarkRead(ctx context.Context, id string) error {
	if err := s.messageRepo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark contact message read: %w", err)
	}

	return nil
}

// DeleteMessage removes a message from the inbox.
func (s *MessageService) DeleteMessage(ctx context.Context, id string) error {
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}

	s.logger.InfoContext(ctx, "contact message deleted",
		slog.String("message_id", id),
	)

	return nil
}
