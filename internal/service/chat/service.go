package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
)

// Service handles direct messages between a patient and a doctor.
type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, req *model.SendMessageRequest) (*model.ChatMessage, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

func NewService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) Service {
	return &service{chatRepo: chatRepo, userRepo: userRepo}
}

func (s *service) Send(ctx context.Context, senderID uuid.UUID, req *model.SendMessageRequest) (*model.ChatMessage, error) {
	if req.ReceiverID == senderID {
		return nil, apperrors.NewBadRequest("cannot message yourself", nil)
	}
	if _, err := s.userRepo.Get(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("receiver", err)
		}
		return nil, apperrors.NewInternal(err)
	}

	message := &model.ChatMessage{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	}
	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return message, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error) {
	messages, err := s.chatRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if messages == nil {
		messages = []*model.ChatMessage{}
	}
	return messages, nil
}

// Delete hides ownership: only the sender may delete, and a message owned by
// someone else reads as missing.
func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	deleted, err := s.chatRepo.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.NewInternal(err)
	}
	if !deleted {
		return apperrors.NewNotFound("message", nil)
	}
	return nil
}
