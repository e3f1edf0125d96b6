package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PumpPal/models"
	"PumpPal/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SendInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

var errNotChatOwner = &ForbiddenError{Message: "Forbidden. You do not own this chat."}

type MessageService struct {
	db      *gorm.DB
	gateway Completer
	log     *zap.Logger
}

func NewMessageService(db *gorm.DB, gateway Completer, log *zap.Logger) *MessageService {
	return &MessageService{db: db, gateway: gateway, log: logger.OrNop(log)}
}

// Authorize runs the role and chat ownership checks of Send, so a request
// can be rejected before its body is read.
func (s *MessageService) Authorize(ctx context.Context, caller Caller, chatID uint) error {
	if err := RequireRegular(caller, ActSendMessage); err != nil {
		return err
	}
	_, err := s.ownedChat(ctx, caller, chatID)
	return err
}

// Send stores the caller's message, asks the gateway for a reply and stores
// that as the message's response. Everything after validation ignores ctx
// cancellation so a message is never left unanswered by a client hang-up.
func (s *MessageService) Send(ctx context.Context, caller Caller, chatID uint, in SendInput) (*models.Message, error) {
	if err := RequireRegular(caller, ActSendMessage); err != nil {
		return nil, err
	}
	if _, err := s.ownedChat(ctx, caller, chatID); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	db := s.db.WithContext(ctx)

	msg := models.Message{ChatID: chatID, Content: in.Content}
	if err := db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	reply := s.gateway.Complete(ctx, msg.Content)
	if reply.Degraded {
		s.log.Warn("storing fallback reply",
			zap.Uint("message_id", msg.ID),
			zap.String("reason", string(reply.Reason)),
		)
	}

	resp, err := msg.Answer(reply.Text)
	if err != nil {
		return nil, err
	}
	if err := db.Create(resp).Error; err != nil {
		return nil, fmt.Errorf("create response for message %d: %w", msg.ID, err)
	}
	return &msg, nil
}

// List returns the chat's messages oldest first, each with its response.
func (s *MessageService) List(ctx context.Context, caller Caller, chatID uint) ([]models.Message, error) {
	if err := RequireRegular(caller, ActListMessage); err != nil {
		return nil, err
	}
	if _, err := s.ownedChat(ctx, caller, chatID); err != nil {
		return nil, err
	}
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Preload("Response").
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *MessageService) Get(ctx context.Context, caller Caller, id uint) (*models.Message, error) {
	if err := RequireRegular(caller, ActViewMessage); err != nil {
		return nil, err
	}
	return s.ownedMessage(ctx, caller, id)
}

// GetResponse returns the reply to a message, or NotFound while unanswered.
func (s *MessageService) GetResponse(ctx context.Context, caller Caller, messageID uint) (*models.Response, error) {
	if err := RequireRegular(caller, ActViewReply); err != nil {
		return nil, err
	}
	msg, err := s.ownedMessage(ctx, caller, messageID)
	if err != nil {
		return nil, err
	}
	if msg.State() == models.Unanswered {
		return nil, &NotFoundError{Message: "Response not found."}
	}
	return msg.Response, nil
}

// ownedChat distinguishes a missing chat (404) from someone else's (403).
func (s *MessageService) ownedChat(ctx context.Context, caller Caller, chatID uint) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.WithContext(ctx).First(&chat, chatID).Error; err != nil {
		return nil, chatLookupErr(err)
	}
	if chat.UserID != caller.UserID {
		return nil, errNotChatOwner
	}
	return &chat, nil
}

func (s *MessageService) ownedMessage(ctx context.Context, caller Caller, id uint) (*models.Message, error) {
	db := s.db.WithContext(ctx)
	var msg models.Message
	err := db.Preload("Response").First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Message not found."}
	}
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	if _, err := s.ownedChat(ctx, caller, msg.ChatID); err != nil {
		return nil, err
	}
	return &msg, nil
}
