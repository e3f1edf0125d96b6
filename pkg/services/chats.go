package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PumpPal/models"

	"gorm.io/gorm"
)

type ChatInput struct {
	Title string `json:"title" validate:"required,max=1000"`
}

type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

var errChatNotFound = &NotFoundError{Message: "Chat not found."}

// orderedMessages sorts preloaded messages oldest first, ties by id.
func orderedMessages(db *gorm.DB) *gorm.DB {
	return db.Order("messages.created_at ASC, messages.id ASC")
}

// List returns the caller's chats without their messages.
func (s *ChatService) List(ctx context.Context, caller Caller) ([]models.Chat, error) {
	if err := RequireRegular(caller, ActListChats); err != nil {
		return nil, err
	}
	var chats []models.Chat
	err := s.db.WithContext(ctx).
		Select("id", "user_id", "title", "created_at", "updated_at").
		Where("user_id = ?", caller.UserID).
		Order("id ASC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return chats, nil
}

// Get returns one of the caller's chats with its message/response pairs.
// A chat owned by someone else is reported as not found.
func (s *ChatService) Get(ctx context.Context, caller Caller, id uint) (*models.Chat, error) {
	if err := RequireRegular(caller, ActViewChat); err != nil {
		return nil, err
	}
	var chat models.Chat
	err := s.db.WithContext(ctx).
		Preload("Messages", orderedMessages).
		Preload("Messages.Response").
		Where("user_id = ?", caller.UserID).
		First(&chat, id).Error
	if err != nil {
		return nil, chatLookupErr(err)
	}
	return &chat, nil
}

func (s *ChatService) Create(ctx context.Context, caller Caller, in ChatInput) (*models.Chat, error) {
	if err := RequireRegular(caller, ActCreateChat); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	chat := models.Chat{UserID: caller.UserID, Title: in.Title}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &chat, nil
}

// Rename changes only the title; owner and messages are untouched.
func (s *ChatService) Rename(ctx context.Context, caller Caller, id uint, in ChatInput) (*models.Chat, error) {
	if err := RequireRegular(caller, ActUpdateChat); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	chat, err := s.owned(db, caller, id)
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := db.Model(chat).Update("title", in.Title).Error; err != nil {
		return nil, fmt.Errorf("rename chat: %w", err)
	}
	return chat, nil
}

// Delete removes the chat with all of its messages and responses in one
// transaction.
func (s *ChatService) Delete(ctx context.Context, caller Caller, id uint) error {
	if err := RequireRegular(caller, ActDeleteChat); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := s.owned(tx, caller, id)
		if err != nil {
			return err
		}
		msgIDs := tx.Model(&models.Message{}).Select("id").Where("chat_id = ?", chat.ID)
		if err := tx.Where("message_id IN (?)", msgIDs).Delete(&models.Response{}).Error; err != nil {
			return fmt.Errorf("delete responses: %w", err)
		}
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		if err := tx.Delete(chat).Error; err != nil {
			return fmt.Errorf("delete chat: %w", err)
		}
		return nil
	})
}

// Authorize checks that caller may act on chat id without loading it for
// the caller. It reports the same errors as Get.
func (s *ChatService) Authorize(ctx context.Context, caller Caller, id uint, action Action) error {
	if err := RequireRegular(caller, action); err != nil {
		return err
	}
	_, err := s.owned(s.db.WithContext(ctx), caller, id)
	return err
}

func (s *ChatService) owned(db *gorm.DB, caller Caller, id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := db.Where("user_id = ?", caller.UserID).First(&chat, id).Error; err != nil {
		return nil, chatLookupErr(err)
	}
	return &chat, nil
}

func chatLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errChatNotFound
	}
	return fmt.Errorf("find chat: %w", err)
}
