// Package services holds the business operations behind the HTTP handlers.
// Every operation that acts on behalf of a user takes the Caller explicitly;
// nothing here reads request state.
package services

import (
	"PumpPal/models"
	"PumpPal/pkg/logger"
	tokenstore "PumpPal/pkg/token"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Caller is the authenticated user an operation runs for.
type Caller struct {
	UserID uint
	Role   models.Role
}

func CallerOf(u *models.User) Caller {
	return Caller{UserID: u.ID, Role: u.Role}
}

func (c Caller) IsRegular() bool       { return c.Role == models.RoleRegular }
func (c Caller) IsAdministrator() bool { return c.Role == models.RoleAdministrator }

type Services struct {
	Auth     *AuthService
	Chats    *ChatService
	Messages *MessageService
	Users    *UserService
}

func New(db *gorm.DB, issuer *tokenstore.Issuer, gateway Completer, log *zap.Logger) *Services {
	log = logger.OrNop(log)
	return &Services{
		Auth:     NewAuthService(db, issuer, log),
		Chats:    NewChatService(db),
		Messages: NewMessageService(db, gateway, log),
		Users:    NewUserService(db),
	}
}
