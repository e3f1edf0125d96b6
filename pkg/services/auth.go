package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PumpPal/models"
	"PumpPal/pkg/logger"
	tokenstore "PumpPal/pkg/token"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const emailTaken = "The email has already been taken."

type RegisterInput struct {
	Name                 string  `json:"name" validate:"required,max=255"`
	Email                string  `json:"email" validate:"required,email,max=255"`
	Password             string  `json:"password" validate:"required,min=8,strongpassword"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"eqfield=Password"`
	Role                 string  `json:"role" validate:"required,oneof=regular administrator"`
	ImageURL             *string `json:"image_url" validate:"omitempty,url"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	User    models.User
	Token   string
	Message string
}

type AuthService struct {
	db     *gorm.DB
	issuer *tokenstore.Issuer
	log    *zap.Logger
}

func NewAuthService(db *gorm.DB, issuer *tokenstore.Issuer, log *zap.Logger) *AuthService {
	return &AuthService{db: db, issuer: issuer, log: logger.OrNop(log)}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.ImageURL = blankToNil(in.ImageURL)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	taken, err := emailInUse(db, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, newValidationError("email", emailTaken)
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Role:     models.Role(in.Role),
		ImageURL: in.ImageURL,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("email", emailTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issuer.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &AuthResult{User: user, Token: token, Message: RoleMessage(user.Role, ActionRegistered)}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.CheckPassword(in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token, Message: RoleMessage(user.Role, ActionLoggedIn)}, nil
}

// Logout revokes every token issued to the caller, not only the one used
// for this request.
func (s *AuthService) Logout(ctx context.Context, caller Caller) (string, error) {
	if err := s.issuer.RevokeAll(ctx, caller.UserID); err != nil {
		return "", fmt.Errorf("revoke tokens: %w", err)
	}
	s.log.Info("user logged out", zap.Uint("user_id", caller.UserID))
	return RoleMessage(caller.Role, ActionLoggedOut), nil
}

// Authenticate resolves a bearer token to its user. Any token problem,
// including a deleted user, comes back as tokenstore.ErrInvalidToken or
// tokenstore.ErrRevoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = s.db.WithContext(ctx).First(&user, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tokenstore.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load token user: %w", err)
	}
	return &user, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// emailInUse reports whether another user already owns email. exceptID
// excludes that user's own row; pass 0 to check every row.
func emailInUse(db *gorm.DB, email string, exceptID uint) (bool, error) {
	q := db.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}
