package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"PumpPal/models"

	"gorm.io/gorm"
)

// OptionalString tells an absent JSON field apart from an explicit null.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// UpdateUserInput holds the fields an administrator may change. Absent
// fields are left alone.
type UpdateUserInput struct {
	Name     OptionalString `json:"name"`
	Email    OptionalString `json:"email"`
	ImageURL OptionalString `json:"image_url"`
}

type StatTotals struct {
	Users          int64 `json:"users"`
	RegularUsers   int64 `json:"regular_users"`
	Administrators int64 `json:"administrators"`
	Chats          int64 `json:"chats"`
	Messages       int64 `json:"messages"`
}

type StatDerived struct {
	UsersWithAtLeastOneChat int64   `json:"users_with_at_least_one_chat"`
	AvgChatsPerUser         float64 `json:"avg_chats_per_user"`
	AvgMessagesPerChat      float64 `json:"avg_messages_per_chat"`
	NewUsersLast7Days       int64   `json:"new_users_last_7_days"`
}

type TopUser struct {
	ID         uint        `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	ImageURL   *string     `json:"image_url"`
	ChatsCount int64       `json:"chats_count"`
}

type Statistics struct {
	Totals          StatTotals  `json:"totals"`
	Derived         StatDerived `json:"derived"`
	TopUsersByChats []TopUser   `json:"top_users_by_chats"`
}

const topUsersLimit = 5

type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

var errUserNotFound = &NotFoundError{Message: "User not found."}

func (s *UserService) List(ctx context.Context, caller Caller) ([]models.User, error) {
	if err := RequireAdministrator(caller, ActListUsers); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, caller Caller, id uint) (*models.User, error) {
	if err := RequireAdministrator(caller, ActViewUser); err != nil {
		return nil, err
	}
	return s.find(s.db.WithContext(ctx), id)
}

// Update applies the present fields of in. Role and password cannot be
// changed here.
func (s *UserService) Update(ctx context.Context, caller Caller, id uint, in UpdateUserInput) (*models.User, error) {
	if err := RequireAdministrator(caller, ActUpdateUser); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	user, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	changes := map[string]any{}
	if in.Name.Set {
		name := strings.TrimSpace(in.Name.Value)
		checkVar(fields, "name", name, "required,max=255")
		changes["name"] = name
	}
	if in.Email.Set {
		email := normalizeEmail(in.Email.Value)
		checkVar(fields, "email", email, "required,email,max=255")
		if _, bad := fields["email"]; !bad {
			taken, err := emailInUse(db, email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				fields["email"] = emailTaken
			}
		}
		changes["email"] = email
	}
	if in.ImageURL.Set {
		url := strings.TrimSpace(in.ImageURL.Value)
		if in.ImageURL.Null || url == "" {
			changes["image_url"] = nil
		} else {
			checkVar(fields, "image_url", url, "url")
			changes["image_url"] = url
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := db.Model(user).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("email", emailTaken)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.find(db, id)
}

// Statistics summarises users, chats and messages for the admin dashboard.
func (s *UserService) Statistics(ctx context.Context, caller Caller) (*Statistics, error) {
	if err := RequireAdministrator(caller, ActUserStats); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	st := &Statistics{TopUsersByChats: []TopUser{}}

	counts := []struct {
		dst *int64
		q   *gorm.DB
	}{
		{&st.Totals.Users, db.Model(&models.User{})},
		{&st.Totals.RegularUsers, db.Model(&models.User{}).Where("role = ?", models.RoleRegular)},
		{&st.Totals.Administrators, db.Model(&models.User{}).Where("role = ?", models.RoleAdministrator)},
		{&st.Totals.Chats, db.Model(&models.Chat{})},
		{&st.Totals.Messages, db.Model(&models.Message{})},
		{&st.Derived.UsersWithAtLeastOneChat, db.Model(&models.User{}).
			Where("EXISTS (SELECT 1 FROM chats WHERE chats.user_id = users.id)")},
		{&st.Derived.NewUsersLast7Days, db.Model(&models.User{}).
			Where("created_at >= ?", s.now().UTC().AddDate(0, 0, -7))},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("statistics count: %w", err)
		}
	}

	st.Derived.AvgChatsPerUser = ratio(st.Totals.Chats, st.Totals.Users)
	st.Derived.AvgMessagesPerChat = ratio(st.Totals.Messages, st.Totals.Chats)

	err := db.Model(&models.User{}).
		Select("users.id, users.name, users.email, users.role, users.image_url, COUNT(chats.id) AS chats_count").
		Joins("LEFT JOIN chats ON chats.user_id = users.id").
		Group("users.id, users.name, users.email, users.role, users.image_url").
		Order("chats_count DESC, users.id ASC").
		Limit(topUsersLimit).
		Scan(&st.TopUsersByChats).Error
	if err != nil {
		return nil, fmt.Errorf("statistics top users: %w", err)
	}
	return st, nil
}

func (s *UserService) find(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ratio is num/den rounded to two decimals, or 0 when den is 0.
func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*100) / 100
}
