package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"PumpPal/models"
	"PumpPal/pkg/database/dbtest"
	tokenstore "PumpPal/pkg/token"

	"gorm.io/gorm"
)

// stubCompleter returns a fixed Completion and records what it was asked.
type stubCompleter struct {
	mu      sync.Mutex
	reply   Completion
	onCall  func()
	prompts []string
	ctxErr  []error
}

func (s *stubCompleter) Complete(ctx context.Context, userText string) Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onCall != nil {
		s.onCall()
	}
	s.prompts = append(s.prompts, userText)
	s.ctxErr = append(s.ctxErr, ctx.Err())
	return s.reply
}

type fixture struct {
	db   *gorm.DB
	svc  *Services
	gate *stubCompleter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	gate := &stubCompleter{reply: Completion{Text: "Around 1.6 g of protein per kg of body weight."}}
	issuer := tokenstore.NewIssuer("test-secret", time.Hour, tokenstore.NewMemoryStore())
	return &fixture{db: db, svc: New(db, issuer, gate, nil), gate: gate}
}

// user inserts a user directly, skipping registration rules.
func (f *fixture) user(t *testing.T, name string, role models.Role) Caller {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Role: role}
	if err := u.SetPassword("password1"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := f.db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return CallerOf(&u)
}

func (f *fixture) chat(t *testing.T, owner Caller, title string) *models.Chat {
	t.Helper()
	c, err := f.svc.Chats.Create(context.Background(), owner, ChatInput{Title: title})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return c
}
