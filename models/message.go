package models

import (
	"errors"
	"time"
)

// ReplyState is the answer state of a message. A message starts Unanswered
// and moves to Answered exactly once.
type ReplyState uint8

const (
	Unanswered ReplyState = iota
	Answered
)

func (s ReplyState) String() string {
	if s == Answered {
		return "answered"
	}
	return "unanswered"
}

var ErrAlreadyAnswered = errors.New("message already has a response")

type Message struct {
	ID        uint      `gorm:"primaryKey"`
	ChatID    uint      `gorm:"not null;index:idx_chat_messages,priority:1"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_chat_messages,priority:2"`
	UpdatedAt time.Time
	Response  *Response `gorm:"constraint:OnDelete:CASCADE"`
}

func (m *Message) State() ReplyState {
	if m.Response == nil {
		return Unanswered
	}
	return Answered
}

// Answer builds the response row for m and attaches it. It fails if m has
// already been answered; the caller is responsible for persisting the row.
func (m *Message) Answer(content string) (*Response, error) {
	if m.State() == Answered {
		return nil, ErrAlreadyAnswered
	}
	r := &Response{MessageID: m.ID, Content: content}
	m.Response = r
	return r, nil
}

// Response is the assistant reply to a message. MessageID is unique, so a
// message can never hold more than one response.
type Response struct {
	ID        uint      `gorm:"primaryKey"`
	MessageID uint      `gorm:"not null;uniqueIndex"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
