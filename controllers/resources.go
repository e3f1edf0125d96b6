package controllers

import (
	"time"

	"PumpPal/models"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func userResource(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"imageUrl":  u.ImageURL,
		"createdAt": formatTime(u.CreatedAt),
		"updatedAt": formatTime(u.UpdatedAt),
	}
}

func authResource(res *services.AuthResult) gin.H {
	return gin.H{
		"message":  res.Message,
		"id":       res.User.ID,
		"name":     res.User.Name,
		"email":    res.User.Email,
		"role":     res.User.Role,
		"imageUrl": res.User.ImageURL,
		"token":    res.Token,
	}
}

func chatSummary(ch *models.Chat) gin.H {
	return gin.H{
		"id":         ch.ID,
		"title":      ch.Title,
		"created_at": formatTime(ch.CreatedAt),
		"updated_at": formatTime(ch.UpdatedAt),
	}
}

// chatResource renders a chat with its history as message/response pairs.
func chatResource(ch *models.Chat) gin.H {
	pairs := make([]gin.H, 0, len(ch.Messages))
	for i := range ch.Messages {
		m := &ch.Messages[i]
		pairs = append(pairs, gin.H{
			"message": gin.H{
				"id":         m.ID,
				"content":    m.Content,
				"created_at": formatTime(m.CreatedAt),
			},
			"response": responseResource(m.Response),
		})
	}
	out := chatSummary(ch)
	out["pairs"] = pairs
	return out
}

func messageResource(m *models.Message) gin.H {
	return gin.H{
		"id":         m.ID,
		"content":    m.Content,
		"created_at": formatTime(m.CreatedAt),
		"response":   responseResource(m.Response),
	}
}

// responseResource returns nil for an unanswered message so it encodes as null.
func responseResource(r *models.Response) any {
	if r == nil {
		return nil
	}
	return gin.H{
		"id":         r.ID,
		"content":    r.Content,
		"created_at": formatTime(r.CreatedAt),
	}
}
