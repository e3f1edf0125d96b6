package controllers

import (
	"net/http"

	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

const messageNotFound = "Message not found."

func ListMessages(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := pathID(c, "id", chatNotFound)
		if !ok {
			return
		}
		msgs, err := s.Messages.List(c.Request.Context(), middleware.CurrentCaller(c), chatID)
		if err != nil {
			respondError(c, err)
			return
		}
		data := make([]gin.H, 0, len(msgs))
		for i := range msgs {
			data = append(data, messageResource(&msgs[i]))
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

// SendMessage stores the message, gets the assistant reply and returns both.
// The reply is always present; gateway trouble shows up as fallback text.
func SendMessage(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := pathID(c, "id", chatNotFound)
		if !ok {
			return
		}
		caller := middleware.CurrentCaller(c)
		if err := s.Messages.Authorize(c.Request.Context(), caller, chatID); err != nil {
			respondError(c, err)
			return
		}
		var body services.SendInput
		if !bindJSON(c, &body) {
			return
		}
		msg, err := s.Messages.Send(c.Request.Context(), caller, chatID, body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": messageResource(msg)})
	}
}

func GetMessage(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", messageNotFound)
		if !ok {
			return
		}
		msg, err := s.Messages.Get(c.Request.Context(), middleware.CurrentCaller(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": messageResource(msg)})
	}
}

func GetResponse(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", messageNotFound)
		if !ok {
			return
		}
		resp, err := s.Messages.GetResponse(c.Request.Context(), middleware.CurrentCaller(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": responseResource(resp)})
	}
}
