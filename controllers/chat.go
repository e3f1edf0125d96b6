package controllers

import (
	"fmt"
	"net/http"

	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

const chatNotFound = "Chat not found."

func ListChats(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		chats, err := s.Chats.List(c.Request.Context(), middleware.CurrentCaller(c))
		if err != nil {
			respondError(c, err)
			return
		}
		data := make([]gin.H, 0, len(chats))
		for i := range chats {
			data = append(data, chatSummary(&chats[i]))
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

func GetChat(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", chatNotFound)
		if !ok {
			return
		}
		chat, err := s.Chats.Get(c.Request.Context(), middleware.CurrentCaller(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": chatResource(chat)})
	}
}

func CreateChat(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body services.ChatInput
		if !bindJSON(c, &body) {
			return
		}
		chat, err := s.Chats.Create(c.Request.Context(), middleware.CurrentCaller(c), body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": chatResource(chat)})
	}
}

// UpdateChat renames a chat; the title is the only editable field.
func UpdateChat(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", chatNotFound)
		if !ok {
			return
		}
		caller := middleware.CurrentCaller(c)
		if err := s.Chats.Authorize(c.Request.Context(), caller, id, services.ActUpdateChat); err != nil {
			respondError(c, err)
			return
		}
		var body services.ChatInput
		if !bindJSON(c, &body) {
			return
		}
		chat, err := s.Chats.Rename(c.Request.Context(), caller, id, body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": chatSummary(chat)})
	}
}

func DeleteChat(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", chatNotFound)
		if !ok {
			return
		}
		if err := s.Chats.Delete(c.Request.Context(), middleware.CurrentCaller(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Chat %d deleted successfully.", id)})
	}
}
