package message

import (
	"PumpPal/controllers"
	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register registers message and response routes (protected, regular users only)
func Register(g *gin.RouterGroup, s *services.Services) {
	g.GET("/chats/:id/messages", middleware.RequireRegular(services.ActListMessage), controllers.ListMessages(s))
	g.POST("/chats/:id/messages", middleware.RequireRegular(services.ActSendMessage), controllers.SendMessage(s))
	g.GET("/messages/:id", middleware.RequireRegular(services.ActViewMessage), controllers.GetMessage(s))
	g.GET("/messages/:id/response", middleware.RequireRegular(services.ActViewReply), controllers.GetResponse(s))
}
