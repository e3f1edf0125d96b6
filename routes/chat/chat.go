package chat

import (
	"PumpPal/controllers"
	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register registers chat routes (protected, regular users only)
func Register(g *gin.RouterGroup, s *services.Services) {
	g.GET("/chats", middleware.RequireRegular(services.ActListChats), controllers.ListChats(s))
	g.POST("/chats", middleware.RequireRegular(services.ActCreateChat), controllers.CreateChat(s))
	g.GET("/chats/:id", middleware.RequireRegular(services.ActViewChat), controllers.GetChat(s))
	// the frontend renames with both verbs
	rename := middleware.RequireRegular(services.ActUpdateChat)
	g.PUT("/chats/:id", rename, controllers.UpdateChat(s))
	g.PATCH("/chats/:id", rename, controllers.UpdateChat(s))
	g.DELETE("/chats/:id", middleware.RequireRegular(services.ActDeleteChat), controllers.DeleteChat(s))
}
