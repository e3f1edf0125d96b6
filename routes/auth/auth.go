package auth

import (
	"PumpPal/controllers"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

// RegisterPublic registers public auth routes: /register, /login
func RegisterPublic(g *gin.RouterGroup, s *services.Services) {
	g.POST("/register", controllers.Register(s))
	g.POST("/login", controllers.Login(s))
}

// RegisterProtected registers protected auth routes (e.g. logout)
func RegisterProtected(g *gin.RouterGroup, s *services.Services) {
	g.POST("/logout", controllers.Logout(s))
}
