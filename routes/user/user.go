package user

import (
	"PumpPal/controllers"
	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register registers user administration routes (protected, administrators only)
func Register(g *gin.RouterGroup, s *services.Services) {
	g.GET("/users", middleware.RequireAdministrator(services.ActListUsers), controllers.ListUsers(s))
	g.GET("/users/statistics", middleware.RequireAdministrator(services.ActUserStats), controllers.UserStatistics(s))
	g.GET("/users/:id", middleware.RequireAdministrator(services.ActViewUser), controllers.GetUser(s))
	update := middleware.RequireAdministrator(services.ActUpdateUser)
	g.PUT("/users/:id", update, controllers.UpdateUser(s))
	g.PATCH("/users/:id", update, controllers.UpdateUser(s))
}
