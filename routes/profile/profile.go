package profile

import (
	"PumpPal/controllers"

	"github.com/gin-gonic/gin"
)

// Register registers the read-only profile route (protected)
func Register(g *gin.RouterGroup) {
	g.GET("/profile", controllers.Profile())
}
