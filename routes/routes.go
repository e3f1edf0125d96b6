package routes

import (
	"net/http"

	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	authRoutes "PumpPal/routes/auth"
	chatRoutes "PumpPal/routes/chat"
	messageRoutes "PumpPal/routes/message"
	profileRoutes "PumpPal/routes/profile"
	userRoutes "PumpPal/routes/user"
)

func RegisterRoutes(r *gin.Engine, s *services.Services, log *zap.Logger) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "PumpPal backend running"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found."})
	})

	api := r.Group("/api")
	authRoutes.RegisterPublic(api, s)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(s.Auth, log))
	authRoutes.RegisterProtected(protected, s)
	profileRoutes.Register(protected)

	// chats and messages are for regular users, user management for
	// administrators; each area mounts its own role check
	chatRoutes.Register(protected, s)
	messageRoutes.Register(protected, s)
	userRoutes.Register(protected, s)
}
