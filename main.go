package main

import (
	"context"
	"log"
	"time"

	"PumpPal/middleware"
	"PumpPal/pkg/config"
	"PumpPal/pkg/database"
	"PumpPal/pkg/logger"
	"PumpPal/pkg/services"
	tokenstore "PumpPal/pkg/token"
	"PumpPal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(config.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.Open(config.DBDriver, config.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("failed migrate", zap.Error(err))
	}

	var store tokenstore.Store = tokenstore.NewMemoryStore()
	if config.RedisURL != "" {
		rdb, err := tokenstore.DialRedis(context.Background(), config.RedisURL)
		if err != nil {
			zl.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		store = tokenstore.NewRedisStore(rdb)
		zl.Info("token revocation backed by redis")
	} else {
		zl.Warn("REDIS_URL not set; token revocation is kept in memory and lost on restart")
	}
	issuer := tokenstore.NewIssuer(config.JWTSecret, time.Duration(config.TokenTTLHours)*time.Hour, store)

	gateway := services.NewInferenceGateway(services.GatewayConfig{
		BaseURL:      config.InferenceBaseURL,
		Token:        config.GitHubToken,
		Model:        config.InferenceModel,
		SystemPrompt: config.InferenceSystemPrompt,
		Timeout:      time.Duration(config.InferenceTimeoutSeconds) * time.Second,
	}, zl)

	svc := services.New(db, issuer, gateway, zl)

	if config.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(zl), middleware.RequestLogger(zl))

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, svc, zl)

	zl.Info("listening", zap.String("port", config.Port), zap.String("env", config.AppEnv))
	if err := r.Run(":" + config.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
