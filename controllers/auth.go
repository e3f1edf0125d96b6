package controllers

import (
	"net/http"

	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register handler
func Register(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body services.RegisterInput
		if !bindJSON(c, &body) {
			return
		}
		res, err := s.Auth.Register(c.Request.Context(), body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, authResource(res))
	}
}

// Login handler
func Login(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body services.LoginInput
		if !bindJSON(c, &body) {
			return
		}
		res, err := s.Auth.Login(c.Request.Context(), body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, authResource(res))
	}
}

// Logout revokes every token of the current user.
func Logout(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, err := s.Auth.Logout(c.Request.Context(), middleware.CurrentCaller(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}
