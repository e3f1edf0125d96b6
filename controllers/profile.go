package controllers

import (
	"net/http"

	"PumpPal/middleware"

	"github.com/gin-gonic/gin"
)

// Profile shows the authenticated user. Changes go through the admin
// user endpoints.
func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": userResource(user)})
	}
}
