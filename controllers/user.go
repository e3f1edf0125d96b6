package controllers

import (
	"net/http"

	"PumpPal/middleware"
	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

const userNotFound = "User not found."

func ListUsers(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.Users.List(c.Request.Context(), middleware.CurrentCaller(c))
		if err != nil {
			respondError(c, err)
			return
		}
		data := make([]gin.H, 0, len(users))
		for i := range users {
			data = append(data, userResource(&users[i]))
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

func GetUser(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", userNotFound)
		if !ok {
			return
		}
		user, err := s.Users.Get(c.Request.Context(), middleware.CurrentCaller(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": userResource(user)})
	}
}

// UpdateUser changes name, email and image_url; absent fields are kept and
// a null or empty image_url clears it.
func UpdateUser(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", userNotFound)
		if !ok {
			return
		}
		var body services.UpdateUserInput
		if !bindJSON(c, &body) {
			return
		}
		user, err := s.Users.Update(c.Request.Context(), middleware.CurrentCaller(c), id, body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": userResource(user)})
	}
}

func UserStatistics(s *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := s.Users.Statistics(c.Request.Context(), middleware.CurrentCaller(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": st})
	}
}
