package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"PumpPal/pkg/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to status codes. Anything unrecognised
// is attached to the context for the request logger and answered with 500.
func respondError(c *gin.Context, err error) {
	var (
		verr *services.ValidationError
		ferr *services.ForbiddenError
		nerr *services.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": validationSummary(verr), "errors": verr.Fields})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.As(err, &ferr):
		c.JSON(http.StatusForbidden, gin.H{"message": ferr.Message})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, gin.H{"message": nerr.Message})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// validationSummary is the first field message (by field name) plus a
// count of the rest.
func validationSummary(verr *services.ValidationError) string {
	if len(verr.Fields) == 0 {
		return "The given data was invalid."
	}
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := verr.Fields[keys[0]]
	switch rest := len(keys) - 1; {
	case rest == 1:
		msg += " (and 1 more error)"
	case rest > 1:
		msg += fmt.Sprintf(" (and %d more errors)", rest)
	}
	return msg
}

// bindJSON decodes the request body into dst, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed JSON request body."})
		return false
	}
	return true
}

// pathID parses a numeric path parameter. A non-numeric id cannot match any
// row, so it is answered with notFound.
func pathID(c *gin.Context, name, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": notFound})
		return 0, false
	}
	return uint(id), true
}
