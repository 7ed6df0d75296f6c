package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

func handleError(c *gin.Context, err error) {
	var malformed *domain.MalformedInputError

	switch {
	case errors.As(err, &malformed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "malformed habit data",
			"line":   malformed.Line,
			"column": malformed.Column,
			"reason": malformed.Reason,
		})

	case errors.Is(err, domain.ErrMalformedInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed habit data"})

	case errors.Is(err, domain.ErrPersonNotFound) || errors.Is(err, domain.ErrWeekNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrInvalidQuery) || errors.Is(err, domain.ErrUnknownHabit) || errors.Is(err, domain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

	case errors.Is(err, domain.ErrSourceUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "habit data unavailable"})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
