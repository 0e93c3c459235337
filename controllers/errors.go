package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/christensenep/openbadger/services"
)

// renderServiceError maps the service error taxonomy onto the wire format.
// Store failures are logged server-side but never leaked to callers.
func renderServiceError(c *gin.Context, err error) {
	var claimedErr *services.AlreadyClaimedError
	switch {
	case errors.Is(err, services.ErrMissingClaimCode):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "missing claim code"})
	case errors.Is(err, services.ErrMissingEmail):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "missing email address"})
	case errors.Is(err, services.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "invalid email address"})
	case errors.Is(err, services.ErrNoBehaviors):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "missing behaviors"})
	case errors.Is(err, services.ErrInvalidBehavior):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "invalid behavior shortname"})
	case errors.As(err, &claimedErr):
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"reason": claimedErr.Error(),
			"code":   "already-claimed",
		})
	case errors.Is(err, services.ErrUnknownClaimCode):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "reason": "unknown claim code"})
	case errors.Is(err, services.ErrUnknownBadge):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "reason": "unknown badge"})
	case errors.Is(err, services.ErrBadgeExists):
		c.JSON(http.StatusConflict, gin.H{"status": "error", "reason": "badge shortname already exists"})
	default:
		zap.L().Error("badge service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "reason": "internal error"})
	}
}
