package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christensenep/openbadger/services"
)

// GetCreditsAndBadges returns everything known about a user: the credit map
// and awarded badge instances keyed by badge shortname. A user the system
// has never seen gets empty maps, not a 404.
func GetCreditsAndBadges(c *gin.Context) {
	email := c.Query("email")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := services.GetBadgeService().GetCreditsAndBadges(ctx, email)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"behaviors": result.Behaviors,
		"badges":    result.Badges,
	})
}

// MarkBadgesSeenRequest identifies whose badges to acknowledge.
type MarkBadgesSeenRequest struct {
	Email string `json:"email"`
}

// MarkAllBadgesSeen flags every badge instance of a user as viewed.
func MarkAllBadgesSeen(c *gin.Context) {
	var req MarkBadgesSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := services.GetBadgeService().MarkAllBadgesSeen(ctx, req.Email); err != nil {
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
