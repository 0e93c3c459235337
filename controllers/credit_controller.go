package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christensenep/openbadger/models"
	"github.com/christensenep/openbadger/services"
	"github.com/christensenep/openbadger/websocket"
)

// CreditRequest reports a batch of observed behaviors for a user. Each
// occurrence in Behaviors is one credit, so repeats count multiple times.
type CreditRequest struct {
	Email     string   `json:"email"`
	Behaviors []string `json:"behaviors"`
}

// CreditUser applies a behavior batch and returns the updated credit map
// plus the badges newly awarded and still in progress.
func CreditUser(c *gin.Context) {
	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := services.GetBadgeService().Credit(ctx, req.Email, req.Behaviors)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	for _, instance := range result.Awarded {
		websocket.BroadcastBadgeEvent(models.BadgeEvent{
			Type:      "badge_awarded",
			User:      instance.User,
			Badge:     instance.Badge,
			Timestamp: instance.IssuedOn,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"behaviors":  result.User.Credit,
		"awarded":    result.Awarded,
		"inProgress": result.InProgress,
	})
}
