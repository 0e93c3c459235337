package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christensenep/openbadger/models"
	"github.com/christensenep/openbadger/services"
	"github.com/christensenep/openbadger/websocket"
)

// RedeemClaimCodeRequest carries a claim-code redemption. Badge is optional;
// codes are looked up across all badges when it is absent.
type RedeemClaimCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	Badge string `json:"badge,omitempty"`
}

// RedeemClaimCode spends a claim code and awards its badge to the caller.
func RedeemClaimCode(c *gin.Context) {
	var req RedeemClaimCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	instance, err := services.GetBadgeService().RedeemClaimCode(ctx, req.Badge, req.Code, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUnknownClaimCode) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "reason": "unknown claim code", "code": req.Code})
			return
		}
		renderServiceError(c, err)
		return
	}

	websocket.BroadcastBadgeEvent(models.BadgeEvent{
		Type:      "badge_awarded",
		User:      instance.User,
		Badge:     instance.Badge,
		Timestamp: instance.IssuedOn,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok", "badge": instance})
}

// GetUnclaimedBadgeInfo returns the badge definition behind an unclaimed
// claim code, so a claim page can show what is being claimed.
func GetUnclaimedBadgeInfo(c *gin.Context) {
	code := c.Query("code")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	badge, err := services.GetBadgeService().GetUnclaimedBadgeInfo(ctx, code)
	if err != nil {
		if errors.Is(err, services.ErrUnknownClaimCode) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "reason": "unknown claim code", "code": code})
			return
		}
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "badge": badge})
}
