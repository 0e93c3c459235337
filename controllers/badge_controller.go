package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christensenep/openbadger/models"
	"github.com/christensenep/openbadger/services"
)

// ListBadges returns the full badge catalog.
func ListBadges(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	badges, err := services.GetBadgeService().ListBadges(ctx)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "badges": badges})
}

// GetBadge returns one badge definition by shortname.
func GetBadge(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	badge, err := services.GetBadgeService().GetBadge(ctx, c.Param("shortname"))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "badge": badge})
}

// CreateBadgeRequest defines a new badge with its earning criteria and any
// pre-generated claim codes.
type CreateBadgeRequest struct {
	Shortname   string                       `json:"shortname" binding:"required"`
	Name        string                       `json:"name" binding:"required"`
	Description string                       `json:"description"`
	Image       string                       `json:"image"`
	Behaviors   []models.BehaviorRequirement `json:"behaviors"`
	ClaimCodes  []string                     `json:"claimCodes"`
}

// CreateBadge adds a badge definition to the catalog.
func CreateBadge(c *gin.Context) {
	var req CreateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "invalid request body"})
		return
	}

	badge := &models.Badge{
		Shortname:   req.Shortname,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Behaviors:   req.Behaviors,
	}
	for _, code := range req.ClaimCodes {
		badge.ClaimCodes = append(badge.ClaimCodes, models.ClaimCode{Code: code})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := services.GetBadgeService().CreateBadge(ctx, badge); err != nil {
		renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "badge": badge})
}
