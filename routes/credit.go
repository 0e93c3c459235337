package routes

import (
	"github.com/christensenep/openbadger/controllers"

	"github.com/gin-gonic/gin"
)

func CreditUserRouteHandler(c *gin.Context) {
	controllers.CreditUser(c)
}

func GetCreditsAndBadgesRouteHandler(c *gin.Context) {
	controllers.GetCreditsAndBadges(c)
}

func MarkAllBadgesSeenRouteHandler(c *gin.Context) {
	controllers.MarkAllBadgesSeen(c)
}
