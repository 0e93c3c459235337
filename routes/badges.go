package routes

import (
	"github.com/christensenep/openbadger/controllers"

	"github.com/gin-gonic/gin"
)

func ListBadgesRouteHandler(c *gin.Context) {
	controllers.ListBadges(c)
}

func GetBadgeRouteHandler(c *gin.Context) {
	controllers.GetBadge(c)
}

func CreateBadgeRouteHandler(c *gin.Context) {
	controllers.CreateBadge(c)
}

func RedeemClaimCodeRouteHandler(c *gin.Context) {
	controllers.RedeemClaimCode(c)
}

func GetUnclaimedBadgeInfoRouteHandler(c *gin.Context) {
	controllers.GetUnclaimedBadgeInfo(c)
}
