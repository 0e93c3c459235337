package main

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/christensenep/openbadger/config"
	"github.com/christensenep/openbadger/db"
	"github.com/christensenep/openbadger/middlewares"
	"github.com/christensenep/openbadger/routes"
	"github.com/christensenep/openbadger/services"
	"github.com/christensenep/openbadger/utils"
	"github.com/christensenep/openbadger/websocket"
)

func main() {
	// Optional .env overlay for local development
	godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	services.InitBadgeService(db.CreditStore{}, db.BadgeStore{}, db.InstanceStore{}, cfg.Issuer, logger)

	utils.SeedBadges()

	router := setupRouter(logger)
	port := strconv.Itoa(cfg.Server.Port)
	logger.Info("server starting", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func setupRouter(logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger(logger))

	if err := router.SetTrustedProxies([]string{"127.0.0.1", "localhost"}); err != nil {
		logger.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	// Behavior crediting and user reads
	router.POST("/user/credit", routes.CreditUserRouteHandler)
	router.GET("/user", routes.GetCreditsAndBadgesRouteHandler)
	router.POST("/user/mark-all-read", routes.MarkAllBadgesSeenRouteHandler)

	// Badge catalog
	router.GET("/badges", routes.ListBadgesRouteHandler)
	router.GET("/badges/:shortname", routes.GetBadgeRouteHandler)
	router.POST("/badges", routes.CreateBadgeRouteHandler)

	// Claim codes
	router.POST("/claim", routes.RedeemClaimCodeRouteHandler)
	router.GET("/claim", routes.GetUnclaimedBadgeInfoRouteHandler)

	// Live badge award feed
	router.GET("/ws/badges", websocket.BadgeFeedHandler)

	return router
}
