package main

import (
	"log"
	"net/http"

	"github.com/Masa6314/Tuji-hack/internal/config"
	"github.com/Masa6314/Tuji-hack/internal/database"
	"github.com/Masa6314/Tuji-hack/internal/handlers"
	"github.com/Masa6314/Tuji-hack/internal/line"
	"github.com/Masa6314/Tuji-hack/internal/middleware"
	"github.com/Masa6314/Tuji-hack/internal/services"
	"github.com/Masa6314/Tuji-hack/internal/ws"

	_ "github.com/Masa6314/Tuji-hack/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Well-being Survey API
// @version         1.0
// @description     Webhook ingestion and dashboards for daily well-being surveys delivered over LINE
// @host            localhost:8000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	lineClient := line.NewClient(cfg.LineChannelAccessToken)
	notifier := line.NewNotifier(lineClient, cfg.FormBaseURL, cfg.FormEntryID, cfg.AppBaseURL)

	scoringService := services.NewScoringService()
	identityService := services.NewIdentityService(db)
	ingestService := services.NewIngestService(db, identityService, cfg)
	aggregationService := services.NewAggregationService(db, scoringService, cfg.Location)
	authService := services.NewAuthService(db, cfg.JWTSecret)

	formHandler := handlers.NewFormWebhookHandler(ingestService, identityService, aggregationService, hub)
	lineHandler := handlers.NewLineWebhookHandler(identityService, lineClient, notifier)
	identityHandler := handlers.NewIdentityHandler(identityService, aggregationService, lineClient)
	dashboardHandler := handlers.NewDashboardHandler(identityService, aggregationService)
	authHandler := handlers.NewAuthHandler(authService)
	broadcastHandler := handlers.NewBroadcastHandler(lineClient, cfg.FormBaseURL)
	wsHandler := handlers.NewWSHandler(hub, identityService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Webhook-Token", "X-Line-Signature"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/ws/dashboard/:channel", wsHandler.HandleDashboard)

	r.POST("/api/forms/google", middleware.FormWebhookAuth(cfg.WebhookToken), formHandler.Receive)
	r.POST("/callback", middleware.LineSignature(cfg.LineChannelSecret), lineHandler.Callback)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		api.GET("/dashboard/:token", dashboardHandler.GetUserDashboard)

		backoffice := api.Group("")
		backoffice.Use(middleware.JWTAuth(authService))
		{
			backoffice.GET("/overview", identityHandler.Overview)
			backoffice.GET("/ranking", identityHandler.Ranking)
			backoffice.POST("/broadcast", broadcastHandler.Send)
		}
	}

	r.POST("/register_line_user", middleware.JWTAuth(authService), identityHandler.RegisterLineUser)

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
