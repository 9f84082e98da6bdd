package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/app"
	iauth "github.com/wardrobify/wardrobify/internal/auth"
	"github.com/wardrobify/wardrobify/internal/handlers"
	"github.com/wardrobify/wardrobify/internal/middleware"
	"github.com/wardrobify/wardrobify/internal/realtime"
	"github.com/wardrobify/wardrobify/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, cfg *app.Config, sessions *iauth.SessionService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}

	userSvc, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	sensorSvc, err := services.NewSensorService(db)
	if err != nil {
		return nil, err
	}
	clothingSvc, err := services.NewClothingService(db)
	if err != nil {
		return nil, err
	}
	readingSvc, err := services.NewReadingService(db)
	if err != nil {
		return nil, err
	}
	recSvc, err := services.NewRecommendationService(cfg.Services.RecommendationConfig())
	if err != nil {
		return nil, err
	}

	relay := realtime.NewRelay(sensorSvc, readingSvc, realtime.RelayConfig{Interval: cfg.Relay.Interval})

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(userSvc, sessions)
	r.POST("/login", authHandler.Login)
	r.POST("/signup", authHandler.Signup)
	r.POST("/logout", authHandler.Logout)

	// Machine ingest authenticates with the shared key, never with sessions.
	ingestHandler := handlers.NewIngestHandler(readingSvc, cfg.Ingest.APIKey)
	r.POST("/api/data", ingestHandler.Ingest)

	requireSession := middleware.RequireSession(sessions)
	requirePage := middleware.RequireSessionPage(sessions)

	api := r.Group("/api")
	api.Use(requireSession)

	userHandler := handlers.NewUserHandler(userSvc)
	api.GET("/user", userHandler.GetCurrent)
	api.GET("/user/:username", userHandler.GetByUsername)
	api.PUT("/user", userHandler.Update)
	api.DELETE("/user", userHandler.Delete)

	sensorHandler := handlers.NewSensorHandler(sensorSvc, readingSvc)
	sensors := api.Group("/sensors")
	{
		sensors.GET("", sensorHandler.List)
		sensors.GET("/:id", sensorHandler.Get)
		sensors.GET("/:id/data", sensorHandler.RecentData)
		sensors.POST("", sensorHandler.Create)
		sensors.PUT("/:id", sensorHandler.Update)
		sensors.DELETE("/:id", sensorHandler.Delete)
	}

	clothingHandler := handlers.NewClothingHandler(clothingSvc)
	clothes := api.Group("/clothes")
	{
		clothes.GET("", clothingHandler.List)
		clothes.GET("/:id", clothingHandler.Get)
		clothes.POST("", clothingHandler.Create)
		clothes.PUT("/:id", clothingHandler.Update)
		clothes.DELETE("/:id", clothingHandler.Delete)
	}

	recHandler := handlers.NewRecommendationHandler(userSvc, clothingSvc, recSvc)
	api.GET("/ai-wardrobe-recommendation", recHandler.Recommend)

	realtimeHandler := handlers.NewRealtimeHandler(relay)
	r.GET("/ws", requireSession, realtimeHandler.Stream)

	pageHandler := handlers.NewPageHandler(sessions)
	r.GET("/", pageHandler.Public("index"))
	r.GET("/login", pageHandler.Public("login"))
	r.GET("/signup", pageHandler.Public("signup"))
	r.GET("/dashboard", requirePage, pageHandler.Private("dashboard"))
	r.GET("/wardrobe", requirePage, pageHandler.Private("wardrobe"))
	r.GET("/profile/:username", requirePage, pageHandler.Profile)

	return r, nil
}
