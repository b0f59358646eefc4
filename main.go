// File: tripmate/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripmate/config"
	"tripmate/database"
	chatRepoPkg "tripmate/database/repository/chat"
	itineraryRepoPkg "tripmate/database/repository/itinerary"
	"tripmate/handlers"
	"tripmate/middleware"
	"tripmate/routes"
	ai "tripmate/services/intelligence"
	"tripmate/services/planengine"
	"tripmate/services/tripmate"
	"tripmate/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitChatCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	itineraryRepo := itineraryRepoPkg.NewMongoItineraryRepo()
	chatRepo := chatRepoPkg.NewMongoChatRepo()

	// The AI capability is optional. A nil capability keeps every engine
	// path on its deterministic fallback.
	capability := ai.NewCapabilityFromConfig()
	if capability == nil {
		logger.Sugar().Warn("main: no AI capability configured, running on deterministic fallbacks only")
	}
	aiTimeout := time.Duration(config.AppConfig.AITimeoutSeconds) * time.Second

	// services.
	planEngine := &planengine.DefaultPlanEngine{
		Capability: capability,
		Timeout:    aiTimeout,
	}
	tripMateService := &tripmate.DefaultTripMateService{
		Capability: capability,
		Plan:       planEngine,
		Timeout:    aiTimeout,
	}

	conversations := ai.NewRedisConversationStore(utils.GetChatCacheClient(), 30*time.Minute)

	handlerBundle := &routes.HandlerBundle{
		Itinerary: handlers.NewItineraryHandler(itineraryRepo, planEngine),
		Chat:      handlers.NewChatHandler(chatRepo, itineraryRepo, tripMateService, conversations),
	}

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetChatCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
