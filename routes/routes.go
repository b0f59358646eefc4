package routes

import (
	"net/http"
	"time"

	"tripmate/handlers"
	"tripmate/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Itinerary *handlers.ItineraryHandler
	Chat      *handlers.ChatHandler
}

// RegisterItineraryRoutes registers itinerary generation and editing endpoints.
func RegisterItineraryRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/itinerary")
	{
		api.POST("/generate", hb.Itinerary.GenerateItineraryHandler)
		api.GET("/list", hb.Itinerary.ListItinerariesHandler)
		api.GET("/id/:id", hb.Itinerary.GetItineraryHandler)
		api.PUT("/edit/:id", hb.Itinerary.EditItineraryHandler)
		api.GET("/edits/:id", hb.Itinerary.ListEditsHandler)
		api.DELETE("/delete/:id", hb.Itinerary.DeleteItineraryHandler)
	}
}

// RegisterChatRoutes registers the conversational endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.POST("/start", hb.Chat.StartChatSessionHandler)
		api.POST("/send", hb.Chat.SendMessageHandler)
		api.GET("/history/:sessionID", hb.Chat.GetChatHistoryHandler)
		api.POST("/end", hb.Chat.EndChatSessionHandler)
		api.GET("/sessions", hb.Chat.ListChatSessionsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hi, I'm TripMate",
			"deps":    utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterItineraryRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterHealthRoute(r)
}
