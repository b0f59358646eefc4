package handlers

import (
	"errors"
	"net/http"
	"strings"

	chatRepo "tripmate/database/repository/chat"
	itineraryRepo "tripmate/database/repository/itinerary"
	"tripmate/models"
	ai "tripmate/services/intelligence"
	"tripmate/services/tripmate"
	"tripmate/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const welcomeMessage = "Hi! I'm TripMate, your personal travel assistant. I can help you edit your itinerary, answer questions, or suggest improvements. What would you like to do?"

// ChatHandler serves the conversational editing endpoints. It owns the
// plumbing around the engine: transcript persistence, the Redis context
// cache, itinerary persistence and the edit audit trail.
type ChatHandler struct {
	ChatRepo      chatRepo.ChatRepository
	ItineraryRepo itineraryRepo.ItineraryRepository
	TripMate      tripmate.TripMateService
	Conversations ai.ConversationStore
}

func NewChatHandler(
	chats chatRepo.ChatRepository,
	itineraries itineraryRepo.ItineraryRepository,
	svc tripmate.TripMateService,
	conversations ai.ConversationStore,
) *ChatHandler {
	return &ChatHandler{
		ChatRepo:      chats,
		ItineraryRepo: itineraries,
		TripMate:      svc,
		Conversations: conversations,
	}
}

// StartChatSessionHandler opens a session bound to an itinerary and seeds
// the transcript with the welcome message.
func (h *ChatHandler) StartChatSessionHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		ItineraryID string `json:"itinerary_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if _, err := h.ItineraryRepo.GetByID(c.Request.Context(), req.ItineraryID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "itinerary not found", err.Error())
		return
	}

	sessionID := uuid.New().String()
	session := models.ChatSession{
		SessionID:   sessionID,
		ItineraryID: req.ItineraryID,
	}
	if err := h.ChatRepo.CreateSession(c.Request.Context(), session); err != nil {
		logger.Error("Failed to create chat session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to start session", err.Error())
		return
	}

	welcome := models.ChatMessage{
		SessionID:   sessionID,
		MessageType: models.MessageAssistant,
		Content:     welcomeMessage,
		Metadata:    map[string]interface{}{"type": "welcome"},
	}
	if _, err := h.ChatRepo.AppendMessage(c.Request.Context(), welcome); err != nil {
		logger.Error("Failed to store welcome message", zap.Error(err), zap.String("sessionId", sessionID))
	}
	h.cacheTurns(c, sessionID, models.ChatTurn{Role: models.MessageAssistant, Content: welcomeMessage})

	c.JSON(http.StatusCreated, gin.H{
		"session_id":      sessionID,
		"welcome_message": welcomeMessage,
	})
}

// SendMessageHandler runs one conversational turn: persist the user
// message, process it through the engine with the cached conversation
// context, persist the updated document plus its audit record when an edit
// was applied, and only then persist the reply.
func (h *ChatHandler) SendMessageHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.SessionID == "" || req.Message == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "session_id and message are required")
		return
	}

	session, err := h.ChatRepo.GetSession(c.Request.Context(), req.SessionID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "chat session not found", err.Error())
		return
	}

	stored, err := h.ItineraryRepo.GetByID(c.Request.Context(), session.ItineraryID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "itinerary not found", err.Error())
		return
	}

	userMsg := models.ChatMessage{
		SessionID:   req.SessionID,
		MessageType: models.MessageUser,
		Content:     req.Message,
	}
	if _, err := h.ChatRepo.AppendMessage(c.Request.Context(), userMsg); err != nil {
		logger.Error("Failed to store user message", zap.Error(err), zap.String("sessionId", req.SessionID))
	}

	// Recent cached turns give the capability conversational context. A
	// cache miss or failure just means a context-free turn.
	var history []models.ChatTurn
	if h.Conversations != nil {
		history, err = h.Conversations.Get(c.Request.Context(), req.SessionID)
		if err != nil {
			logger.Warn("Failed to load conversation context", zap.Error(err), zap.String("sessionId", req.SessionID))
			history = nil
		}
	}

	result, err := h.TripMate.ProcessMessage(c.Request.Context(), req.Message, stored.Data, history)
	if err != nil {
		// A document shape violation is an upstream contract breach, not a
		// conversational condition; report it instead of degrading.
		if errors.Is(err, models.ErrInvalidItinerary) {
			utils.JSONError(c, http.StatusUnprocessableEntity, "itinerary document is malformed", err.Error())
			return
		}
		logger.Error("Failed to process chat message", zap.Error(err), zap.String("sessionId", req.SessionID))
		utils.JSONError(c, http.StatusInternalServerError, "failed to process message", err.Error())
		return
	}

	// The document is persisted before the assistant turn so the stored
	// transcript never claims an edit that the stored itinerary doesn't
	// carry.
	if result.EditApplied {
		if err := h.ItineraryRepo.UpdateData(c.Request.Context(), session.ItineraryID, result.UpdatedItinerary); err != nil {
			logger.Error("Failed to persist updated itinerary", zap.Error(err), zap.String("itineraryId", session.ItineraryID))
			utils.JSONError(c, http.StatusInternalServerError, "failed to save itinerary", err.Error())
			return
		}
		if result.Edit != nil {
			edit := models.ItineraryEdit{
				ItineraryID:  session.ItineraryID,
				EditType:     result.Edit.EditType,
				OriginalData: stored.Data,
				ModifiedData: result.UpdatedItinerary,
				EditReason:   req.Message,
			}
			if _, err := h.ItineraryRepo.SaveEdit(c.Request.Context(), edit); err != nil {
				logger.Error("Failed to save edit record", zap.Error(err), zap.String("itineraryId", session.ItineraryID))
			}
		}
	}

	assistantMsg := models.ChatMessage{
		SessionID:   req.SessionID,
		MessageType: models.MessageAssistant,
		Content:     result.Response,
		Metadata:    map[string]interface{}{"edit_applied": result.EditApplied},
	}
	if _, err := h.ChatRepo.AppendMessage(c.Request.Context(), assistantMsg); err != nil {
		logger.Error("Failed to store assistant message", zap.Error(err), zap.String("sessionId", req.SessionID))
	}
	h.cacheTurns(c, req.SessionID,
		models.ChatTurn{Role: models.MessageUser, Content: req.Message},
		models.ChatTurn{Role: models.MessageAssistant, Content: result.Response},
	)

	response := gin.H{
		"response":     result.Response,
		"edit_applied": result.EditApplied,
	}
	if result.EditApplied {
		response["updated_itinerary"] = result.UpdatedItinerary
	}
	c.JSON(http.StatusOK, response)
}

// GetChatHistoryHandler returns a session's transcript.
func (h *ChatHandler) GetChatHistoryHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if _, err := h.ChatRepo.GetSession(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "chat session not found", err.Error())
		return
	}

	messages, err := h.ChatRepo.GetMessages(c.Request.Context(), sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// EndChatSessionHandler closes a session and drops its cached context.
func (h *ChatHandler) EndChatSessionHandler(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := h.ChatRepo.EndSession(c.Request.Context(), req.SessionID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "chat session not found", err.Error())
		return
	}
	if h.Conversations != nil {
		if err := h.Conversations.Clear(c.Request.Context(), req.SessionID); err != nil {
			utils.GetLogger().Warn("Failed to clear conversation cache", zap.Error(err), zap.String("sessionId", req.SessionID))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat session ended successfully"})
}

// ListChatSessionsHandler lists active sessions with transcript sizes.
func (h *ChatHandler) ListChatSessionsHandler(c *gin.Context) {
	sessions, err := h.ChatRepo.ListActiveSessions(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list sessions", err.Error())
		return
	}

	list := make([]gin.H, 0, len(sessions))
	for _, session := range sessions {
		count, err := h.ChatRepo.CountMessages(c.Request.Context(), session.SessionID)
		if err != nil {
			count = 0
		}
		list = append(list, gin.H{
			"session_id":    session.SessionID,
			"itinerary_id":  session.ItineraryID,
			"created_at":    session.CreatedAt,
			"message_count": count,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}

// cacheTurns best-effort appends turns to the Redis conversation window.
func (h *ChatHandler) cacheTurns(c *gin.Context, sessionID string, turns ...models.ChatTurn) {
	if h.Conversations == nil {
		return
	}
	if err := h.Conversations.Append(c.Request.Context(), sessionID, turns...); err != nil {
		utils.GetLogger().Warn("Failed to cache conversation turns", zap.Error(err), zap.String("sessionId", sessionID))
	}
}
