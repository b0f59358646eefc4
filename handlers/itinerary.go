package handlers

import (
	"fmt"
	"net/http"

	itineraryRepo "tripmate/database/repository/itinerary"
	"tripmate/models"
	"tripmate/services/planengine"
	"tripmate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ItineraryHandler serves generation, retrieval and direct structured
// edits of stored itineraries.
type ItineraryHandler struct {
	Repo   itineraryRepo.ItineraryRepository
	Engine planengine.PlanEngine
}

func NewItineraryHandler(repo itineraryRepo.ItineraryRepository, engine planengine.PlanEngine) *ItineraryHandler {
	return &ItineraryHandler{Repo: repo, Engine: engine}
}

// GenerateItineraryHandler creates a fresh itinerary from trip parameters
// and persists it.
func (h *ItineraryHandler) GenerateItineraryHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid generation request", err.Error())
		return
	}

	doc, err := h.Engine.GenerateItinerary(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to generate itinerary", err.Error())
		return
	}

	stored := models.StoredItinerary{
		Title:       fmt.Sprintf("%s Trip", req.Destination),
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Interests:   req.Interests,
		Constraints: req.Constraints,
		Data:        doc,
	}
	id, err := h.Repo.Create(c.Request.Context(), stored)
	if err != nil {
		logger.Error("Failed to persist generated itinerary", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to save itinerary", err.Error())
		return
	}
	stored.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"itinerary":      stored,
		"generated_data": doc,
	})
}

// GetItineraryHandler returns one stored itinerary.
func (h *ItineraryHandler) GetItineraryHandler(c *gin.Context) {
	id := c.Param("id")

	stored, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "itinerary not found", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"itinerary":      stored,
		"generated_data": stored.Data,
	})
}

// EditItineraryHandler applies a structured edit instruction directly,
// bypassing the conversational layer, and records the audit trail entry.
func (h *ItineraryHandler) EditItineraryHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")

	var instruction models.EditInstruction
	if err := c.ShouldBindJSON(&instruction); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid edit instruction", err.Error())
		return
	}

	stored, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "itinerary not found", err.Error())
		return
	}

	original := stored.Data
	updated, outcome := h.Engine.ApplyEdit(original, instruction)

	if outcome.Applied {
		edit := models.ItineraryEdit{
			ItineraryID:  id,
			EditType:     instruction.EditType,
			OriginalData: original,
			ModifiedData: updated,
			EditReason:   instruction.EditReason,
		}
		if _, err := h.Repo.SaveEdit(c.Request.Context(), edit); err != nil {
			logger.Error("Failed to save edit record", zap.Error(err), zap.String("itineraryId", id))
			utils.JSONError(c, http.StatusInternalServerError, "failed to record edit", err.Error())
			return
		}
		if err := h.Repo.UpdateData(c.Request.Context(), id, updated); err != nil {
			logger.Error("Failed to persist edited itinerary", zap.Error(err), zap.String("itineraryId", id))
			utils.JSONError(c, http.StatusInternalServerError, "failed to save itinerary", err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"applied":        outcome.Applied,
		"reason":         outcome.Reason,
		"generated_data": updated,
	})
}

// ListItinerariesHandler returns all active itineraries.
func (h *ItineraryHandler) ListItinerariesHandler(c *gin.Context) {
	stored, err := h.Repo.ListActive(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list itineraries", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": stored})
}

// ListEditsHandler returns the audit trail for an itinerary.
func (h *ItineraryHandler) ListEditsHandler(c *gin.Context) {
	id := c.Param("id")

	edits, err := h.Repo.ListEdits(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list edits", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"edits": edits})
}

// DeleteItineraryHandler soft deletes an itinerary.
func (h *ItineraryHandler) DeleteItineraryHandler(c *gin.Context) {
	id := c.Param("id")

	if err := h.Repo.SoftDelete(c.Request.Context(), id); err != nil {
		utils.JSONError(c, http.StatusNotFound, "itinerary not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Itinerary deleted successfully"})
}
