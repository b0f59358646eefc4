package tripmate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tripmate/models"
	"tripmate/utils"

	"go.uber.org/zap"
)

var editResponses = map[models.EditType]string{
	models.EditAdd:        "Perfect! I've added that to your itinerary. Your day now includes more exciting activities!",
	models.EditRemove:     "Done! I've removed that from your schedule. Your day is now more relaxed.",
	models.EditModify:     "Great suggestion! I've updated that activity to better match what you wanted.",
	models.EditMove:       "Excellent! I've moved that to a better time slot for you.",
	models.EditReschedule: "Perfect timing! I've rescheduled that activity for you.",
}

var chatResponses = []string{
	"I'm here to help make your trip amazing! What would you like to adjust?",
	"Great! I can help you customize your itinerary. What changes would you like to make?",
	"I'm excited to help you plan! What part of your trip would you like to work on?",
	"Let's make your trip perfect! What would you like to change or add?",
}

const unknownResponse = "I'm not sure what you'd like to do. You can ask me to add activities, change times, adjust your budget, or ask questions about your itinerary!"

// composeEditResponse phrases the result of an edit attempt. Applied edits
// get the canned phrase for their type; rejected edits say why the plan was
// left alone instead of pretending a change happened.
func composeEditResponse(editType models.EditType, outcome models.ApplyOutcome, dayCount int) string {
	if outcome.Applied {
		if resp, ok := editResponses[editType]; ok {
			return resp
		}
		return "I've made that change to your itinerary! Is there anything else you'd like to adjust?"
	}

	switch outcome.Reason {
	case models.ReasonTargetOutOfRange:
		return fmt.Sprintf("I couldn't find that day or activity in your itinerary, so I left everything as it is. Your trip has %d days - could you point me at the right one?", dayCount)
	case models.ReasonNotImplemented:
		return "Moving activities to a different day or time isn't something I can do just yet, so your plan is unchanged. You can remove the activity and add it back where you'd like it."
	default:
		return "I wasn't able to make that change, so your itinerary is unchanged. Could you rephrase what you'd like to do?"
	}
}

// handleQuestion answers from the three deterministic categories first,
// delegates to the capability for anything else, and never mutates the
// document.
func (s *DefaultTripMateService) handleQuestion(ctx context.Context, message string, doc models.Itinerary, history []models.ChatTurn) *models.ChatResult {
	lower := strings.ToLower(message)

	if containsAny(lower, []string{"cost", "price", "budget", "expensive", "cheap"}) {
		return &models.ChatResult{
			Response:         fmt.Sprintf("The total estimated cost for your trip is $%v. This includes all planned activities and expenses.", formatCost(doc.TotalEstimatedCost)),
			UpdatedItinerary: doc,
			EditApplied:      false,
		}
	}

	if containsAny(lower, []string{"time", "duration", "how long", "when"}) {
		return &models.ChatResult{
			Response:         fmt.Sprintf("Your trip is planned for %d days. Each day has a detailed schedule with specific times for activities.", len(doc.Days)),
			UpdatedItinerary: doc,
			EditApplied:      false,
		}
	}

	if containsAny(lower, []string{"where", "location", "place", "address"}) {
		summary := doc.TripSummary
		if summary == "" {
			summary = "No summary available"
		}
		return &models.ChatResult{
			Response:         fmt.Sprintf("Based on your itinerary: %s. All locations are marked on the map for easy navigation.", summary),
			UpdatedItinerary: doc,
			EditApplied:      false,
		}
	}

	if s.Capability != nil {
		if answer, ok := s.answerWithCapability(ctx, message, doc, history); ok {
			return &models.ChatResult{Response: answer, UpdatedItinerary: doc, EditApplied: false}
		}
	}

	return &models.ChatResult{
		Response:         "I'd be happy to help with your itinerary! Could you be more specific about what you'd like to know?",
		UpdatedItinerary: doc,
		EditApplied:      false,
	}
}

func (s *DefaultTripMateService) answerWithCapability(ctx context.Context, message string, doc models.Itinerary, history []models.ChatTurn) (string, bool) {
	logger := utils.GetLogger()

	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", false
	}

	cctx, cancel := context.WithTimeout(ctx, s.capabilityTimeout())
	defer cancel()

	answer, err := s.Capability.Complete(cctx, questionPrompt(message, string(docJSON), history))
	if err != nil {
		logger.Warn("Question answering capability call failed", zap.Error(err))
		return "", false
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false
	}
	return answer, true
}

func questionPrompt(message, docJSON string, history []models.ChatTurn) string {
	return fmt.Sprintf(`You are TripMate, a friendly travel assistant. Answer this question about the itinerary:

Question: "%s"

Itinerary data: %s
%s
Rules:
- Be helpful and conversational
- Keep responses under 3 sentences
- Use simple language
- Be specific about costs, times, and locations when available
- If you don't know something, say so politely`, message, docJSON, formatHistory(history))
}

func (s *DefaultTripMateService) handleGeneralChat(doc models.Itinerary) *models.ChatResult {
	return &models.ChatResult{
		Response:         chatResponses[s.intn(len(chatResponses))],
		UpdatedItinerary: doc,
		EditApplied:      false,
	}
}

func (s *DefaultTripMateService) handleUnknown(doc models.Itinerary) *models.ChatResult {
	return &models.ChatResult{
		Response:         unknownResponse,
		UpdatedItinerary: doc,
		EditApplied:      false,
	}
}

// formatCost renders costs the way they read in chat: no trailing zeros for
// whole-dollar amounts.
func formatCost(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
