package tripmate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tripmate/models"
	ai "tripmate/services/intelligence"
	"tripmate/utils"

	"go.uber.org/zap"
)

// Tier-1 keyword lists. Category order is the precedence order: a message
// matching an edit verb is an edit request even when it also contains
// question or greeting words.
var (
	editKeywords     = []string{"add", "remove", "change", "modify", "update", "replace", "move", "reschedule"}
	questionKeywords = []string{"what", "how", "when", "where", "why", "cost", "price", "time", "duration"}
	greetingKeywords = []string{"hello", "hi", "hey", "thanks", "thank you", "good", "great"}
)

// classifyIntent maps a message to an intent. The lexical tier always runs
// first; the capability tier only runs when the lexical tier found nothing.
// Classification never fails: the terminal fallback is general chat.
func (s *DefaultTripMateService) classifyIntent(ctx context.Context, message string, doc models.Itinerary, history []models.ChatTurn) models.Intent {
	lower := strings.ToLower(message)

	if containsAny(lower, editKeywords) {
		editType := "modify"
		if strings.Contains(lower, "add") {
			editType = "add"
		}
		return models.Intent{
			Kind:       models.IntentEditRequest,
			Confidence: 0.8,
			Details: models.IntentDetails{
				EditType:     editType,
				TargetDay:    1,
				NewContent:   message,
				QuestionType: "general",
			},
		}
	}

	if containsAny(lower, questionKeywords) {
		return models.Intent{
			Kind:       models.IntentQuestion,
			Confidence: 0.7,
			Details:    models.IntentDetails{QuestionType: "general"},
		}
	}

	if containsAny(lower, greetingKeywords) {
		return models.Intent{
			Kind:       models.IntentGeneralChat,
			Confidence: 0.6,
			Details:    models.IntentDetails{QuestionType: "general"},
		}
	}

	if s.Capability != nil {
		if intent, ok := s.classifyWithCapability(ctx, message, doc, history); ok {
			return intent
		}
	}

	// Terminal fallback: degrade to conversational filler, never an error.
	return models.Intent{
		Kind:       models.IntentGeneralChat,
		Confidence: 0.5,
		Details:    models.IntentDetails{QuestionType: "general"},
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func (s *DefaultTripMateService) classifyWithCapability(ctx context.Context, message string, doc models.Itinerary, history []models.ChatTurn) (models.Intent, bool) {
	logger := utils.GetLogger()

	cctx, cancel := context.WithTimeout(ctx, s.capabilityTimeout())
	defer cancel()

	raw, err := s.Capability.Complete(cctx, intentPrompt(message, doc, history))
	if err != nil {
		logger.Warn("Intent classification capability call failed", zap.Error(err))
		return models.Intent{}, false
	}

	var intent models.Intent
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &intent); err != nil {
		logger.Warn("Intent classification returned malformed JSON", zap.Error(err))
		return models.Intent{}, false
	}

	switch intent.Kind {
	case models.IntentEditRequest, models.IntentQuestion, models.IntentGeneralChat, models.IntentUnknown:
		return intent, true
	default:
		logger.Warn("Intent classification returned unknown kind", zap.String("kind", string(intent.Kind)))
		return models.Intent{}, false
	}
}

func intentPrompt(message string, doc models.Itinerary, history []models.ChatTurn) string {
	summary := doc.TripSummary
	if summary == "" {
		summary = "No summary available"
	}

	return fmt.Sprintf(`Analyze this user message about their travel itinerary and determine the intent:

User message: "%s"

Current itinerary summary: %s
%s
Respond with JSON only:
{
    "type": "edit_request|question|general_chat|unknown",
    "confidence": 0.0-1.0,
    "details": {
        "edit_type": "add|remove|modify|move|reschedule",
        "target_day": 1-%d,
        "target_activity": "activity name or index",
        "new_content": "what they want to change to",
        "question_type": "cost|timing|location|general"
    }
}`, message, summary, formatHistory(history), len(doc.Days))
}

// formatHistory renders cached conversation turns as a prompt section.
// Empty history renders as nothing so prompts without context keep their
// shape.
func formatHistory(history []models.ChatTurn) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\nRecent conversation:\n")
	for _, turn := range history {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
