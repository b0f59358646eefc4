package tripmate

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"tripmate/models"
	ai "tripmate/services/intelligence"
	"tripmate/services/planengine"
)

// TripMateService is the conversational edit engine: the sole entry point
// for turning a free-text chat message into a reply and a possibly-updated
// itinerary. Every call is a pure function of the message, the document,
// the supplied history and the optional capability; the service holds no
// cross-call state. History gives the capability conversational context and
// may be nil.
type TripMateService interface {
	ProcessMessage(ctx context.Context, message string, doc models.Itinerary, history []models.ChatTurn) (*models.ChatResult, error)
}

// DefaultTripMateService is the production implementation. Capability may
// be nil; every path then runs its deterministic fallback.
type DefaultTripMateService struct {
	Capability ai.Capability
	Plan       planengine.PlanEngine
	Timeout    time.Duration

	// Rand drives chit-chat phrase selection. Inject a seeded source for
	// reproducible replies in tests; nil falls back to the global source.
	Rand *rand.Rand
	mu   sync.Mutex
}

const defaultCapabilityTimeout = 15 * time.Second

func (s *DefaultTripMateService) capabilityTimeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return defaultCapabilityTimeout
}

func (s *DefaultTripMateService) intn(n int) int {
	if s.Rand != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// ProcessMessage classifies the message and dispatches to the matching
// handler. The document shape precondition is the only hard failure: a
// document with no days indicates an upstream contract breach and is
// reported as an error rather than degraded into a chat reply.
func (s *DefaultTripMateService) ProcessMessage(ctx context.Context, message string, doc models.Itinerary, history []models.ChatTurn) (*models.ChatResult, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	intent := s.classifyIntent(ctx, message, doc, history)

	switch intent.Kind {
	case models.IntentEditRequest:
		return s.handleEditRequest(ctx, message, doc, intent), nil
	case models.IntentQuestion:
		return s.handleQuestion(ctx, message, doc, history), nil
	case models.IntentGeneralChat:
		return s.handleGeneralChat(doc), nil
	default:
		return s.handleUnknown(doc), nil
	}
}

// handleEditRequest compiles the edit, applies it, and phrases the result.
// EditApplied mirrors the applier outcome, so callers can tell an applied
// edit from a rejected target or an unimplemented variant.
func (s *DefaultTripMateService) handleEditRequest(ctx context.Context, message string, doc models.Itinerary, intent models.Intent) *models.ChatResult {
	instruction := s.compileEdit(ctx, message, intent.Details)
	updated, outcome := s.Plan.ApplyEdit(doc, instruction)

	result := &models.ChatResult{
		Response:         composeEditResponse(instruction.EditType, outcome, len(doc.Days)),
		UpdatedItinerary: updated,
		EditApplied:      outcome.Applied,
	}
	if outcome.Applied {
		result.Edit = &instruction
	}
	return result
}
