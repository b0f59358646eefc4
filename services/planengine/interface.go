package planengine

import (
	"context"
	"time"

	"tripmate/models"
	ai "tripmate/services/intelligence"
)

// PlanEngine generates structured itineraries and applies compiled edits
// to them.
type PlanEngine interface {
	GenerateItinerary(ctx context.Context, req models.GenerationRequest) (models.Itinerary, error)
	ApplyEdit(doc models.Itinerary, instruction models.EditInstruction) (models.Itinerary, models.ApplyOutcome)
}

// DefaultPlanEngine is the production implementation. Capability may be
// nil; generation then always produces the template itinerary.
type DefaultPlanEngine struct {
	Capability ai.Capability
	Timeout    time.Duration
}

const defaultCapabilityTimeout = 15 * time.Second

func (e *DefaultPlanEngine) capabilityTimeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return defaultCapabilityTimeout
}
