package planengine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tripmate/models"
	ai "tripmate/services/intelligence"
	"tripmate/utils"

	"go.uber.org/zap"
)

// GenerateItinerary builds a complete itinerary for the request. When the
// capability is configured it drives generation; any capability failure
// falls back to the deterministic template itinerary. The only hard errors
// are malformed request dates.
func (e *DefaultPlanEngine) GenerateItinerary(ctx context.Context, req models.GenerationRequest) (models.Itinerary, error) {
	duration, err := req.Duration()
	if err != nil {
		return models.Itinerary{}, err
	}

	if e.Capability != nil {
		if doc, ok := e.generateWithCapability(ctx, req, duration); ok {
			return doc, nil
		}
	}
	return e.templateItinerary(req, duration), nil
}

func (e *DefaultPlanEngine) generateWithCapability(ctx context.Context, req models.GenerationRequest, duration int) (models.Itinerary, bool) {
	logger := utils.GetLogger()

	cctx, cancel := context.WithTimeout(ctx, e.capabilityTimeout())
	defer cancel()

	raw, err := e.Capability.Complete(cctx, generationPrompt(req, duration))
	if err != nil {
		logger.Warn("Itinerary generation capability call failed, using template",
			zap.Error(err), zap.String("destination", req.Destination))
		return models.Itinerary{}, false
	}

	var doc models.Itinerary
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &doc); err != nil {
		logger.Warn("Itinerary generation returned malformed JSON, using template", zap.Error(err))
		return models.Itinerary{}, false
	}
	if err := doc.Validate(); err != nil {
		logger.Warn("Generated itinerary failed validation, using template", zap.Error(err))
		return models.Itinerary{}, false
	}

	// These are engine-owned slices; a model that omits them must not leave
	// the document with nil audit or warning lists.
	if doc.AdjustmentReasons == nil {
		doc.AdjustmentReasons = []string{}
	}
	if doc.BookingLinks == nil {
		doc.BookingLinks = []string{}
	}
	if doc.Warnings == nil {
		doc.Warnings = []string{}
	}
	return doc, true
}

func generationPrompt(req models.GenerationRequest, duration int) string {
	interests := "general sightseeing"
	if len(req.Interests) > 0 {
		interests = strings.Join(req.Interests, ", ")
	}

	constraints := "None"
	if len(req.Constraints) > 0 {
		var parts []string
		for k, v := range req.Constraints {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
		constraints = strings.Join(parts, "; ")
	}

	return fmt.Sprintf(`Generate a %d-day travel itinerary for %s starting %s ending %s.

Budget: $%.2f
Interests: %s
Constraints: %s

Return ONLY valid JSON in this exact schema:
{
  "trip_summary": "2-line overview",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "schedule": [
        {
          "time": "09:00",
          "activity": "Visit Louvre Museum",
          "type": "cultural",
          "duration": "3h",
          "cost_estimate": 20,
          "location": {"lat": 48.8606, "lng": 2.3376},
          "notes": "Book skip-the-line tickets online."
        }
      ]
    }
  ],
  "total_estimated_cost": 0,
  "map_points": [
    {"name": "Louvre Museum", "lat": 48.8606, "lng": 2.3376}
  ],
  "adjustment_reasons": [],
  "booking_links": [],
  "warnings": []
}

Rules:
- Max 4-5 activities per day
- Include realistic costs
- Add GPS coordinates for major attractions
- Include practical notes
- Ensure total cost fits budget`,
		duration, req.Destination, req.StartDate, req.EndDate,
		req.Budget, interests, constraints)
}

// templateItinerary is the deterministic fallback plan: three fixed
// activities per day and a $60 daily estimate capped at the budget.
func (e *DefaultPlanEngine) templateItinerary(req models.GenerationRequest, duration int) models.Itinerary {
	start, _ := time.Parse("2006-01-02", req.StartDate)

	days := make([]models.Day, 0, duration)
	var totalCost float64
	for i := 0; i < duration; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		days = append(days, models.Day{
			Day:  i + 1,
			Date: date,
			Schedule: []models.Activity{
				{
					Time:         "09:00",
					Activity:     fmt.Sprintf("Explore %s - Day %d", req.Destination, i+1),
					Type:         models.ActivitySightseeing,
					Duration:     "2h",
					CostEstimate: 15,
					Notes:        "Plan your day based on local recommendations",
				},
				{
					Time:         "12:00",
					Activity:     fmt.Sprintf("Lunch in %s", req.Destination),
					Type:         models.ActivityDining,
					Duration:     "1h",
					CostEstimate: 25,
					Notes:        "Try local cuisine",
				},
				{
					Time:         "14:00",
					Activity:     fmt.Sprintf("Afternoon activities in %s", req.Destination),
					Type:         models.ActivityCultural,
					Duration:     "3h",
					CostEstimate: 20,
					Notes:        "Visit museums or landmarks",
				},
			},
		})
		totalCost += 60
	}

	if totalCost > req.Budget {
		totalCost = req.Budget
	}

	return models.Itinerary{
		TripSummary:        fmt.Sprintf("%d-day trip to %s with a budget of $%.0f", duration, req.Destination, req.Budget),
		Days:               days,
		TotalEstimatedCost: totalCost,
		MapPoints:          []models.MapPoint{},
		AdjustmentReasons:  []string{},
		BookingLinks:       []string{},
		Warnings:           []string{"This is a template itinerary. Please customize based on your preferences."},
	}
}
