package tripmate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"tripmate/models"
	ai "tripmate/services/intelligence"
	"tripmate/utils"

	"go.uber.org/zap"
)

// compileEdit turns an edit intent into a structurally valid instruction.
// The day defaults to 1 when unspecified; bounds are the applier's job.
// A non-numeric target activity resolves to index 0, matching the
// compiler's contract of working from the message and intent details alone.
func (s *DefaultTripMateService) compileEdit(ctx context.Context, message string, details models.IntentDetails) models.EditInstruction {
	editType := models.EditType(details.EditType)
	if editType == "" {
		editType = models.EditModify
	}

	day := details.TargetDay
	if day < 1 {
		day = 1
	}

	index := 0
	if n, err := strconv.Atoi(details.TargetActivity); err == nil {
		index = n
	}

	return models.EditInstruction{
		EditType:      editType,
		Day:           day,
		ActivityIndex: index,
		NewActivity:   s.generateActivity(ctx, message),
		EditReason:    message,
	}
}

// generateActivity asks the capability to synthesize an activity for the
// request. Any failure, including an absent capability, a timeout, or a
// reply missing required fields, substitutes the deterministic placeholder
// so the compiler always yields a valid instruction.
func (s *DefaultTripMateService) generateActivity(ctx context.Context, message string) models.ActivityPatch {
	if s.Capability == nil {
		return placeholderActivity()
	}

	logger := utils.GetLogger()

	cctx, cancel := context.WithTimeout(ctx, s.capabilityTimeout())
	defer cancel()

	raw, err := s.Capability.Complete(cctx, activityPrompt(message))
	if err != nil {
		logger.Warn("Activity generation capability call failed, using placeholder", zap.Error(err))
		return placeholderActivity()
	}

	var patch models.ActivityPatch
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &patch); err != nil {
		logger.Warn("Activity generation returned malformed JSON, using placeholder", zap.Error(err))
		return placeholderActivity()
	}
	if !hasRequiredFields(patch) {
		logger.Warn("Generated activity is missing required fields, using placeholder")
		return placeholderActivity()
	}
	return patch
}

func hasRequiredFields(p models.ActivityPatch) bool {
	return p.Time != nil && p.Activity != nil && p.Type != nil &&
		p.Duration != nil && p.CostEstimate != nil && p.Location != nil
}

func activityPrompt(message string) string {
	return fmt.Sprintf(`Based on this user request: "%s"

Generate a new activity in this JSON format:
{
    "time": "HH:MM",
    "activity": "Activity name",
    "type": "cultural|dining|sightseeing|entertainment|shopping|outdoor",
    "duration": "Xh",
    "cost_estimate": 0,
    "location": {"lat": 0.0, "lng": 0.0},
    "notes": "Helpful notes"
}

Make it realistic and detailed.`, message)
}

// placeholderActivity is the deterministic stand-in used whenever activity
// generation is unavailable or fails.
func placeholderActivity() models.ActivityPatch {
	return models.ActivityPatch{
		Time:         strPtr("14:00"),
		Activity:     strPtr("Custom Activity"),
		Type:         strPtr(models.ActivitySightseeing),
		Duration:     strPtr("2h"),
		CostEstimate: floatPtr(20),
		Location:     &models.GeoPoint{},
		Notes:        strPtr("Added based on your request"),
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
