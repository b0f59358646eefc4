package planengine

import (
	"fmt"

	"tripmate/models"
)

// ApplyEdit applies one compiled edit instruction to an itinerary. The
// input document is never mutated: edits are applied to a clone, and when
// the outcome is not applied the original value is returned untouched.
// Out-of-range targets and the unimplemented move variants are reported
// through the outcome, never as errors.
func (e *DefaultPlanEngine) ApplyEdit(doc models.Itinerary, instruction models.EditInstruction) (models.Itinerary, models.ApplyOutcome) {
	switch instruction.EditType {
	case models.EditAdd:
		return addActivity(doc, instruction)
	case models.EditRemove:
		return removeActivity(doc, instruction)
	case models.EditModify:
		return modifyActivity(doc, instruction)
	case models.EditMove, models.EditReschedule:
		// Reserved variants. Kept distinct on purpose: the document is
		// returned unchanged and the outcome names why.
		return doc, models.ApplyOutcome{Applied: false, Reason: models.ReasonNotImplemented}
	default:
		return doc, models.ApplyOutcome{Applied: false, Reason: models.ReasonNotImplemented}
	}
}

func dayInRange(doc models.Itinerary, day int) bool {
	return day >= 1 && day <= len(doc.Days)
}

func addActivity(doc models.Itinerary, in models.EditInstruction) (models.Itinerary, models.ApplyOutcome) {
	if !dayInRange(doc, in.Day) {
		return doc, models.ApplyOutcome{Applied: false, Reason: models.ReasonTargetOutOfRange}
	}

	out := doc.Clone()
	out.Days[in.Day-1].Schedule = append(out.Days[in.Day-1].Schedule, in.NewActivity.ToActivity())
	out.AdjustmentReasons = append(out.AdjustmentReasons, fmt.Sprintf("Added activity to day %d", in.Day))
	return out, models.ApplyOutcome{Applied: true}
}

func removeActivity(doc models.Itinerary, in models.EditInstruction) (models.Itinerary, models.ApplyOutcome) {
	if !dayInRange(doc, in.Day) {
		return doc, models.ApplyOutcome{Applied: false, Reason: models.ReasonTargetOutOfRange}
	}
	schedule := doc.Days[in.Day-1].Schedule
	if in.ActivityIndex < 0 || in.ActivityIndex >= len(schedule) {
		return doc, models.ApplyOutcome{Applied: false, Reason: models.ReasonTargetOutOfRange}
	}

	out := doc.Clone()
	s := out.Days[in.Day-1].Schedule
	out.Days[in.Day-1].Schedule = append(s[:in.ActivityIndex], s[in.ActivityIndex+1:]...)
	out.AdjustmentReasons = append(out.AdjustmentReasons, fmt.Sprintf("Removed activity from day %d", in.Day))
	return out, models.ApplyOutcome{Applied: true}
}

func modifyActivity(doc models.Itinerary, in models.EditInstruction) (models.Itinerary, models.ApplyOutcome) {
	if !dayInRange(doc, in.Day) {
		return doc, models.ApplyOutcome{Applied: false, Reason: models.ReasonTargetOutOfRange}
	}
	schedule := doc.Days[in.Day-1].Schedule
	if in.ActivityIndex < 0 || in.ActivityIndex >= len(schedule) {
		return doc, models.ApplyOutcome{Applied: false, Reason: models.ReasonTargetOutOfRange}
	}

	out := doc.Clone()
	in.NewActivity.ApplyTo(&out.Days[in.Day-1].Schedule[in.ActivityIndex])
	out.AdjustmentReasons = append(out.AdjustmentReasons, fmt.Sprintf("Modified activity on day %d", in.Day))
	return out, models.ApplyOutcome{Applied: true}
}
