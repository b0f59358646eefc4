package models

import "time"

// EditType is the closed set of itinerary mutations the engine understands.
type EditType string

const (
	EditAdd        EditType = "add"
	EditRemove     EditType = "remove"
	EditModify     EditType = "modify"
	EditMove       EditType = "move"
	EditReschedule EditType = "reschedule"
)

// ActivityPatch is a partial activity. Nil fields are "not specified": a
// modify edit leaves the corresponding fields of the existing activity
// untouched, mirroring field-wise JSON merge semantics.
type ActivityPatch struct {
	Time         *string   `json:"time,omitempty"`
	Activity     *string   `json:"activity,omitempty"`
	Type         *string   `json:"type,omitempty"`
	Duration     *string   `json:"duration,omitempty"`
	CostEstimate *float64  `json:"cost_estimate,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// ToActivity materializes the patch into a full activity, zero-valuing any
// unspecified field. Used by add edits, where the compiler guarantees a
// complete patch.
func (p ActivityPatch) ToActivity() Activity {
	var a Activity
	p.ApplyTo(&a)
	return a
}

// ApplyTo overwrites the target's fields with the patch's non-nil fields.
func (p ActivityPatch) ApplyTo(a *Activity) {
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Activity != nil {
		a.Activity = *p.Activity
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.CostEstimate != nil {
		a.CostEstimate = *p.CostEstimate
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
}

// EditInstruction is a compiled, schema-valid description of a single
// itinerary mutation. Day is 1-based; bounds are checked by the applier,
// not here.
type EditInstruction struct {
	EditType      EditType      `json:"edit_type" binding:"required"`
	Day           int           `json:"day"`
	ActivityIndex int           `json:"activity_index"`
	NewActivity   ActivityPatch `json:"new_activity"`
	EditReason    string        `json:"edit_reason"`
}

// Outcome reasons for edits that left the document unchanged.
const (
	ReasonTargetOutOfRange = "target_out_of_range"
	ReasonNotImplemented   = "not_implemented"
)

// ApplyOutcome reports whether an edit mutated the document, and why not
// when it didn't. Out-of-range targets and the unimplemented move variant
// are not errors: the document is returned unchanged.
type ApplyOutcome struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// ItineraryEdit is the immutable audit record written once per applied
// edit. OriginalData and ModifiedData are full document snapshots.
type ItineraryEdit struct {
	ID           string    `bson:"id" json:"id"`
	ItineraryID  string    `bson:"itineraryId" json:"itinerary_id"`
	EditType     EditType  `bson:"edit_type" json:"edit_type"`
	OriginalData Itinerary `bson:"original_data" json:"original_data"`
	ModifiedData Itinerary `bson:"modified_data" json:"modified_data"`
	EditReason   string    `bson:"edit_reason" json:"edit_reason"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
