package models

// IntentKind classifies a chat message.
type IntentKind string

const (
	IntentEditRequest IntentKind = "edit_request"
	IntentQuestion    IntentKind = "question"
	IntentGeneralChat IntentKind = "general_chat"
	IntentUnknown     IntentKind = "unknown"
)

// IntentDetails carries the edit or question specifics extracted from the
// message. Fields are zero-valued when the classifier had nothing to say.
type IntentDetails struct {
	EditType       string `json:"edit_type"`
	TargetDay      int    `json:"target_day"` // 1-based
	TargetActivity string `json:"target_activity"`
	NewContent     string `json:"new_content"`
	QuestionType   string `json:"question_type"`
}

// Intent is the classification of one user message against the current
// itinerary. The JSON tags match the schema the capability is asked to
// produce, so a capability reply unmarshals directly into this type.
type Intent struct {
	Kind       IntentKind    `json:"type"`
	Confidence float64       `json:"confidence"`
	Details    IntentDetails `json:"details"`
}

// ChatResult is the caller-visible result of processing one message. Its
// wire shape is stable across all intent kinds; UpdatedItinerary equals the
// input document when EditApplied is false. Edit carries the compiled
// instruction of an applied edit so the storage layer can write its audit
// record; it never crosses the HTTP boundary.
type ChatResult struct {
	Response         string           `json:"response"`
	UpdatedItinerary Itinerary        `json:"updated_itinerary"`
	EditApplied      bool             `json:"edit_applied"`
	Edit             *EditInstruction `json:"-"`
}
