package models

import "time"

// Chat message author types.
const (
	MessageUser      = "user"
	MessageAssistant = "assistant"
	MessageSystem    = "system"
)

// ChatSession ties a conversation to the itinerary it edits.
type ChatSession struct {
	SessionID   string    `bson:"sessionId" json:"session_id"`
	ItineraryID string    `bson:"itineraryId" json:"itinerary_id"`
	IsActive    bool      `bson:"isActive" json:"is_active"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}

// ChatMessage is one transcript entry. Metadata carries per-message extras
// such as whether an edit was applied by the assistant turn.
type ChatMessage struct {
	ID          string                 `bson:"id" json:"id"`
	SessionID   string                 `bson:"sessionId" json:"session_id"`
	MessageType string                 `bson:"messageType" json:"type"`
	Content     string                 `bson:"content" json:"content"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"timestamp"`
}

// ChatTurn is the trimmed transcript form cached in Redis and fed to the
// capability as conversational context.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
