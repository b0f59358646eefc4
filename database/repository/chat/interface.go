package chatRepo

import (
	"context"

	"tripmate/database"
	"tripmate/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ChatRepository owns chat sessions and their append-only transcripts.
type ChatRepository interface {
	CreateSession(ctx context.Context, session models.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	EndSession(ctx context.Context, sessionID string) error
	ListActiveSessions(ctx context.Context) ([]models.ChatSession, error)

	AppendMessage(ctx context.Context, msg models.ChatMessage) (string, error)
	GetMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	CountMessages(ctx context.Context, sessionID string) (int64, error)
}

type mongoChatRepo struct {
	sessionColl *mongo.Collection
	messageColl *mongo.Collection
}

// NewMongoChatRepo returns a new ChatRepository instance using MongoDB.
func NewMongoChatRepo() ChatRepository {
	db := database.MongoClient.Database("tripmate")
	return &mongoChatRepo{
		sessionColl: db.Collection("chat_sessions"),
		messageColl: db.Collection("chat_messages"),
	}
}
