package chatRepo

import (
	"context"
	"errors"
	"time"

	"tripmate/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSession inserts a new chat session.
func (r *mongoChatRepo) CreateSession(ctx context.Context, session models.ChatSession) error {
	session.IsActive = true
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()

	_, err := r.sessionColl.InsertOne(ctx, session)
	return err
}

// GetSession returns an active session by its ID.
func (r *mongoChatRepo) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.sessionColl.FindOne(ctx, bson.M{"sessionId": sessionID, "isActive": true}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("chat session not found")
		}
		return nil, err
	}
	return &session, nil
}

// EndSession marks a session inactive. The transcript is kept.
func (r *mongoChatRepo) EndSession(ctx context.Context, sessionID string) error {
	res, err := r.sessionColl.UpdateOne(ctx,
		bson.M{"sessionId": sessionID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("chat session not found")
	}
	return nil
}

// ListActiveSessions fetches all active sessions, newest first.
func (r *mongoChatRepo) ListActiveSessions(ctx context.Context) ([]models.ChatSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.sessionColl.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// AppendMessage stores one transcript entry and returns its ID.
func (r *mongoChatRepo) AppendMessage(ctx context.Context, msg models.ChatMessage) (string, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = time.Now()

	if _, err := r.messageColl.InsertOne(ctx, msg); err != nil {
		return "", err
	}
	return msg.ID, nil
}

// GetMessages returns a session's transcript in chronological order.
func (r *mongoChatRepo) GetMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.messageColl.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// CountMessages returns the transcript length for a session.
func (r *mongoChatRepo) CountMessages(ctx context.Context, sessionID string) (int64, error) {
	return r.messageColl.CountDocuments(ctx, bson.M{"sessionId": sessionID})
}
