package itineraryRepo

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

// Create inserts a new stored itinerary and returns its ID.
func (r *mongoItineraryRepo) Create(ctx context.Context, stored models.StoredItinerary) (string, error) {
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.IsActive = true
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, stored); err != nil {
		return "", err
	}
	return stored.ID, nil
}

// GetByID returns an active stored itinerary by its ID.
func (r *mongoItineraryRepo) GetByID(ctx context.Context, id string) (*models.StoredItinerary, error) {
	var stored models.StoredItinerary
	err := r.coll.FindOne(ctx, bson.M{"id": id, "is_active": true}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("itinerary not found")
		}
		return nil, err
	}
	return &stored, nil
}

// UpdateData replaces the itinerary document payload of a stored row.
func (r *mongoItineraryRepo) UpdateData(ctx context.Context, id string, data models.Itinerary) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "is_active": true},
		bson.M{"$set": bson.M{"itinerary_data": data, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("itinerary not found")
	}
	return nil
}

// ListActive fetches all active itineraries, newest first.
func (r *mongoItineraryRepo) ListActive(ctx context.Context) ([]models.StoredItinerary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stored []models.StoredItinerary
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// SoftDelete marks an itinerary inactive. Edit records are kept.
func (r *mongoItineraryRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("itinerary not found")
	}
	return nil
}

// SaveEdit appends an immutable audit record for an applied edit.
func (r *mongoItineraryRepo) SaveEdit(ctx context.Context, edit models.ItineraryEdit) (string, error) {
	if edit.ID == "" {
		edit.ID = uuid.New().String()
	}
	edit.CreatedAt = time.Now()

	if _, err := r.editColl.InsertOne(ctx, edit); err != nil {
		return "", err
	}
	return edit.ID, nil
}

// ListEdits fetches the audit trail for an itinerary, newest first.
func (r *mongoItineraryRepo) ListEdits(ctx context.Context, itineraryID string) ([]models.ItineraryEdit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.editColl.Find(ctx, bson.M{"itineraryId": itineraryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edits []models.ItineraryEdit
	if err := cursor.All(ctx, &edits); err != nil {
		return nil, err
	}
	return edits, nil
}
