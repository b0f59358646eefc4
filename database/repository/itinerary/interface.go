package itineraryRepo

import (
	"context"

	"tripmate/database"
	"tripmate/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ItineraryRepository persists generated itineraries and their immutable
// edit audit trail.
type ItineraryRepository interface {
	Create(ctx context.Context, stored models.StoredItinerary) (string, error)
	GetByID(ctx context.Context, id string) (*models.StoredItinerary, error)
	UpdateData(ctx context.Context, id string, data models.Itinerary) error
	ListActive(ctx context.Context) ([]models.StoredItinerary, error)
	SoftDelete(ctx context.Context, id string) error

	SaveEdit(ctx context.Context, edit models.ItineraryEdit) (string, error)
	ListEdits(ctx context.Context, itineraryID string) ([]models.ItineraryEdit, error)
}

type mongoItineraryRepo struct {
	coll     *mongo.Collection
	editColl *mongo.Collection
}

// NewMongoItineraryRepo returns a new ItineraryRepository instance using MongoDB.
func NewMongoItineraryRepo() ItineraryRepository {
	db := database.MongoClient.Database("tripmate")
	return &mongoItineraryRepo{
		coll:     db.Collection("itineraries"),
		editColl: db.Collection("itinerary_edits"),
	}
}
