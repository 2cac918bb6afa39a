package mongodb

import (
	"context"
	"time"

	"github.com/roamly/roamly-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure MetaRepository implements the interface
var _ repositories.MetaRepository = (*MetaRepository)(nil)

// MetaRepository maintains the single cache-invalidation marker document
type MetaRepository struct {
	collection *mongo.Collection
}

// NewMetaRepository creates a new MetaRepository
func NewMetaRepository(db *mongo.Database) *MetaRepository {
	return &MetaRepository{
		collection: db.Collection("meta"),
	}
}

// TouchLastUpdated bumps the global lastUpdated marker, creating the
// document on first use.
func (r *MetaRepository) TouchLastUpdated(ctx context.Context, at time.Time) error {
	filter := bson.M{"_id": "cache"}
	update := bson.M{"$set": bson.M{"lastUpdated": at}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}
