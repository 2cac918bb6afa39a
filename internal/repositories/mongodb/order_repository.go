package mongodb

import (
	"context"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure OrderRepository implements the interface
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OrderRepository handles MongoDB operations for Order
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
	}
}

// FindByID finds an order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &order, nil
}

// MarkRewarded latches the order as settled. The filter rejects orders that
// are already rewarded so the latch can only flip once.
func (r *OrderRepository) MarkRewarded(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "rewarded": false}
	update := bson.M{"$set": bson.M{
		"rewarded":  true,
		"status":    models.OrderStatusCompleted,
		"updatedAt": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
