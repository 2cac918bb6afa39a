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

// Compile-time check to ensure ProductRepository implements the interface
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// ProductRepository handles MongoDB operations for Product
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

// FindByID finds a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &product, nil
}

// UpdateInventory replaces the product's inventory array
func (r *ProductRepository) UpdateInventory(ctx context.Context, id primitive.ObjectID, inventory []models.InventoryEntry) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"inventory": inventory,
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
