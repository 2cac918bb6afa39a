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

// Compile-time check to ensure RewardRepository implements the interface
var _ repositories.RewardRepository = (*RewardRepository)(nil)

// RewardRepository handles MongoDB operations for Reward
type RewardRepository struct {
	collection *mongo.Collection
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{
		collection: db.Collection("rewards"),
	}
}

// Create inserts a new reward
func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	reward.ID = primitive.NewObjectID()
	reward.CreatedAt = time.Now()
	reward.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, reward)
	return err
}

// FindByID finds a reward by ID
func (r *RewardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	var reward models.Reward
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&reward)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &reward, nil
}

// FindAll retrieves the reward catalog
func (r *RewardRepository) FindAll(ctx context.Context) ([]*models.Reward, error) {
	var rewards []*models.Reward
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &rewards); err != nil {
		return nil, err
	}
	if rewards == nil {
		rewards = []*models.Reward{}
	}
	return rewards, nil
}
