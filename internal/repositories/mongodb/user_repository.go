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

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.RedeemedRewards == nil {
		user.RedeemedRewards = []models.Redemption{}
	}
	if user.RecentActivity == nil {
		user.RecentActivity = []models.Activity{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	filter := bson.M{"email": email}
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &user, nil
}

// FindAll retrieves all users (used by the reconciliation sweep)
func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// RemoveExpiredVouchers pulls the named redemption entries. The update names
// only the redeemedRewards array, so points and recentActivity written by a
// concurrent settlement or redemption are left alone.
func (r *UserRepository) RemoveExpiredVouchers(ctx context.Context, id primitive.ObjectID, voucherIDs []string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$pull": bson.M{"redeemedRewards": bson.M{"voucherId": bson.M{"$in": voucherIDs}}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CreditPoints atomically increments the points balance and appends an
// activity entry, keeping only the most recent models.RecentActivityCap.
func (r *UserRepository) CreditPoints(ctx context.Context, id primitive.ObjectID, points int, activity models.Activity) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"points": points},
		"$push": bson.M{
			"recentActivity": bson.M{
				"$each":  bson.A{activity},
				"$slice": -models.RecentActivityCap,
			},
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DebitPoints atomically decrements the points balance and appends the
// redemption plus an activity entry. The filter requires a sufficient
// balance, so a stale read can never drive points negative.
func (r *UserRepository) DebitPoints(ctx context.Context, id primitive.ObjectID, points int, redemption models.Redemption, activity models.Activity) error {
	filter := bson.M{"_id": id, "points": bson.M{"$gte": points}}
	update := bson.M{
		"$inc":  bson.M{"points": -points},
		"$push": bson.M{
			"redeemedRewards": redemption,
			"recentActivity": bson.M{
				"$each":  bson.A{activity},
				"$slice": -models.RecentActivityCap,
			},
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetTier sets the persisted tier and its achievement date
func (r *UserRepository) SetTier(ctx context.Context, id primitive.ObjectID, tier models.Tier, achievedAt *time.Time) error {
	filter := bson.M{"_id": id}
	set := bson.M{"tier": tier, "updatedAt": time.Now()}
	update := bson.M{"$set": set}
	if achievedAt != nil {
		set["tierAchievedDate"] = *achievedAt
	} else {
		update["$unset"] = bson.M{"tierAchievedDate": ""}
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkVoucherUsed flags the redemption holding the voucher as consumed
func (r *UserRepository) MarkVoucherUsed(ctx context.Context, id primitive.ObjectID, voucherID string) error {
	filter := bson.M{"_id": id, "redeemedRewards.voucherId": voucherID}
	update := bson.M{"$set": bson.M{
		"redeemedRewards.$.used": true,
		"updatedAt":              time.Now(),
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
