package repositories

import (
	"context"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	// CreditPoints atomically adds points and appends an activity entry,
	// trimming the activity log to models.RecentActivityCap.
	CreditPoints(ctx context.Context, id primitive.ObjectID, points int, activity models.Activity) error
	// DebitPoints atomically subtracts points, appends the redemption and an
	// activity entry. The update is guarded so the balance can never go
	// negative, even if the caller's balance check raced.
	DebitPoints(ctx context.Context, id primitive.ObjectID, points int, redemption models.Redemption, activity models.Activity) error
	SetTier(ctx context.Context, id primitive.ObjectID, tier models.Tier, achievedAt *time.Time) error
	MarkVoucherUsed(ctx context.Context, id primitive.ObjectID, voucherID string) error
	// RemoveExpiredVouchers pulls the named redemption entries only; points
	// and activity are never written, so it cannot clobber a concurrent
	// settlement or redemption.
	RemoveExpiredVouchers(ctx context.Context, id primitive.ObjectID, voucherIDs []string) error
}

// RewardRepository defines the interface for reward catalog operations
type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error)
	FindAll(ctx context.Context) ([]*models.Reward, error)
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	MarkRewarded(ctx context.Context, id primitive.ObjectID) error
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	UpdateInventory(ctx context.Context, id primitive.ObjectID, inventory []models.InventoryEntry) error
}

// MetaRepository maintains the global cache-invalidation marker consumed by
// the mobile client's offline cache.
type MetaRepository interface {
	TouchLastUpdated(ctx context.Context, at time.Time) error
}
