package services

import (
	"context"
	"errors"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// passthroughTx satisfies TxRunner without a real store; the fakes mutate
// in-memory state, and tests assert on final state only for committed paths.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users    map[primitive.ObjectID]*models.User
	writeErr map[primitive.ObjectID]error

	// afterFindAll, when set, runs once FindAll has returned its snapshots.
	// Tests use it to commit writes that race a reconciliation pass.
	afterFindAll func()
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:    make(map[primitive.ObjectID]*models.User),
		writeErr: make(map[primitive.ObjectID]error),
	}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.RedeemedRewards = append([]models.Redemption(nil), user.RedeemedRewards...)
	clone.RecentActivity = append([]models.Activity(nil), user.RecentActivity...)
	return &clone
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneUser(user), nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	if r.afterFindAll != nil {
		r.afterFindAll()
	}
	return users, nil
}

func (r *fakeUserRepo) CreditPoints(ctx context.Context, id primitive.ObjectID, points int, activity models.Activity) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Points += points
	user.RecentActivity = append(user.RecentActivity, activity)
	if len(user.RecentActivity) > models.RecentActivityCap {
		user.RecentActivity = user.RecentActivity[len(user.RecentActivity)-models.RecentActivityCap:]
	}
	return nil
}

func (r *fakeUserRepo) DebitPoints(ctx context.Context, id primitive.ObjectID, points int, redemption models.Redemption, activity models.Activity) error {
	user, ok := r.users[id]
	if !ok || user.Points < points {
		return mongo.ErrNoDocuments
	}
	user.Points -= points
	user.RedeemedRewards = append(user.RedeemedRewards, redemption)
	user.RecentActivity = append(user.RecentActivity, activity)
	return nil
}

func (r *fakeUserRepo) SetTier(ctx context.Context, id primitive.ObjectID, tier models.Tier, achievedAt *time.Time) error {
	if err := r.writeErr[id]; err != nil {
		return err
	}
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Tier = tier
	user.TierAchievedDate = achievedAt
	return nil
}

func (r *fakeUserRepo) MarkVoucherUsed(ctx context.Context, id primitive.ObjectID, voucherID string) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range user.RedeemedRewards {
		if user.RedeemedRewards[i].VoucherID == voucherID {
			user.RedeemedRewards[i].Used = true
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeUserRepo) RemoveExpiredVouchers(ctx context.Context, id primitive.ObjectID, voucherIDs []string) error {
	if err := r.writeErr[id]; err != nil {
		return err
	}
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	drop := make(map[string]bool, len(voucherIDs))
	for _, v := range voucherIDs {
		drop[v] = true
	}
	kept := make([]models.Redemption, 0, len(user.RedeemedRewards))
	for _, redemption := range user.RedeemedRewards {
		if !drop[redemption.VoucherID] {
			kept = append(kept, redemption)
		}
	}
	user.RedeemedRewards = kept
	return nil
}

type fakeRewardRepo struct {
	rewards map[primitive.ObjectID]*models.Reward
	findErr error
}

func newFakeRewardRepo(rewards ...*models.Reward) *fakeRewardRepo {
	repo := &fakeRewardRepo{rewards: make(map[primitive.ObjectID]*models.Reward)}
	for _, rw := range rewards {
		if rw.ID.IsZero() {
			rw.ID = primitive.NewObjectID()
		}
		repo.rewards[rw.ID] = rw
	}
	return repo
}

func (r *fakeRewardRepo) Create(ctx context.Context, reward *models.Reward) error {
	reward.ID = primitive.NewObjectID()
	r.rewards[reward.ID] = reward
	return nil
}

func (r *fakeRewardRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	reward, ok := r.rewards[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *reward
	return &clone, nil
}

func (r *fakeRewardRepo) FindAll(ctx context.Context) ([]*models.Reward, error) {
	rewards := make([]*models.Reward, 0, len(r.rewards))
	for _, reward := range r.rewards {
		clone := *reward
		rewards = append(rewards, &clone)
	}
	return rewards, nil
}

type fakeOrderRepo struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[primitive.ObjectID]*models.Order)}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) MarkRewarded(ctx context.Context, id primitive.ObjectID) error {
	order, ok := r.orders[id]
	if !ok || order.Rewarded {
		return mongo.ErrNoDocuments
	}
	order.Rewarded = true
	order.Status = models.OrderStatusCompleted
	return nil
}

type fakeProductRepo struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *product
	clone.Inventory = append([]models.InventoryEntry(nil), product.Inventory...)
	return &clone, nil
}

func (r *fakeProductRepo) UpdateInventory(ctx context.Context, id primitive.ObjectID, inventory []models.InventoryEntry) error {
	product, ok := r.products[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	product.Inventory = inventory
	return nil
}

type fakeMetaRepo struct {
	lastUpdated time.Time
	touches     int
}

func (r *fakeMetaRepo) TouchLastUpdated(ctx context.Context, at time.Time) error {
	r.lastUpdated = at
	r.touches++
	return nil
}

var errStoreDown = errors.New("store unavailable")
