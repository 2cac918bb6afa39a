package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// The fakes embed their repository interface so only the methods a test
// actually exercises need implementations.

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	repositories.UserRepository
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *fakeUserRepo) CreditPoints(ctx context.Context, id primitive.ObjectID, points int, activity models.Activity) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Points += points
	user.RecentActivity = append(user.RecentActivity, activity)
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

type fakeRewardRepo struct {
	repositories.RewardRepository
	rewards map[primitive.ObjectID]*models.Reward
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

func (r *fakeRewardRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	reward, ok := r.rewards[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return reward, nil
}

type fakeOrderRepo struct {
	repositories.OrderRepository
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
	return order, nil
}

func (r *fakeOrderRepo) MarkRewarded(ctx context.Context, id primitive.ObjectID) error {
	order, ok := r.orders[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	order.Rewarded = true
	return nil
}

type fakeProductRepo struct {
	repositories.ProductRepository
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
	return product, nil
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
	repositories.MetaRepository
}

func (r *fakeMetaRepo) TouchLastUpdated(ctx context.Context, at time.Time) error {
	return nil
}

// testAuth stands in for the JWT middleware, injecting the verified user ID
func testAuth(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID.Hex())
		c.Next()
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}

