package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RewardService exchanges points for vouchers and applies vouchers to carts
type RewardService struct {
	rewardRepo  repositories.RewardRepository
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	tx          TxRunner
}

// NewRewardService creates a new RewardService
func NewRewardService(rewardRepo repositories.RewardRepository, userRepo repositories.UserRepository, productRepo repositories.ProductRepository, tx TxRunner) *RewardService {
	return &RewardService{
		rewardRepo:  rewardRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		tx:          tx,
	}
}

// ListRewards returns the reward catalog
func (s *RewardService) ListRewards(ctx context.Context) ([]*models.Reward, error) {
	return s.rewardRepo.FindAll(ctx)
}

// RedemptionResult is returned to the caller of RedeemReward
type RedemptionResult struct {
	RewardID   primitive.ObjectID `json:"rewardId"`
	RewardName string             `json:"rewardName"`
	PointsUsed int                `json:"pointsUsed"`
	VoucherID  string             `json:"voucherId"`
}

// RedeemReward debits the reward's cost from the user's balance and issues a
// single-use voucher. The balance check and the debit run in one transaction,
// so two concurrent redemptions can never both spend the same points. Not
// idempotent: every successful call redeems once.
func (s *RewardService) RedeemReward(ctx context.Context, userID, rewardID primitive.ObjectID) (*RedemptionResult, error) {
	var result *RedemptionResult
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		reward, err := s.rewardRepo.FindByID(ctx, rewardID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrRewardNotFound
			}
			return err
		}
		if reward.Cost < 0 {
			return ErrInvalidRewardCost
		}

		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Points < reward.Cost {
			return ErrInsufficientPoints
		}

		now := time.Now()
		voucherID := uuid.NewString()
		redemption := models.Redemption{
			RewardID:   reward.ID,
			RewardName: reward.Name,
			PointsUsed: reward.Cost,
			RedeemedAt: now,
			VoucherID:  voucherID,
			Used:       false,
		}
		activity := models.Activity{
			Type:       models.ActivityRedeem,
			Date:       now,
			RewardID:   &reward.ID,
			RewardName: reward.Name,
			VoucherID:  voucherID,
			PointsUsed: reward.Cost,
		}
		if err := s.userRepo.DebitPoints(ctx, user.ID, reward.Cost, redemption, activity); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				// The guarded update found the balance short after all
				return ErrInsufficientPoints
			}
			return err
		}

		result = &RedemptionResult{
			RewardID:   reward.ID,
			RewardName: reward.Name,
			PointsUsed: reward.Cost,
			VoucherID:  voucherID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidReward is one presentable, usable voucher
type ValidReward struct {
	RewardName string              `json:"rewardName"`
	VoucherID  string              `json:"voucherId"`
	ExpiryDate time.Time           `json:"expiryDate"`
	ProductID  *primitive.ObjectID `json:"productId,omitempty"`
}

// ValidRewards lists the user's unused, unexpired vouchers. Expiry is
// computed here at read time; nothing is written.
func (s *RewardService) ValidRewards(ctx context.Context, userID primitive.ObjectID) ([]ValidReward, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	valid := []ValidReward{}
	for _, redemption := range user.RedeemedRewards {
		if redemption.Used || redemption.Expired(now) {
			continue
		}
		entry := ValidReward{
			RewardName: redemption.RewardName,
			VoucherID:  redemption.VoucherID,
			ExpiryDate: redemption.ExpiresAt(),
		}
		// A reward deleted from the catalog just loses its productId here;
		// any other lookup failure is surfaced.
		reward, err := s.rewardRepo.FindByID(ctx, redemption.RewardID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		if err == nil && reward.Type == models.RewardTypeFree {
			productID := reward.ProductID
			entry.ProductID = &productID
		}
		valid = append(valid, entry)
	}
	return valid, nil
}

// ApplyReward computes the discounted state of a cart under one of the
// user's vouchers. Read-only: the voucher is only marked used when an order
// carrying it settles.
func (s *RewardService) ApplyReward(ctx context.Context, userID primitive.ObjectID, voucherID string, items []models.OrderItem) ([]models.OrderItem, float64, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	var redemption *models.Redemption
	for i := range user.RedeemedRewards {
		if user.RedeemedRewards[i].VoucherID == voucherID {
			redemption = &user.RedeemedRewards[i]
			break
		}
	}
	if redemption == nil {
		return nil, 0, ErrVoucherNotFound
	}
	if redemption.Used {
		return nil, 0, ErrVoucherUsed
	}
	if redemption.Expired(time.Now()) {
		return nil, 0, ErrVoucherExpired
	}

	reward, err := s.rewardRepo.FindByID(ctx, redemption.RewardID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, ErrRewardNotFound
		}
		return nil, 0, err
	}

	switch reward.Type {
	case models.RewardTypeDiscount:
		// Mutually exclusive with free-item rewards: drop any injected line
		updated := make([]models.OrderItem, 0, len(items))
		subtotal := 0.0
		for _, item := range items {
			if item.RewardItem {
				continue
			}
			updated = append(updated, item)
			subtotal += item.Price * float64(item.Quantity)
		}
		discount := float64(reward.Discount) / 100 * subtotal
		return updated, discount, nil

	case models.RewardTypeFree:
		for _, item := range items {
			if item.RewardItem && item.ProductID == reward.ProductID {
				return items, 0, nil
			}
		}
		product, err := s.productRepo.FindByID(ctx, reward.ProductID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, 0, ErrProductNotFound
			}
			return nil, 0, err
		}
		free := models.OrderItem{
			ProductID:  product.ID,
			Quantity:   1,
			Price:      0,
			RewardItem: true,
		}
		if len(product.Inventory) > 0 {
			free.Size = product.Inventory[0].Size
			free.Color = product.Inventory[0].Color
		}
		return append(items, free), 0, nil

	default:
		return nil, 0, ErrRewardNotFound
	}
}
