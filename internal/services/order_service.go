package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderService settles paid orders: inventory decrement, point credit,
// voucher confirmation and the rewarded latch, all in one transaction.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	metaRepo    repositories.MetaRepository
	tx          TxRunner
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, productRepo repositories.ProductRepository, metaRepo repositories.MetaRepository, tx TxRunner) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		metaRepo:    metaRepo,
		tx:          tx,
	}
}

// ProcessOrder converts a paid order into inventory decrements and a point
// credit, exactly once. A second call on the same order is a no-op reporting
// alreadyProcessed. Any failure rolls back every write of the attempt.
func (s *OrderService) ProcessOrder(ctx context.Context, orderID primitive.ObjectID) (alreadyProcessed bool, err error) {
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Rewarded {
			alreadyProcessed = true
			return nil
		}

		user, err := s.userRepo.FindByID(ctx, order.UserID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrUserNotFound
			}
			return err
		}

		if err := s.settleInventory(ctx, order); err != nil {
			return err
		}

		now := time.Now()
		activity := models.Activity{
			Type:        models.ActivityPurchase,
			Date:        now,
			OrderID:     &order.ID,
			PointsAdded: order.PointsEarned,
		}
		if err := s.userRepo.CreditPoints(ctx, user.ID, order.PointsEarned, activity); err != nil {
			return err
		}

		// Upgrades are never delayed to the next reconciliation run
		newTier := models.TierForPoints(user.Points + order.PointsEarned)
		if newTier.Rank() > user.Tier.Rank() {
			achieved := now
			if err := s.userRepo.SetTier(ctx, user.ID, newTier, &achieved); err != nil {
				return err
			}
		}

		// Confirmation step for a voucher applied at checkout
		if order.VoucherID != "" {
			if err := s.userRepo.MarkVoucherUsed(ctx, user.ID, order.VoucherID); err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return ErrVoucherNotFound
				}
				return err
			}
		}

		if err := s.orderRepo.MarkRewarded(ctx, order.ID); err != nil {
			return err
		}
		return s.metaRepo.TouchLastUpdated(ctx, now)
	})
	return alreadyProcessed, err
}

// settleInventory validates and decrements stock for every order line,
// grouping lines by product so each product document is written once.
func (s *OrderService) settleInventory(ctx context.Context, order *models.Order) error {
	products := make(map[primitive.ObjectID]*models.Product)
	dirty := make([]primitive.ObjectID, 0, len(order.Items))

	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			var err error
			product, err = s.productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return ErrProductNotFound
				}
				return err
			}
			products[item.ProductID] = product
			dirty = append(dirty, item.ProductID)
		}

		idx, ok := matchInventory(product.Inventory, item)
		if !ok {
			return fmt.Errorf("%w: product %s size=%q color=%q", ErrInsufficientInventory, product.ID.Hex(), item.Size, item.Color)
		}
		product.Inventory[idx].Quantity -= item.Quantity
	}

	for _, id := range dirty {
		if err := s.productRepo.UpdateInventory(ctx, id, products[id].Inventory); err != nil {
			return err
		}
	}
	return nil
}

// matchInventory finds an inventory entry able to cover the line. An empty
// size or color on the item matches any variant with enough stock.
func matchInventory(inventory []models.InventoryEntry, item models.OrderItem) (int, bool) {
	for i, entry := range inventory {
		if item.Size != "" && entry.Size != item.Size {
			continue
		}
		if item.Color != "" && entry.Color != item.Color {
			continue
		}
		if entry.Quantity >= item.Quantity {
			return i, true
		}
	}
	return 0, false
}
