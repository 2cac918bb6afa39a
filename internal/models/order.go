package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCompleted = "completed"
)

// Order is a paid order awaiting (or past) settlement. Rewarded is a one-way
// latch: settlement runs at most once per order and flips it inside the same
// transaction that credits points.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Items        []OrderItem        `bson:"items" json:"items"`
	Total        float64            `bson:"total" json:"total"`
	PointsEarned int                `bson:"pointsEarned" json:"pointsEarned"`
	VoucherID    string             `bson:"voucherId,omitempty" json:"voucherId,omitempty"`
	Rewarded     bool               `bson:"rewarded" json:"rewarded"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem is a single order or cart line. RewardItem marks a zero-price
// line injected by a free-type reward voucher.
type OrderItem struct {
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Size       string             `bson:"size,omitempty" json:"size,omitempty"`
	Color      string             `bson:"color,omitempty" json:"color,omitempty"`
	Price      float64            `bson:"price" json:"price"`
	RewardItem bool               `bson:"rewardItem,omitempty" json:"rewardItem,omitempty"`
}
