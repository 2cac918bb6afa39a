package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward types
const (
	RewardTypeFree     = "free"
	RewardTypeDiscount = "discount"
)

// Reward is a catalog entry users can exchange points for
type Reward struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Type      string             `bson:"type" json:"type"`
	Cost      int                `bson:"cost" json:"cost"`
	Discount  int                `bson:"discount,omitempty" json:"discount,omitempty"`
	ProductID primitive.ObjectID `bson:"productId,omitempty" json:"productId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
