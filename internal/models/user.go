package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types recorded in a user's recentActivity log
const (
	ActivityPurchase = "purchase"
	ActivityRedeem   = "redeem"
)

// RecentActivityCap bounds the recentActivity log; older entries are dropped
// on write so the user document cannot grow without limit.
const RecentActivityCap = 100

// VoucherValidity is how long a redeemed reward stays usable.
const VoucherValidity = 30 * 24 * time.Hour

// User represents a customer account with its loyalty state
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email            string             `bson:"email" json:"email"`
	PasswordHash     string             `bson:"passwordHash" json:"-"`
	FirstName        string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName         string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Points           int                `bson:"points" json:"points"`
	Tier             Tier               `bson:"tier" json:"tier"`
	TierAchievedDate *time.Time         `bson:"tierAchievedDate,omitempty" json:"tierAchievedDate,omitempty"`
	RedeemedRewards  []Redemption       `bson:"redeemedRewards" json:"redeemedRewards"`
	RecentActivity   []Activity         `bson:"recentActivity" json:"recentActivity"`
	IsAdmin          bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Redemption is one redeemed reward embedded in the user document. The
// voucher it carries is single-use and expires VoucherValidity after
// RedeemedAt; expiry is derived at read time, never written.
type Redemption struct {
	RewardID   primitive.ObjectID `bson:"rewardId" json:"rewardId"`
	RewardName string             `bson:"rewardName" json:"rewardName"`
	PointsUsed int                `bson:"pointsUsed" json:"pointsUsed"`
	RedeemedAt time.Time          `bson:"redeemedAt" json:"redeemedAt"`
	VoucherID  string             `bson:"voucherId" json:"voucherId"`
	Used       bool               `bson:"used" json:"used"`
}

// ExpiresAt returns the end of the voucher's validity window
func (r Redemption) ExpiresAt() time.Time {
	return r.RedeemedAt.Add(VoucherValidity)
}

// Expired reports whether the voucher window has passed at the given time
func (r Redemption) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt())
}

// Activity is one entry in the user's recentActivity log
type Activity struct {
	Type        string              `bson:"type" json:"type"`
	Date        time.Time           `bson:"date" json:"date"`
	OrderID     *primitive.ObjectID `bson:"orderId,omitempty" json:"orderId,omitempty"`
	RewardID    *primitive.ObjectID `bson:"rewardId,omitempty" json:"rewardId,omitempty"`
	RewardName  string              `bson:"rewardName,omitempty" json:"rewardName,omitempty"`
	VoucherID   string              `bson:"voucherId,omitempty" json:"voucherId,omitempty"`
	PointsAdded int                 `bson:"pointsAdded,omitempty" json:"pointsAdded,omitempty"`
	PointsUsed  int                 `bson:"pointsUsed,omitempty" json:"pointsUsed,omitempty"`
}
