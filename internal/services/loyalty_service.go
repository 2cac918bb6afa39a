package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TierValidity is how long an achieved tier lasts before it must be
// re-earned or is downgraded.
const TierValidity = 365 * 24 * time.Hour

// LoyaltyService owns tier reconciliation and loyalty display math
type LoyaltyService struct {
	userRepo repositories.UserRepository
}

// NewLoyaltyService creates a new LoyaltyService
func NewLoyaltyService(userRepo repositories.UserRepository) *LoyaltyService {
	return &LoyaltyService{
		userRepo: userRepo,
	}
}

// ReconcileStats summarizes one reconciliation run
type ReconcileStats struct {
	Processed  int
	Upgraded   int
	Renewed    int
	Downgraded int
	Swept      int
	Failed     int
}

// ReconcileAll re-derives every user's tier from their current points,
// enforcing the one-year tier window, and drops redemption entries whose
// voucher window has passed. The sweep runs against a snapshot, so every
// write is targeted: tier fields via SetTier, expired entries via a $pull by
// voucher ID. Points and activity are never written here; settlements and
// redemptions committing mid-run keep their effects. A failure on one user is
// logged and skipped, and the next scheduled run repairs whatever this one
// missed.
func (s *LoyaltyService) ReconcileAll(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return stats, err
	}

	now := time.Now()
	for _, user := range users {
		stats.Processed++
		changed, change := reconcileUser(user, now)
		expired := expiredVoucherIDs(user, now)
		failed := false

		if changed {
			if err := s.userRepo.SetTier(ctx, user.ID, user.Tier, user.TierAchievedDate); err != nil {
				failed = true
				log.Printf("[WARN] ReconcileAll: failed to set tier for user %s: %v", user.ID.Hex(), err)
			} else {
				switch change {
				case tierUpgraded:
					stats.Upgraded++
				case tierRenewed:
					stats.Renewed++
				case tierDowngraded:
					stats.Downgraded++
				}
			}
		}

		if len(expired) > 0 {
			if err := s.userRepo.RemoveExpiredVouchers(ctx, user.ID, expired); err != nil {
				failed = true
				log.Printf("[WARN] ReconcileAll: failed to sweep vouchers for user %s: %v", user.ID.Hex(), err)
			} else {
				stats.Swept++
			}
		}

		if failed {
			stats.Failed++
		}
	}

	return stats, nil
}

type tierChange int

const (
	tierUnchanged tierChange = iota
	tierUpgraded
	tierRenewed
	tierDowngraded
)

// reconcileUser applies the tier rules to a single user in memory:
// upgrades happen immediately; expiry of the one-year window either renews
// the tier (still earned) or downgrades to whatever the points support.
func reconcileUser(user *models.User, now time.Time) (bool, tierChange) {
	computed := models.TierForPoints(user.Points)

	if computed.Rank() > user.Tier.Rank() {
		user.Tier = computed
		achieved := now
		user.TierAchievedDate = &achieved
		return true, tierUpgraded
	}

	if user.TierAchievedDate == nil {
		return false, tierUnchanged
	}
	if now.Before(user.TierAchievedDate.Add(TierValidity)) {
		return false, tierUnchanged
	}

	// Tier window expired
	if computed == user.Tier {
		achieved := now
		user.TierAchievedDate = &achieved
		return true, tierRenewed
	}

	user.Tier = computed
	if computed == models.TierBasic {
		user.TierAchievedDate = nil
	} else {
		achieved := now
		user.TierAchievedDate = &achieved
	}
	return true, tierDowngraded
}

// expiredVoucherIDs lists the redemption entries past their voucher window so
// redeemedRewards stays bounded. Used-but-unexpired entries are kept for the
// user's history view.
func expiredVoucherIDs(user *models.User, now time.Time) []string {
	var expired []string
	for _, redemption := range user.RedeemedRewards {
		if redemption.Expired(now) {
			expired = append(expired, redemption.VoucherID)
		}
	}
	return expired
}

// LoyaltySummary is the display math for the loyalty screen
type LoyaltySummary struct {
	Points           int          `json:"points"`
	Tier             models.Tier  `json:"tier"`
	TierAchievedDate *time.Time   `json:"tierAchievedDate,omitempty"`
	NextTier         *models.Tier `json:"nextTier,omitempty"`
	PointsToNext     int          `json:"pointsToNext,omitempty"`
}

// Summary computes the loyalty summary for a user
func (s *LoyaltyService) Summary(ctx context.Context, userID primitive.ObjectID) (*LoyaltySummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	summary := &LoyaltySummary{
		Points:           user.Points,
		Tier:             user.Tier,
		TierAchievedDate: user.TierAchievedDate,
	}
	if next, toNext, ok := models.NextTier(user.Points); ok {
		summary.NextTier = &next
		summary.PointsToNext = toNext
	}
	return summary, nil
}

// RecentActivity returns the user's activity log, most recent last
func (s *LoyaltyService) RecentActivity(ctx context.Context, userID primitive.ObjectID) ([]models.Activity, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.RecentActivity == nil {
		return []models.Activity{}, nil
	}
	return user.RecentActivity, nil
}
