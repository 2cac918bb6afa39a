package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardHandler handles reward catalog, redemption and voucher requests
type RewardHandler struct {
	rewardService *services.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService *services.RewardService) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
	}
}

type redeemRequest struct {
	UserID   string `json:"userId" binding:"required"`
	RewardID string `json:"rewardId" binding:"required"`
}

// Redeem handles POST /api/redeem-reward
func (h *RewardHandler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "userId and rewardId are required"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid userId format"})
		return
	}
	rewardID, err := primitive.ObjectIDFromHex(req.RewardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid rewardId format"})
		return
	}

	result, err := h.rewardService.RedeemReward(c, userID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, services.ErrInsufficientPoints), errors.Is(err, services.ErrInvalidRewardCost):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to redeem reward"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// List handles GET /api/rewards
func (h *RewardHandler) List(c *gin.Context) {
	rewards, err := h.rewardService.ListRewards(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list rewards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rewards": rewards})
}

// Valid handles GET /api/rewards/valid
func (h *RewardHandler) Valid(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	valid, err := h.rewardService.ValidRewards(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "redeemedRewards": valid})
}

type applyRequest struct {
	CartItems []models.OrderItem `json:"cartItems" binding:"required"`
	VoucherID string             `json:"voucherId" binding:"required"`
}

// Apply handles POST /api/rewards/apply
func (h *RewardHandler) Apply(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cartItems and voucherId are required"})
		return
	}

	updated, discount, err := h.rewardService.ApplyReward(c, userID, req.VoucherID, req.CartItems)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVoucherNotFound), errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrRewardNotFound), errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, services.ErrVoucherUsed), errors.Is(err, services.ErrVoucherExpired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to apply voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updatedCartItems": updated,
		"discountValue":    discount,
	})
}

// authenticatedUserID pulls the verified user ID the JWT middleware stored
// in the context. Writes the error response itself when absent or malformed.
func authenticatedUserID(c *gin.Context) (primitive.ObjectID, bool) {
	sub := c.GetString("userID")
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token subject"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
