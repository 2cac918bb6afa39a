package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/roamly-backend/internal/services"
)

// LoyaltyHandler serves the loyalty screen's summary and activity views
type LoyaltyHandler struct {
	loyaltyService *services.LoyaltyService
}

// NewLoyaltyHandler creates a new LoyaltyHandler
func NewLoyaltyHandler(loyaltyService *services.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyService: loyaltyService,
	}
}

// Summary handles GET /api/loyalty/summary
func (h *LoyaltyHandler) Summary(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	summary, err := h.loyaltyService.Summary(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load loyalty summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// Activity handles GET /api/loyalty/activity
func (h *LoyaltyHandler) Activity(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	activity, err := h.loyaltyService.RecentActivity(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "recentActivity": activity})
}
