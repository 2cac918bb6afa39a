package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roamly/roamly-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHandler handles order settlement requests
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

type processOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// Process handles POST /api/process-order
func (h *OrderHandler) Process(c *gin.Context) {
	var req processOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderId is required"})
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid orderId format"})
		return
	}

	alreadyProcessed, err := h.orderService.ProcessOrder(c, orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, services.ErrInsufficientInventory), errors.Is(err, services.ErrVoucherNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process order"})
		}
		return
	}

	message := "Order processed"
	if alreadyProcessed {
		message = "Order already processed"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
