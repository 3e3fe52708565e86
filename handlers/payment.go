package handlers

import (
	"net/http"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	DB *gorm.DB
}

var validCurrencies = map[string]bool{
	"INR": true, "USD": true, "EUR": true, "GBP": true, "CAD": true, "AUD": true,
}

var validProviders = map[string]bool{
	"stripe": true, "paypal": true, "square": true, "cash": true, "card": true,
}

var validPaymentStatuses = map[string]bool{
	"pending": true, "completed": true, "failed": true, "refunded": true,
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req struct {
		OrderID           *uuid.UUID `json:"order_id"`
		Amount            float64    `json:"amount" binding:"required,gt=0"`
		Currency          string     `json:"currency"`
		Provider          string     `json:"provider" binding:"required"`
		ProviderPaymentID string     `json:"provider_payment_id"`
		Notes             string     `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.Currency == "" {
		req.Currency = "INR"
	}
	if !validCurrencies[req.Currency] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unsupported currency"})
		return
	}
	if !validProviders[req.Provider] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unsupported payment provider"})
		return
	}

	if req.OrderID != nil {
		var order models.Order
		if err := h.DB.Where("id = ?", req.OrderID).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
	}

	payment := models.Payment{
		OrderID:           req.OrderID,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Provider:          req.Provider,
		ProviderPaymentID: req.ProviderPaymentID,
		Status:            "pending",
		Notes:             req.Notes,
	}

	if err := h.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": payment, "message": "Payment created successfully"})
}

func (h *PaymentHandler) GetPayments(c *gin.Context) {
	var payments []models.Payment
	if err := h.DB.Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": payments, "message": "Payments fetched"})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	var payment models.Payment
	if err := h.DB.Where("id = ?", c.Param("id")).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": payment, "message": "Payment fetched"})
}

func (h *PaymentHandler) GetPaymentsByOrder(c *gin.Context) {
	var payments []models.Payment
	if err := h.DB.Where("order_id = ?", c.Param("orderId")).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": payments, "message": "Order payments fetched"})
}

// GetPaymentsByUser returns the caller's payment history through their
// orders.
func (h *PaymentHandler) GetPaymentsByUser(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var payments []models.Payment
	if err := h.DB.Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID).
		Order("payments.created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": payments, "message": "User payments fetched"})
}

func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if !validPaymentStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment status"})
		return
	}

	var payment models.Payment
	if err := h.DB.Where("id = ?", c.Param("id")).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
		return
	}

	if err := h.DB.Model(&payment).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update payment"})
		return
	}

	payment.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"success": true, "data": payment, "message": "Payment status updated"})
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	var payment models.Payment
	if err := h.DB.Where("id = ?", c.Param("id")).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
		return
	}

	if err := h.DB.Delete(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment deleted successfully"})
}
