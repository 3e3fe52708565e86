package handlers

import (
	"net/http"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB *gorm.DB
}

var validOrderStatuses = map[models.OrderStatus]bool{
	models.OrderStatusCreated:   true,
	models.OrderStatusPending:   true,
	models.OrderStatusPreparing: true,
	models.OrderStatusCompleted: true,
	models.OrderStatusCancelled: true,
}

// CreateOrder places an order. Prices come from the menu rather than the
// request, so a stale client cannot set its own totals. The order, its items
// and the loyalty credit commit together.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req struct {
		RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
		Items        []struct {
			MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
			Quantity   int       `json:"quantity" binding:"required,gt=0"`
		} `json:"items" binding:"required,min=1,dive"`
		OrderType           string `json:"order_type"`
		SpecialInstructions string `json:"special_instructions"`
		DeliveryAddress     string `json:"delivery_address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", req.RestaurantID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}

	var order models.Order
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			RestaurantID:        req.RestaurantID,
			UserID:              userID.(uuid.UUID),
			Status:              models.OrderStatusCreated,
			SpecialInstructions: req.SpecialInstructions,
			DeliveryAddress:     req.DeliveryAddress,
		}
		if req.OrderType != "" {
			order.OrderType = req.OrderType
		}

		var total float64
		var items []models.OrderItem
		for _, reqItem := range req.Items {
			var menuItem models.MenuItem
			if err := tx.Where("id = ? AND restaurant_id = ?", reqItem.MenuItemID, req.RestaurantID).
				First(&menuItem).Error; err != nil {
				return errMenuItemNotFound
			}
			if !menuItem.IsAvailable {
				return errMenuItemUnavailable
			}

			lineTotal := menuItem.Price * float64(reqItem.Quantity)
			total += lineTotal
			items = append(items, models.OrderItem{
				MenuItemID: menuItem.ID,
				Quantity:   reqItem.Quantity,
				UnitPrice:  menuItem.Price,
				TotalPrice: lineTotal,
			})
		}

		order.TotalAmount = total
		order.PointsEarned = int(total)

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items

		// 1 loyalty point per currency unit spent.
		if order.PointsEarned > 0 {
			if _, err := addPoints(tx, order.UserID, order.PointsEarned, "order_earn", &order.ID, "order"); err != nil {
				return err
			}
		}
		return nil
	})

	switch {
	case err == nil:
	case err == errMenuItemNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "One or more menu items not found for this restaurant"})
		return
	case err == errMenuItemUnavailable:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "One or more menu items are currently unavailable"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order, "message": "Order created successfully"})
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var orders []models.Order
	if err := h.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders, "message": "Orders fetched"})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, _ := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	var order models.Order
	if err := h.DB.Preload("Items").Preload("Items.MenuItem").
		Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if userRole != "admin" && order.UserID != userID.(uuid.UUID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order, "message": "Order fetched"})
}

func (h *OrderHandler) GetOrdersByUser(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var orders []models.Order
	if err := h.DB.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders, "message": "User orders fetched"})
}

func (h *OrderHandler) GetOrdersByRestaurant(c *gin.Context) {
	var orders []models.Order
	if err := h.DB.Preload("Items").Where("restaurant_id = ?", c.Param("restaurantId")).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders, "message": "Restaurant orders fetched"})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if !validOrderStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order status"})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if order.Status == models.OrderStatusCompleted || order.Status == models.OrderStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Order is already finalized"})
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order"})
		return
	}

	order.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order, "message": "Order status updated"})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	var order models.Order
	if err := h.DB.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if err := h.DB.Delete(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted successfully"})
}
