package handlers

import (
	"net/http"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

func getOrCreateCart(tx *gorm.DB, userID, restaurantID uuid.UUID) (models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{UserID: userID, RestaurantID: restaurantID}
		err = tx.Create(&cart).Error
	}
	return cart, err
}

// GetCart returns the caller's cart for a restaurant, creating an empty one
// on first access.
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := c.Get("user_id")

	restaurantID, err := uuid.Parse(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid restaurant id"})
		return
	}

	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}

	cart, err := getOrCreateCart(h.DB, userID.(uuid.UUID), restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
		return
	}

	h.DB.Preload("Items").Preload("Items.MenuItem").Where("id = ?", cart.ID).First(&cart)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cart, "message": "Cart fetched"})
}

// AddItem puts a menu item in the cart; adding an item already present merges
// the quantities.
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req struct {
		RestaurantID    uuid.UUID `json:"restaurant_id" binding:"required"`
		MenuItemID      uuid.UUID `json:"menu_item_id" binding:"required"`
		Quantity        int       `json:"quantity" binding:"required,gt=0"`
		SpecialRequests string    `json:"special_requests"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	var menuItem models.MenuItem
	if err := h.DB.Where("id = ? AND restaurant_id = ?", req.MenuItemID, req.RestaurantID).
		First(&menuItem).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Menu item not found for this restaurant"})
		return
	}
	if !menuItem.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Menu item is currently unavailable"})
		return
	}

	var cart models.Cart
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		cart, txErr = getOrCreateCart(tx, userID.(uuid.UUID), req.RestaurantID)
		if txErr != nil {
			return txErr
		}

		var item models.CartItem
		txErr = tx.Where("cart_id = ? AND menu_item_id = ?", cart.ID, req.MenuItemID).First(&item).Error
		if txErr == gorm.ErrRecordNotFound {
			item = models.CartItem{
				CartID:          cart.ID,
				MenuItemID:      req.MenuItemID,
				Quantity:        req.Quantity,
				UnitPrice:       menuItem.Price,
				SpecialRequests: req.SpecialRequests,
			}
			return tx.Create(&item).Error
		}
		if txErr != nil {
			return txErr
		}

		updates := map[string]interface{}{
			"quantity":   item.Quantity + req.Quantity,
			"unit_price": menuItem.Price,
		}
		if req.SpecialRequests != "" {
			updates["special_requests"] = req.SpecialRequests
		}
		return tx.Model(&item).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add item to cart"})
		return
	}

	h.DB.Preload("Items").Preload("Items.MenuItem").Where("id = ?", cart.ID).First(&cart)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cart, "message": "Item added to cart"})
}

// UpdateItem sets a cart item's quantity; quantity 0 removes the item.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req struct {
		Quantity        *int    `json:"quantity" binding:"required"`
		SpecialRequests *string `json:"special_requests"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "quantity cannot be negative"})
		return
	}

	var item models.CartItem
	if err := h.DB.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", c.Param("itemId"), userID).
		First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item not found"})
		return
	}

	if *req.Quantity == 0 {
		if err := h.DB.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove cart item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart"})
		return
	}

	updates := map[string]interface{}{"quantity": *req.Quantity}
	if req.SpecialRequests != nil {
		updates["special_requests"] = *req.SpecialRequests
	}

	if err := h.DB.Model(&item).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update cart item"})
		return
	}

	h.DB.Preload("MenuItem").Where("id = ?", item.ID).First(&item)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item, "message": "Cart item updated"})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var item models.CartItem
	if err := h.DB.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", c.Param("itemId"), userID).
		First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item not found"})
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var cart models.Cart
	if err := h.DB.Where("id = ? AND user_id = ?", c.Param("cartId"), userID).
		First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	if err := h.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}

// GetCartTotal sums the cart's line totals.
func (h *CartHandler) GetCartTotal(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var cart models.Cart
	if err := h.DB.Preload("Items").Where("id = ? AND user_id = ?", c.Param("cartId"), userID).
		First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	var total float64
	var itemCount int
	for _, item := range cart.Items {
		total += item.UnitPrice * float64(item.Quantity)
		itemCount += item.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart_id":    cart.ID,
			"total":      total,
			"item_count": itemCount,
		},
		"message": "Cart total fetched",
	})
}

func (h *CartHandler) DeleteCart(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var cart models.Cart
	if err := h.DB.Where("id = ? AND user_id = ?", c.Param("cartId"), userID).
		First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart deleted"})
}
