package handlers

import (
	"net/http"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuHandler struct {
	DB *gorm.DB
}

// getOrCreateCategory resolves a category name for a restaurant, creating the
// category on first use. Empty names map to no category.
func getOrCreateCategory(tx *gorm.DB, restaurantID uuid.UUID, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}

	var category models.MenuCategory
	err := tx.Where("restaurant_id = ? AND name = ?", restaurantID, name).First(&category).Error
	if err == gorm.ErrRecordNotFound {
		category = models.MenuCategory{RestaurantID: restaurantID, Name: name}
		err = tx.Create(&category).Error
	}
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

func (h *MenuHandler) GetMenuByRestaurant(c *gin.Context) {
	restaurantID := c.Param("id")

	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}

	var items []models.MenuItem
	if err := h.DB.Preload("Category").Where("restaurant_id = ?", restaurantID).
		Order("created_at ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "message": "Menu fetched"})
}

func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := h.DB.Preload("Category").Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item, "message": "Menu item fetched"})
}

func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req struct {
		RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
		Name         string    `json:"name" binding:"required"`
		Description  string    `json:"description"`
		Price        float64   `json:"price" binding:"required,gt=0"`
		Currency     string    `json:"currency"`
		Category     string    `json:"category"`
		IsAvailable  *bool     `json:"is_available"`
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

	var item models.MenuItem
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		categoryID, err := getOrCreateCategory(tx, req.RestaurantID, req.Category)
		if err != nil {
			return err
		}

		item = models.MenuItem{
			RestaurantID: req.RestaurantID,
			CategoryID:   categoryID,
			Name:         req.Name,
			Description:  req.Description,
			Price:        req.Price,
			IsAvailable:  true,
		}
		if req.Currency != "" {
			item.Currency = req.Currency
		}
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create menu item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": item, "message": "Menu item created successfully"})
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Menu item not found"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Currency    *string  `json:"currency"`
		Category    *string  `json:"category"`
		IsAvailable *bool    `json:"is_available"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.Price != nil && *req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "price must be greater than 0"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if req.Category != nil {
			categoryID, err := getOrCreateCategory(tx, item.RestaurantID, *req.Category)
			if err != nil {
				return err
			}
			item.CategoryID = categoryID
		}
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Currency != nil {
			item.Currency = *req.Currency
		}
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": item, "message": "Menu item updated successfully"})
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Menu item not found"})
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item deleted successfully"})
}

func (h *MenuHandler) GetCategoriesByRestaurant(c *gin.Context) {
	var categories []models.MenuCategory
	if err := h.DB.Where("restaurant_id = ?", c.Param("id")).
		Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories, "message": "Categories fetched"})
}
