package handlers

import (
	"net/http"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteHandler struct {
	DB *gorm.DB
}

func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var favorites []models.Favorite
	if err := h.DB.Preload("Restaurant").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": favorites, "message": "Favorites fetched"})
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req struct {
		RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
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

	var existing models.Favorite
	if err := h.DB.Where("user_id = ? AND restaurant_id = ?", userID, req.RestaurantID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Restaurant already in favorites"})
		return
	}

	favorite := models.Favorite{
		UserID:       userID.(uuid.UUID),
		RestaurantID: req.RestaurantID,
	}

	if err := h.DB.Create(&favorite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": favorite, "message": "Restaurant added to favorites"})
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, _ := c.Get("user_id")
	restaurantID := c.Param("restaurantId")

	var favorite models.Favorite
	if err := h.DB.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&favorite).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Favorite not found"})
		return
	}

	if err := h.DB.Delete(&favorite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Restaurant removed from favorites"})
}

// CheckFavorite reports whether a restaurant is in the caller's favorites.
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	userID, _ := c.Get("user_id")
	restaurantID := c.Param("restaurantId")

	var count int64
	h.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"is_favorite": count > 0},
		"message": "Favorite status fetched",
	})
}
