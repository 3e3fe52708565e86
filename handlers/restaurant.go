package handlers

import (
	"net/http"
	"strconv"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RestaurantHandler struct {
	DB *gorm.DB
}

// GetRestaurants lists restaurants with optional cuisine/location substring
// filters, numeric price-range filters and sorting.
func (h *RestaurantHandler) GetRestaurants(c *gin.Context) {
	query := h.DB.Model(&models.Restaurant{})

	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("LOWER(cuisine) LIKE LOWER(?)", "%"+cuisine+"%")
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+location+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("max_price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("min_price <= ?", v)
		}
	}
	if minRating := c.Query("min_rating"); minRating != "" {
		if v, err := strconv.ParseFloat(minRating, 64); err == nil {
			query = query.Where("rating >= ?", v)
		}
	}

	switch c.Query("sort_by") {
	case "rating":
		query = query.Order("rating DESC")
	case "price_low":
		query = query.Order("min_price ASC")
	case "price_high":
		query = query.Order("max_price DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var restaurants []models.Restaurant
	if err := query.Find(&restaurants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurants, "message": "Restaurants fetched"})
}

func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", c.Param("id")).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurant, "message": "Restaurant fetched"})
}

func (h *RestaurantHandler) GetRestaurantsByOwner(c *gin.Context) {
	ownerID := c.Param("ownerId")

	var restaurants []models.Restaurant
	if err := h.DB.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&restaurants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurants, "message": "Restaurants fetched"})
}

func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req struct {
		Name           string     `json:"name" binding:"required"`
		Description    string     `json:"description"`
		Website        string     `json:"website"`
		Cuisine        string     `json:"cuisine"`
		PriceRange     string     `json:"price_range"`
		MinPrice       float64    `json:"min_price"`
		MaxPrice       float64    `json:"max_price"`
		Location       string     `json:"location"`
		Image          string     `json:"image"`
		OpenTime       string     `json:"open_time"`
		AvailableSlots int        `json:"available_slots"`
		OwnerID        *uuid.UUID `json:"owner_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.AvailableSlots < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "available_slots cannot be negative"})
		return
	}
	if req.MinPrice < 0 || req.MaxPrice < 0 || (req.MaxPrice > 0 && req.MinPrice > req.MaxPrice) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid price range"})
		return
	}

	restaurant := models.Restaurant{
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		Description:    req.Description,
		Website:        req.Website,
		Cuisine:        req.Cuisine,
		PriceRange:     req.PriceRange,
		MinPrice:       req.MinPrice,
		MaxPrice:       req.MaxPrice,
		Location:       req.Location,
		Image:          req.Image,
		OpenTime:       req.OpenTime,
		AvailableSlots: req.AvailableSlots,
	}

	if err := h.DB.Create(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create restaurant"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": restaurant, "message": "Restaurant created successfully"})
}

func (h *RestaurantHandler) UpdateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", c.Param("id")).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}

	var req struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		Website        *string  `json:"website"`
		Cuisine        *string  `json:"cuisine"`
		PriceRange     *string  `json:"price_range"`
		MinPrice       *float64 `json:"min_price"`
		MaxPrice       *float64 `json:"max_price"`
		Location       *string  `json:"location"`
		Image          *string  `json:"image"`
		OpenTime       *string  `json:"open_time"`
		AvailableSlots *int     `json:"available_slots"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.AvailableSlots != nil && *req.AvailableSlots < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "available_slots cannot be negative"})
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.Website != nil {
		restaurant.Website = *req.Website
	}
	if req.Cuisine != nil {
		restaurant.Cuisine = *req.Cuisine
	}
	if req.PriceRange != nil {
		restaurant.PriceRange = *req.PriceRange
	}
	if req.MinPrice != nil {
		restaurant.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		restaurant.MaxPrice = *req.MaxPrice
	}
	if req.Location != nil {
		restaurant.Location = *req.Location
	}
	if req.Image != nil {
		restaurant.Image = *req.Image
	}
	if req.OpenTime != nil {
		restaurant.OpenTime = *req.OpenTime
	}
	if req.AvailableSlots != nil {
		restaurant.AvailableSlots = *req.AvailableSlots
	}

	if restaurant.MinPrice < 0 || restaurant.MaxPrice < 0 || (restaurant.MaxPrice > 0 && restaurant.MinPrice > restaurant.MaxPrice) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid price range"})
		return
	}

	if err := h.DB.Save(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update restaurant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurant, "message": "Restaurant updated successfully"})
}

func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", c.Param("id")).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}

	if err := h.DB.Delete(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete restaurant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Restaurant deleted successfully"})
}

// recomputeRestaurantRating refreshes the denormalised rating and
// review_count columns from the reviews table. Called after every review
// write.
func recomputeRestaurantRating(tx *gorm.DB, restaurantID uuid.UUID) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("restaurant_id = ?", restaurantID).
		Scan(&stats).Error; err != nil {
		return err
	}

	return tx.Model(&models.Restaurant{}).Where("id = ?", restaurantID).
		Updates(map[string]interface{}{
			"rating":       stats.Avg,
			"review_count": stats.Count,
		}).Error
}

// RefreshRestaurantRating recomputes a restaurant's rating on demand and
// returns the distribution per star.
func (h *RestaurantHandler) RefreshRestaurantRating(c *gin.Context) {
	restaurantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid restaurant id"})
		return
	}

	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}

	if err := recomputeRestaurantRating(h.DB, restaurantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to refresh rating"})
		return
	}

	type ratingBucket struct {
		Rating int   `json:"rating"`
		Count  int64 `json:"count"`
	}
	var breakdown []ratingBucket
	h.DB.Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("restaurant_id = ?", restaurantID).
		Group("rating").Order("rating DESC").
		Scan(&breakdown)

	h.DB.Where("id = ?", restaurantID).First(&restaurant)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"restaurant": restaurant,
			"breakdown":  breakdown,
		},
		"message": "Restaurant rating refreshed",
	})
}
