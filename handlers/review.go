package handlers

import (
	"net/http"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	DB *gorm.DB
}

// CreateReview writes a review and refreshes the restaurant's denormalised
// rating in the same transaction.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req struct {
		RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
		Rating       int       `json:"rating" binding:"required,min=1,max=5"`
		Comment      string    `json:"comment"`
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

	review := models.Review{
		RestaurantID: req.RestaurantID,
		UserID:       userID.(uuid.UUID),
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recomputeRestaurantRating(tx, req.RestaurantID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": review, "message": "Review created successfully"})
}

func (h *ReviewHandler) GetReviewsByRestaurant(c *gin.Context) {
	query := h.DB.Preload("User").Where("restaurant_id = ?", c.Param("id"))

	if rating := c.Query("rating"); rating != "" {
		query = query.Where("rating = ?", rating)
	}

	switch c.Query("sort_by") {
	case "rating_high":
		query = query.Order("rating DESC")
	case "rating_low":
		query = query.Order("rating ASC")
	case "oldest":
		query = query.Order("created_at ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews, "message": "Reviews fetched"})
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	var review models.Review
	if err := h.DB.Preload("User").Where("id = ?", c.Param("id")).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": review, "message": "Review fetched"})
}

func (h *ReviewHandler) GetReviewsByUser(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var reviews []models.Review
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews, "message": "User reviews fetched"})
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, _ := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	var review models.Review
	if err := h.DB.Where("id = ?", c.Param("id")).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
		return
	}

	if userRole != "admin" && review.UserID != userID.(uuid.UUID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
		return
	}

	var req struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "rating must be between 1 and 5"})
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return recomputeRestaurantRating(tx, review.RestaurantID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": review, "message": "Review updated successfully"})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, _ := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	var review models.Review
	if err := h.DB.Where("id = ?", c.Param("id")).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
		return
	}

	if userRole != "admin" && review.UserID != userID.(uuid.UUID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recomputeRestaurantRating(tx, review.RestaurantID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted successfully"})
}

// GetReviewStats returns the average rating, review count and per-star
// distribution for a restaurant.
func (h *ReviewHandler) GetReviewStats(c *gin.Context) {
	restaurantID := c.Param("id")

	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	}

	var stats struct {
		Avg   float64
		Count int64
	}
	h.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("restaurant_id = ?", restaurantID).
		Scan(&stats)

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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"average_rating": stats.Avg,
			"review_count":   stats.Count,
			"breakdown":      breakdown,
		},
		"message": "Review stats fetched",
	})
}
