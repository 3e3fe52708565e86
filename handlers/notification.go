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

type NotificationHandler struct {
	DB *gorm.DB
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, _ := c.Get("user_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := h.DB.Where("user_id = ?", userID)
	if c.Query("unread_only") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": notifications, "message": "Notifications fetched"})
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var count int64
	h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"unread_count": count},
		"message": "Unread count fetched",
	})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var notification models.Notification
	if err := h.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return
	}

	if err := h.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notification"})
		return
	}

	notification.IsRead = true
	c.JSON(http.StatusOK, gin.H{"success": true, "data": notification, "message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read"})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var notification models.Notification
	if err := h.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return
	}

	if err := h.DB.Delete(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}

// GetPreferences returns the caller's notification preferences, creating the
// row with defaults on first access.
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var prefs models.NotificationPreference
	err := h.DB.Where("user_id = ?", userID).First(&prefs).Error
	if err == gorm.ErrRecordNotFound {
		prefs = models.NotificationPreference{
			UserID:             userID.(uuid.UUID),
			PushNotifications:  true,
			EmailNotifications: true,
			BookingUpdates:     true,
			OrderStatus:        true,
			Promotions:         true,
			LoyaltyRewards:     true,
			ReviewReminders:    true,
		}
		err = h.DB.Create(&prefs).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": prefs, "message": "Preferences fetched"})
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req struct {
		PushNotifications  *bool `json:"push_notifications"`
		EmailNotifications *bool `json:"email_notifications"`
		SMSNotifications   *bool `json:"sms_notifications"`
		BookingUpdates     *bool `json:"booking_updates"`
		OrderStatus        *bool `json:"order_status"`
		Promotions         *bool `json:"promotions"`
		LoyaltyRewards     *bool `json:"loyalty_rewards"`
		ReviewReminders    *bool `json:"review_reminders"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	var prefs models.NotificationPreference
	err := h.DB.Where("user_id = ?", userID).First(&prefs).Error
	if err == gorm.ErrRecordNotFound {
		prefs = models.NotificationPreference{UserID: userID.(uuid.UUID)}
		err = h.DB.Create(&prefs).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch preferences"})
		return
	}

	updates := map[string]interface{}{}
	if req.PushNotifications != nil {
		updates["push_notifications"] = *req.PushNotifications
	}
	if req.EmailNotifications != nil {
		updates["email_notifications"] = *req.EmailNotifications
	}
	if req.SMSNotifications != nil {
		updates["sms_notifications"] = *req.SMSNotifications
	}
	if req.BookingUpdates != nil {
		updates["booking_updates"] = *req.BookingUpdates
	}
	if req.OrderStatus != nil {
		updates["order_status"] = *req.OrderStatus
	}
	if req.Promotions != nil {
		updates["promotions"] = *req.Promotions
	}
	if req.LoyaltyRewards != nil {
		updates["loyalty_rewards"] = *req.LoyaltyRewards
	}
	if req.ReviewReminders != nil {
		updates["review_reminders"] = *req.ReviewReminders
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&prefs).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update preferences"})
			return
		}
	}

	h.DB.Where("user_id = ?", userID).First(&prefs)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prefs, "message": "Preferences updated"})
}

// CreateNotification lets admins push a notification to any user.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req struct {
		UserID        uuid.UUID  `json:"user_id" binding:"required"`
		Type          string     `json:"type" binding:"required"`
		Title         string     `json:"title" binding:"required"`
		Message       string     `json:"message" binding:"required"`
		ReferenceID   *uuid.UUID `json:"reference_id"`
		ReferenceType string     `json:"reference_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", req.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	notification := models.Notification{
		UserID:        req.UserID,
		Type:          req.Type,
		Title:         req.Title,
		Message:       req.Message,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
	}

	if err := h.DB.Create(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": notification, "message": "Notification created"})
}
