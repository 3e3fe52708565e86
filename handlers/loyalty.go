package handlers

import (
	"net/http"
	"time"

	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoyaltyHandler struct {
	DB *gorm.DB
}

// getOrCreateAccount returns the user's loyalty account, creating an empty
// bronze account on first access.
func getOrCreateAccount(tx *gorm.DB, userID uuid.UUID) (models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := tx.Where("user_id = ?", userID).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		account = models.LoyaltyAccount{UserID: userID, Points: 0, Tier: "bronze"}
		err = tx.Create(&account).Error
	}
	return account, err
}

// addPoints credits a user's balance and appends the matching history row.
// Negative amounts are clamped to zero rather than rejected, so a clamped
// call still produces a consistent balance/history pair. Must run inside a
// transaction.
func addPoints(tx *gorm.DB, userID uuid.UUID, points int, action string, referenceID *uuid.UUID, referenceType string) (models.LoyaltyAccount, error) {
	if points < 0 {
		points = 0
	}
	if action == "" {
		action = "manual_add"
	}

	account, err := getOrCreateAccount(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID)
	if err != nil {
		return account, err
	}

	account.Points += points
	if err := tx.Model(&models.LoyaltyAccount{}).Where("user_id = ?", userID).
		Update("points", account.Points).Error; err != nil {
		return account, err
	}

	history := models.PointsHistory{
		UserID:        userID,
		Points:        points,
		Action:        action,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	}
	return account, tx.Create(&history).Error
}

// deductPoints debits a user's balance, failing with errInsufficientPoints
// when the balance cannot cover the amount. Must run inside a transaction.
func deductPoints(tx *gorm.DB, userID uuid.UUID, points int, action string, referenceID *uuid.UUID, referenceType string) (models.LoyaltyAccount, error) {
	if points < 0 {
		points = 0
	}
	if action == "" {
		action = "manual_deduct"
	}

	account, err := getOrCreateAccount(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID)
	if err != nil {
		return account, err
	}

	if account.Points < points {
		return account, errInsufficientPoints
	}

	account.Points -= points
	if err := tx.Model(&models.LoyaltyAccount{}).Where("user_id = ?", userID).
		Update("points", account.Points).Error; err != nil {
		return account, err
	}

	history := models.PointsHistory{
		UserID:        userID,
		Points:        -points,
		Action:        action,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	}
	return account, tx.Create(&history).Error
}

// GetUserPoints returns the caller's loyalty account, creating it on first
// access.
func (h *LoyaltyHandler) GetUserPoints(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	account, err := getOrCreateAccount(h.DB, userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch loyalty points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": account, "message": "Loyalty points fetched"})
}

func (h *LoyaltyHandler) GetPointsHistory(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var history []models.PointsHistory
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch points history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": history, "message": "Points history fetched"})
}

func (h *LoyaltyHandler) GetRewards(c *gin.Context) {
	var rewards []models.Reward
	if err := h.DB.Where("is_active = ?", true).
		Order("created_at DESC").Find(&rewards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch rewards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rewards, "message": "Rewards fetched"})
}

func (h *LoyaltyHandler) GetReward(c *gin.Context) {
	var reward models.Reward
	if err := h.DB.Where("id = ?", c.Param("id")).First(&reward).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reward not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reward, "message": "Reward fetched"})
}

// GetAvailableRewards lists active rewards the caller can afford, cheapest
// first.
func (h *LoyaltyHandler) GetAvailableRewards(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var account models.LoyaltyAccount
	if err := h.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": []models.Reward{}, "message": "No loyalty account found"})
		return
	}

	var rewards []models.Reward
	if err := h.DB.Where("is_active = ? AND points_required <= ?", true, account.Points).
		Order("points_required ASC").Find(&rewards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rewards, "message": "Available rewards fetched"})
}

// RedeemReward spends points on a catalog reward. Balance decrement,
// redemption insert and history append are all-or-nothing.
func (h *LoyaltyHandler) RedeemReward(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid reward id"})
		return
	}

	var redemption models.RewardRedemption
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.Where("id = ? AND is_active = ?", rewardID, true).First(&reward).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errRewardNotFound
			}
			return err
		}

		account, err := getOrCreateAccount(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID.(uuid.UUID))
		if err != nil {
			return err
		}
		if account.Points < reward.PointsRequired {
			return errInsufficientPoints
		}

		if err := tx.Model(&models.LoyaltyAccount{}).Where("user_id = ?", userID).
			Update("points", account.Points-reward.PointsRequired).Error; err != nil {
			return err
		}

		now := time.Now()
		expiresAt := now.AddDate(0, 0, reward.ValidDays)
		redemption = models.RewardRedemption{
			UserID:      userID.(uuid.UUID),
			RewardID:    reward.ID,
			PointsSpent: reward.PointsRequired,
			Status:      models.RedemptionStatusActive,
			RedeemedAt:  now,
			ExpiresAt:   &expiresAt,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return err
		}

		history := models.PointsHistory{
			UserID:        userID.(uuid.UUID),
			Points:        -reward.PointsRequired,
			Action:        "redeem_reward",
			ReferenceID:   &redemption.ID,
			ReferenceType: "reward_redemption",
		}
		return tx.Create(&history).Error
	})

	switch {
	case err == nil:
	case err == errRewardNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reward not found or inactive"})
		return
	case err == errInsufficientPoints:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Insufficient points to redeem this reward"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to redeem reward"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": redemption, "message": "Reward redeemed successfully"})
}

func (h *LoyaltyHandler) GetUserRedemptions(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var redemptions []models.RewardRedemption
	if err := h.DB.Preload("Reward").Where("user_id = ?", userID).
		Order("redeemed_at DESC").Find(&redemptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch redemptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": redemptions, "message": "User redemptions fetched"})
}

// UseRedemption marks an active redemption as used. A redemption past its
// expiry cannot be used; it is flipped to expired instead.
func (h *LoyaltyHandler) UseRedemption(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("id")

	var redemption models.RewardRedemption
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&redemption).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Redemption not found"})
		return
	}

	if redemption.ExpiresAt != nil && redemption.ExpiresAt.Before(time.Now()) && redemption.Status == models.RedemptionStatusActive {
		// Guarding on the status we read makes the flip a no-op if another
		// request already transitioned the row.
		if err := h.DB.Model(&redemption).
			Where("status = ?", models.RedemptionStatusActive).
			Updates(map[string]interface{}{"status": models.RedemptionStatusExpired, "used_at": nil}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update redemption"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Redemption has expired"})
		return
	}

	if !models.IsValidRedemptionTransition(redemption.Status, models.RedemptionStatusUsed) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Redemption cannot be used from its current status"})
		return
	}

	now := time.Now()
	result := h.DB.Model(&redemption).
		Where("status = ?", redemption.Status).
		Updates(map[string]interface{}{
			"status":  models.RedemptionStatusUsed,
			"used_at": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update redemption"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Redemption cannot be used from its current status"})
		return
	}

	redemption.Status = models.RedemptionStatusUsed
	redemption.UsedAt = &now
	c.JSON(http.StatusOK, gin.H{"success": true, "data": redemption, "message": "Redemption marked as used"})
}

// UpdateRedemptionStatus applies a transition from the redemption state
// machine (admin only). used_at is stamped when moving to used and cleared
// otherwise.
func (h *LoyaltyHandler) UpdateRedemptionStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status models.RedemptionStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if !models.IsValidRedemptionStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid redemption status"})
		return
	}

	var redemption models.RewardRedemption
	if err := h.DB.Where("id = ?", id).First(&redemption).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Redemption not found"})
		return
	}

	if !models.IsValidRedemptionTransition(redemption.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status transition"})
		return
	}

	updates := map[string]interface{}{"status": req.Status, "used_at": nil}
	if req.Status == models.RedemptionStatusUsed {
		updates["used_at"] = time.Now()
	}

	if err := h.DB.Model(&redemption).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update redemption"})
		return
	}

	redemption.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"success": true, "data": redemption, "message": "Redemption status updated"})
}

// AddPointsManual credits points to any user (admin only). The ledger clamps
// negative amounts, but the endpoint rejects them outright so caller bugs
// surface instead of silently writing zero-point history rows.
func (h *LoyaltyHandler) AddPointsManual(c *gin.Context) {
	var req struct {
		UserID        string `json:"user_id" binding:"required"`
		Points        int    `json:"points" binding:"required"`
		Action        string `json:"action" binding:"required"`
		ReferenceID   string `json:"reference_id"`
		ReferenceType string `json:"reference_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields: user_id, points, action"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user_id"})
		return
	}

	if req.Points <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "points must be greater than 0"})
		return
	}

	var referenceID *uuid.UUID
	if req.ReferenceID != "" {
		refID, err := uuid.Parse(req.ReferenceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid reference_id"})
			return
		}
		referenceID = &refID
	}

	var account models.LoyaltyAccount
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		account, txErr = addPoints(tx, userID, req.Points, req.Action, referenceID, req.ReferenceType)
		return txErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": account, "message": "Points added successfully"})
}

// DeductPointsManual debits points from any user (admin only).
func (h *LoyaltyHandler) DeductPointsManual(c *gin.Context) {
	var req struct {
		UserID        string `json:"user_id" binding:"required"`
		Points        int    `json:"points" binding:"required"`
		Action        string `json:"action" binding:"required"`
		ReferenceID   string `json:"reference_id"`
		ReferenceType string `json:"reference_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields: user_id, points, action"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user_id"})
		return
	}

	if req.Points <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "points must be greater than 0"})
		return
	}

	var referenceID *uuid.UUID
	if req.ReferenceID != "" {
		refID, err := uuid.Parse(req.ReferenceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid reference_id"})
			return
		}
		referenceID = &refID
	}

	var account models.LoyaltyAccount
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		account, txErr = deductPoints(tx, userID, req.Points, req.Action, referenceID, req.ReferenceType)
		return txErr
	})

	switch {
	case err == nil:
	case err == errInsufficientPoints:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Insufficient points"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to deduct points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": account, "message": "Points deducted successfully"})
}
