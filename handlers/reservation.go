package handlers

import (
	"context"
	"net/http"
	"time"

	"dinesphere-backend/models"
	"dinesphere-backend/queue"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationHandler struct {
	DB *gorm.DB
}

// CreateReservation books one slot at a restaurant. The existence check,
// capacity check, slot decrement and reservation insert all run in a single
// transaction with the restaurant row locked, so two concurrent requests for
// the last slot cannot both succeed.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req struct {
		RestaurantID     string     `json:"restaurant_id" binding:"required"`
		PartySize        int        `json:"party_size" binding:"required,gt=0"`
		ReservationStart time.Time  `json:"reservation_start" binding:"required"`
		ReservationEnd   *time.Time `json:"reservation_end"`
		SpecialRequests  string     `json:"special_requests"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid restaurant_id"})
		return
	}

	reservation := models.Reservation{
		RestaurantID:     restaurantID,
		UserID:           userID.(uuid.UUID),
		PartySize:        req.PartySize,
		Status:           models.ReservationStatusPending,
		ReservationStart: req.ReservationStart,
		ReservationEnd:   req.ReservationEnd,
		SpecialRequests:  req.SpecialRequests,
	}

	var restaurant models.Restaurant
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", restaurantID).
			First(&restaurant).Error; err != nil {
			return err
		}

		if restaurant.AvailableSlots <= 0 {
			return errCapacityExhausted
		}

		// One slot per booking event, independent of party size.
		if err := tx.Model(&models.Restaurant{}).Where("id = ?", restaurantID).
			Update("available_slots", gorm.Expr("available_slots - 1")).Error; err != nil {
			return err
		}

		return tx.Create(&reservation).Error
	})

	switch {
	case err == nil:
	case err == errCapacityExhausted:
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "No available slots for this restaurant"})
		return
	case err == gorm.ErrRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Restaurant not found"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create reservation"})
		return
	}

	h.publishEvent(reservation, restaurant.Name)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": reservation, "message": "Reservation created"})
}

func (h *ReservationHandler) GetReservations(c *gin.Context) {
	var reservations []models.Reservation
	if err := h.DB.Preload("Restaurant").Preload("User").
		Order("reservation_start DESC").Find(&reservations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reservations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservations, "message": "Reservations fetched"})
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	query := h.DB.Preload("Restaurant")
	if roleStr, _ := userRole.(string); roleStr == "admin" {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("id = ? AND user_id = ?", id, userID)
	}

	var reservation models.Reservation
	if err := query.First(&reservation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reservation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservation, "message": "Reservation fetched"})
}

// UpdateReservation changes booking details. Status is deliberately not
// accepted here; transitions go through the cancel and status endpoints,
// which keep the slot counter in step.
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("user_id")

	var req struct {
		PartySize        *int       `json:"party_size"`
		ReservationStart *time.Time `json:"reservation_start"`
		ReservationEnd   *time.Time `json:"reservation_end"`
		SpecialRequests  *string    `json:"special_requests"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	var reservation models.Reservation
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&reservation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reservation not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.PartySize != nil {
		if *req.PartySize <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "party_size must be greater than 0"})
			return
		}
		updates["party_size"] = *req.PartySize
	}
	if req.ReservationStart != nil {
		updates["reservation_start"] = *req.ReservationStart
	}
	if req.ReservationEnd != nil {
		updates["reservation_end"] = *req.ReservationEnd
	}
	if req.SpecialRequests != nil {
		updates["special_requests"] = *req.SpecialRequests
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&reservation).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update reservation"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservation, "message": "Reservation updated"})
}

// CancelReservation marks the reservation cancelled and releases its slot.
// The transition check makes repeated cancels a no-op error instead of a
// double credit.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	var reservation models.Reservation
	var restaurant models.Restaurant

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"})
		if roleStr, _ := userRole.(string); roleStr == "admin" {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("id = ? AND user_id = ?", id, userID)
		}
		if err := query.First(&reservation).Error; err != nil {
			return err
		}

		if !models.IsValidReservationTransition(reservation.Status, models.ReservationStatusCancelled) {
			return errInvalidTransition
		}

		if err := tx.Model(&reservation).Update("status", models.ReservationStatusCancelled).Error; err != nil {
			return err
		}

		tx.Where("id = ?", reservation.RestaurantID).First(&restaurant)

		return tx.Model(&models.Restaurant{}).Where("id = ?", reservation.RestaurantID).
			Update("available_slots", gorm.Expr("available_slots + 1")).Error
	})

	switch {
	case err == nil:
	case err == gorm.ErrRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reservation not found"})
		return
	case err == errInvalidTransition:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Reservation cannot be cancelled from its current status"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to cancel reservation"})
		return
	}

	reservation.Status = models.ReservationStatusCancelled
	h.publishEvent(reservation, restaurant.Name)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservation, "message": "Reservation cancelled"})
}

// UpdateReservationStatus applies a transition from the reservation state
// machine. Moving into cancelled releases the slot inside the same
// transaction.
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status models.ReservationStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	var reservation models.Reservation
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&reservation).Error; err != nil {
			return err
		}

		if !models.IsValidReservationTransition(reservation.Status, req.Status) {
			return errInvalidTransition
		}

		if err := tx.Model(&reservation).Update("status", req.Status).Error; err != nil {
			return err
		}

		if req.Status == models.ReservationStatusCancelled {
			return tx.Model(&models.Restaurant{}).Where("id = ?", reservation.RestaurantID).
				Update("available_slots", gorm.Expr("available_slots + 1")).Error
		}
		return nil
	})

	switch {
	case err == nil:
	case err == gorm.ErrRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reservation not found"})
		return
	case err == errInvalidTransition:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status transition"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update reservation status"})
		return
	}

	reservation.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservation, "message": "Reservation status updated"})
}

// DeleteReservation removes the row, releasing the slot only when the
// reservation still held one (a cancelled reservation already gave its slot
// back).
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"})
		if roleStr, _ := userRole.(string); roleStr == "admin" {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("id = ? AND user_id = ?", id, userID)
		}
		if err := query.First(&reservation).Error; err != nil {
			return err
		}

		if reservation.HoldsSlot() {
			if err := tx.Model(&models.Restaurant{}).Where("id = ?", reservation.RestaurantID).
				Update("available_slots", gorm.Expr("available_slots + 1")).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&reservation).Error
	})

	switch {
	case err == nil:
	case err == gorm.ErrRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reservation not found"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete reservation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reservation deleted"})
}

func (h *ReservationHandler) GetReservationsByUser(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var reservations []models.Reservation
	if err := h.DB.Preload("Restaurant").Where("user_id = ?", userID).
		Order("reservation_start DESC").Find(&reservations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reservations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservations, "message": "Reservations for user fetched"})
}

func (h *ReservationHandler) GetReservationsByRestaurant(c *gin.Context) {
	restaurantID := c.Param("restaurantId")

	var reservations []models.Reservation
	if err := h.DB.Preload("User").Where("restaurant_id = ?", restaurantID).
		Order("reservation_start DESC").Find(&reservations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reservations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservations, "message": "Reservations for restaurant fetched"})
}

// publishEvent hands the lifecycle event to the broker when one is
// configured. Failures are logged by the publisher and ignored here.
func (h *ReservationHandler) publishEvent(r models.Reservation, restaurantName string) {
	if !queue.Enabled() {
		return
	}
	event := queue.ReservationEvent{
		ReservationID:  r.ID,
		UserID:         r.UserID,
		RestaurantID:   r.RestaurantID,
		RestaurantName: restaurantName,
		Status:         string(r.Status),
		PartySize:      r.PartySize,
		StartsAt:       r.ReservationStart.Format(time.RFC3339),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishReservationEvent(ctx, event)
	}()
}
