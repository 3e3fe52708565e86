package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

type Reservation struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RestaurantID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant       Restaurant        `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"restaurant,omitempty"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User             User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PartySize        int               `gorm:"not null" json:"party_size"`
	Status           ReservationStatus `gorm:"default:pending" json:"status"`
	ReservationStart time.Time         `gorm:"not null" json:"reservation_start"`
	ReservationEnd   *time.Time        `json:"reservation_end,omitempty"`
	SpecialRequests  string            `json:"special_requests"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReservationTransitions defines the valid reservation status state machine.
// A reservation releases its restaurant slot exactly once, when it leaves a
// non-terminal state via cancellation or deletion.
var ReservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCancelled, ReservationStatusCompleted},
	ReservationStatusCancelled: {},
	ReservationStatusCompleted: {},
}

// IsValidReservationTransition checks if a status transition is allowed.
func IsValidReservationTransition(from, to ReservationStatus) bool {
	allowed, exists := ReservationTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// HoldsSlot reports whether the reservation still occupies a restaurant slot.
func (r *Reservation) HoldsSlot() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}
