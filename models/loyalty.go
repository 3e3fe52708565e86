package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyAccount is the per-user points balance. Every balance change is
// mirrored by exactly one PointsHistory row, so the sum of a user's history
// deltas always equals their current balance.
type LoyaltyAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	Tier      string    `gorm:"not null;default:bronze" json:"tier"` // bronze, silver, gold, platinum
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *LoyaltyAccount) TableName() string { return "loyalty_points" }

func (a *LoyaltyAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// PointsHistory is an append-only audit log of signed point deltas. Rows are
// never updated or deleted.
type PointsHistory struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Points        int        `gorm:"not null" json:"points"`
	Action        string     `gorm:"not null" json:"action"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	ReferenceType string     `json:"reference_type,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

func (h *PointsHistory) TableName() string { return "points_history" }

func (h *PointsHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

type Reward struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `json:"description"`
	PointsRequired int            `gorm:"not null" json:"points_required"`
	Category       string         `gorm:"not null" json:"category"`
	ValidDays      int            `gorm:"default:30" json:"valid_days"`
	RestaurantType string         `gorm:"default:all" json:"restaurant_type"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type RedemptionStatus string

const (
	RedemptionStatusActive    RedemptionStatus = "active"
	RedemptionStatusUsed      RedemptionStatus = "used"
	RedemptionStatusExpired   RedemptionStatus = "expired"
	RedemptionStatusCancelled RedemptionStatus = "cancelled"
)

type RewardRedemption struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RewardID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"reward_id"`
	Reward      Reward           `gorm:"foreignKey:RewardID;constraint:OnDelete:CASCADE" json:"reward,omitempty"`
	PointsSpent int              `gorm:"not null" json:"points_spent"`
	Status      RedemptionStatus `gorm:"not null;default:active;index" json:"status"`
	RedeemedAt  time.Time        `json:"redeemed_at"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	UsedAt      *time.Time       `json:"used_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (r *RewardRedemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RedeemedAt.IsZero() {
		r.RedeemedAt = time.Now()
	}
	return nil
}

// RedemptionTransitions defines the valid redemption status state machine.
// Active is the only non-terminal state; used, expired and cancelled are final.
var RedemptionTransitions = map[RedemptionStatus][]RedemptionStatus{
	RedemptionStatusActive:    {RedemptionStatusUsed, RedemptionStatusExpired, RedemptionStatusCancelled},
	RedemptionStatusUsed:      {},
	RedemptionStatusExpired:   {},
	RedemptionStatusCancelled: {},
}

// IsValidRedemptionStatus reports whether s names a known redemption state.
func IsValidRedemptionStatus(s RedemptionStatus) bool {
	_, ok := RedemptionTransitions[s]
	return ok
}

// IsValidRedemptionTransition checks if a status transition is allowed.
func IsValidRedemptionTransition(from, to RedemptionStatus) bool {
	allowed, exists := RedemptionTransitions[from]
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
