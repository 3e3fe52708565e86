package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type          string     `gorm:"not null" json:"type"`
	Title         string     `gorm:"not null" json:"title"`
	Message       string     `gorm:"not null" json:"message"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	ReferenceType string     `json:"reference_type,omitempty"`
	IsRead        bool       `gorm:"default:false;index" json:"is_read"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NotificationPreference holds a user's channel and topic toggles. One row per
// user, created lazily with every toggle on except SMS.
type NotificationPreference struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User               User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PushNotifications  bool      `gorm:"default:true" json:"push_notifications"`
	EmailNotifications bool      `gorm:"default:true" json:"email_notifications"`
	SMSNotifications   bool      `gorm:"default:false" json:"sms_notifications"`
	BookingUpdates     bool      `gorm:"default:true" json:"booking_updates"`
	OrderStatus        bool      `gorm:"default:true" json:"order_status"`
	Promotions         bool      `gorm:"default:true" json:"promotions"`
	LoyaltyRewards     bool      `gorm:"default:true" json:"loyalty_rewards"`
	ReviewReminders    bool      `gorm:"default:true" json:"review_reminders"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (p *NotificationPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
