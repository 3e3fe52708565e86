package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID           *uuid.UUID     `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Order             *Order         `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL" json:"order,omitempty"`
	Amount            float64        `gorm:"not null" json:"amount"`
	Currency          string         `gorm:"default:INR" json:"currency"`
	Provider          string         `json:"provider"`
	ProviderPaymentID string         `json:"provider_payment_id"`
	Status            string         `gorm:"default:pending" json:"status"`
	Notes             string         `json:"notes"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
