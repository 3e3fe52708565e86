package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuCategory struct {
	ID           uint       `gorm:"primary_key" json:"id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Position     int        `gorm:"default:0" json:"position"`
}

type MenuItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RestaurantID uuid.UUID      `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant   Restaurant     `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	CategoryID   *uint          `gorm:"index" json:"category_id,omitempty"`
	Category     *MenuCategory  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `json:"description"`
	Price        float64        `gorm:"not null" json:"price"`
	Currency     string         `gorm:"default:INR" json:"currency"`
	IsAvailable  bool           `gorm:"default:true" json:"is_available"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
