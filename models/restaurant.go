package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Website     string     `json:"website"`
	Cuisine     string     `json:"cuisine"`
	Rating      float64    `gorm:"default:0" json:"rating"`
	ReviewCount int        `gorm:"default:0" json:"review_count"`
	// PriceRange is the legacy display string (e.g. "₹500-₹2000"); filtering
	// and sorting use the numeric MinPrice/MaxPrice columns.
	PriceRange     string         `json:"price_range"`
	MinPrice       float64        `gorm:"default:0" json:"min_price"`
	MaxPrice       float64        `gorm:"default:0" json:"max_price"`
	Location       string         `json:"location"`
	Image          string         `json:"image"`
	OpenTime       string         `json:"open_time"`
	AvailableSlots int            `gorm:"default:0" json:"available_slots"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
