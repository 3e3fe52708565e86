package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is scoped to one user + restaurant pair; a user keeps an independent
// cart per restaurant.
type Cart struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"restaurant,omitempty"`
	Items        []CartItem `gorm:"foreignKey:CartID" json:"cart_items"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CartID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_menu_item" json:"cart_id"`
	Cart            Cart      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"-"`
	MenuItemID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_menu_item" json:"menu_item_id"`
	MenuItem        MenuItem  `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"menu_item,omitempty"`
	Quantity        int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice       float64   `gorm:"not null" json:"unit_price"`
	SpecialRequests string    `json:"special_requests"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}
