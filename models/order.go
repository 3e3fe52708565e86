package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RestaurantID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant          Restaurant     `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User                User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TotalAmount         float64        `gorm:"not null;default:0" json:"total_amount"`
	Status              OrderStatus    `gorm:"default:created" json:"status"`
	OrderType           string         `gorm:"default:dine_in" json:"order_type"`
	SpecialInstructions string         `json:"special_instructions"`
	DeliveryAddress     string         `json:"delivery_address"`
	PointsEarned        int            `gorm:"default:0" json:"points_earned"`
	Items               []OrderItem    `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

type OrderItem struct {
	ID         uint      `gorm:"primary_key" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"menu_item_id"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity   int       `gorm:"default:1" json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
