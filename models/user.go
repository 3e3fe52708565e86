package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`
	Password           string         `gorm:"not null" json:"-"`
	FullName           string         `json:"full_name"`
	Phone              string         `json:"phone"`
	Role               string         `gorm:"default:customer" json:"role"` // customer, owner, admin
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	DietaryPreferences string         `json:"dietary_preferences"`
	Address            string         `json:"address"`
	Bio                string         `json:"bio"`
	AvatarURL          string         `json:"avatar_url"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
