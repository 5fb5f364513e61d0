package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Toilet is a user-posted public toilet location. CreatedBy is the owner
// the moderation core resolves report targets against.
type Toilet struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	Name        string         `gorm:"not null;size:200" json:"name"`
	Address     string         `gorm:"size:500" json:"address,omitempty"`
	Latitude    float64        `gorm:"not null" json:"latitude"`
	Longitude   float64        `gorm:"not null" json:"longitude"`
	Description string         `gorm:"size:1000" json:"description,omitempty"`
	IsFree      bool           `gorm:"default:true" json:"is_free"`
	Accessible  bool           `gorm:"default:false" json:"accessible"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Creator     User           `gorm:"foreignKey:CreatedBy" json:"-"`
}
