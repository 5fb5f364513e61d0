package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserRestriction is an account limitation created by the restriction policy
// engine or a moderator. A nil EndDate means the restriction is indefinite.
// Rows are deactivated (IsActive=false) when the end date passes or a
// moderator lifts them; they are never deleted.
type UserRestriction struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string         `gorm:"not null;size:50" json:"type"`
	Reason    string         `gorm:"not null;size:500" json:"reason"`
	StartDate time.Time      `gorm:"not null" json:"start_date"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	IsActive  bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedBy string         `gorm:"not null;default:'system';size:20" json:"created_by"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	LiftedBy  *uuid.UUID     `gorm:"type:uuid" json:"lifted_by,omitempty"`
	LiftedAt  *time.Time     `json:"lifted_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
}
