package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ViolationRecord is one entry in a user's violation ledger. Points are
// denormalized from severity at creation time and never recomputed; rows are
// never updated or deleted. Entries past ExpiresAt contribute zero to the
// point total but stay queryable for audit.
type ViolationRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type         string         `gorm:"not null;size:50" json:"type"`
	Severity     string         `gorm:"not null;size:20" json:"severity"`
	Points       int            `gorm:"not null" json:"points"`
	Description  string         `gorm:"size:1000" json:"description,omitempty"`
	Evidence     datatypes.JSON `gorm:"type:jsonb" json:"evidence,omitempty"`
	ReportID     *uuid.UUID     `gorm:"type:uuid" json:"report_id,omitempty"`
	AutoDetected bool           `gorm:"not null;default:false" json:"auto_detected"`
	CreatedAt    time.Time      `json:"created_at"`
	ExpiresAt    time.Time      `gorm:"not null;index" json:"expires_at"`
	User         User           `gorm:"foreignKey:UserID" json:"-"`
}
