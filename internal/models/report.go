package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report is a user-submitted complaint against a toilet, review, comment or
// another user. At most one report per (reporter, target) may be pending or
// under review at a time.
type Report struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TargetType  string         `gorm:"not null;size:20;index:idx_reports_target" json:"target_type"`
	TargetID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_reports_target" json:"target_id"`
	Reason      string         `gorm:"not null;size:50" json:"reason"`
	Description string         `gorm:"size:1000" json:"description,omitempty"`
	Evidence    datatypes.JSON `gorm:"type:jsonb" json:"evidence,omitempty"`
	Status      string         `gorm:"not null;default:'pending';size:20;index" json:"status"`
	Resolution  string         `gorm:"size:1000" json:"resolution,omitempty"`
	ReviewerID  *uuid.UUID     `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Reporter    User           `gorm:"foreignKey:ReporterID" json:"-"`
}
