package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReportRequest struct {
	TargetType  string   `json:"target_type" validate:"required,oneof=toilet review comment user"`
	TargetID    string   `json:"target_id" validate:"required,uuid"`
	Reason      string   `json:"reason" validate:"required,oneof=spam inappropriate_content harassment hate_speech fake_information commercial_spam privacy_violation wrong_location other"`
	Description string   `json:"description" validate:"max=1000"`
	Evidence    []string `json:"evidence" validate:"max=10,dive,uri"`
}

type ReviewReportRequest struct {
	Status     string `json:"status" validate:"required,oneof=under_review resolved dismissed"`
	Resolution string `json:"resolution" validate:"max=1000"`
}

type CreateViolationRequest struct {
	UserID      string   `json:"user_id" validate:"required,uuid"`
	Type        string   `json:"type" validate:"required,oneof=spam_posting inappropriate_content harassment fake_information multiple_accounts vote_manipulation commercial_spam"`
	Severity    string   `json:"severity" validate:"required,oneof=low medium high critical"`
	Description string   `json:"description" validate:"max=1000"`
	Evidence    []string `json:"evidence" validate:"max=10,dive,uri"`
	ReportID    string   `json:"report_id" validate:"omitempty,uuid"`
}

type RestrictionCheckResponse struct {
	Restricted bool       `json:"restricted"`
	Type       string     `json:"type,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

type BlockUserRequest struct {
	BlockedID uuid.UUID `json:"blocked_id" validate:"required"`
}
