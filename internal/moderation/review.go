package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/loocate/loocate-backend/internal/models"
)

// ListReports returns reports for the admin review queue, newest first,
// optionally filtered by status.
func (s *Service) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	return s.store.ListReports(ctx, status, limit, offset)
}

// ReviewReport moves a report through its lifecycle on behalf of a
// moderator. Reports are immutable once resolved, dismissed or
// auto-resolved, except for the audit fields written here.
func (s *Service) ReviewReport(ctx context.Context, reportID, reviewerID uuid.UUID, status ReportStatus, resolution string) (*models.Report, error) {
	switch status {
	case StatusUnderReview, StatusResolved, StatusDismissed:
	default:
		return nil, errors.New("invalid status: must be under_review, resolved, or dismissed")
	}

	var report *models.Report
	err := s.store.Transaction(ctx, func(tx Store) error {
		var err error
		report, err = tx.GetReport(ctx, reportID)
		if err != nil {
			return err
		}

		switch ReportStatus(report.Status) {
		case StatusPending:
		case StatusUnderReview:
			if status == StatusUnderReview {
				return ErrInvalidTransition
			}
		default:
			return ErrInvalidTransition
		}

		now := s.clock.Now()
		report.Status = string(status)
		report.Resolution = resolution
		report.ReviewerID = &reviewerID
		report.ReviewedAt = &now
		report.UpdatedAt = now
		return tx.SaveReport(ctx, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

type RecordViolationInput struct {
	UserID      uuid.UUID
	Type        string
	Severity    string
	Description string
	Evidence    []string
	ReportID    *uuid.UUID
}

// RecordViolation appends a manual violation to the user's ledger and
// reconciles their restrictions. Points are frozen from the severity table
// at creation time. A reconciliation failure is logged, not returned: the
// ledger entry stands on its own.
func (s *Service) RecordViolation(ctx context.Context, in RecordViolationInput) (*models.ViolationRecord, error) {
	if !ValidViolationType(in.Type) {
		return nil, errors.New("invalid violation type")
	}
	points, ok := SeverityPoints[Severity(in.Severity)]
	if !ok {
		return nil, errors.New("invalid severity: must be low, medium, high, or critical")
	}

	now := s.clock.Now()
	violation := &models.ViolationRecord{
		ID:           uuid.New(),
		UserID:       in.UserID,
		Type:         in.Type,
		Severity:     in.Severity,
		Points:       points,
		Description:  in.Description,
		ReportID:     in.ReportID,
		AutoDetected: false,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ViolationTTL),
	}
	if len(in.Evidence) > 0 {
		b, err := json.Marshal(in.Evidence)
		if err != nil {
			return nil, fmt.Errorf("failed to encode evidence: %w", err)
		}
		violation.Evidence = datatypes.JSON(b)
	}

	if err := s.store.CreateViolation(ctx, violation); err != nil {
		return nil, fmt.Errorf("failed to create violation: %w", err)
	}

	if err := s.Reconcile(ctx, in.UserID); err != nil {
		slog.Error("restriction reconciliation failed",
			"user_id", in.UserID.String(), "error", err)
	}
	return violation, nil
}

// ViolationHistory returns the user's full ledger, expired rows included.
func (s *Service) ViolationHistory(ctx context.Context, userID uuid.UUID) ([]models.ViolationRecord, error) {
	return s.store.ViolationsByUser(ctx, userID)
}
