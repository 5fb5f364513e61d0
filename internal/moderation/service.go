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

// Service is the moderation core. All persistence goes through the Store
// port; the clock is injectable so point expiry is testable.
type Service struct {
	store Store
	clock Clock
}

func NewService(store Store) *Service {
	return &Service{store: store, clock: systemClock{}}
}

// NewServiceWithClock is used by tests that need a fixed time.
func NewServiceWithClock(store Store, clock Clock) *Service {
	return &Service{store: store, clock: clock}
}

type SubmitReportInput struct {
	ReporterID  uuid.UUID
	TargetType  string
	TargetID    uuid.UUID
	Reason      string
	Description string
	Evidence    []string
}

// SubmitReport persists a new pending report unless the reporter already has
// an open one against the same target. Auto-detection runs afterwards as a
// best-effort side effect: once the report is stored, nothing downstream may
// fail the submission.
func (s *Service) SubmitReport(ctx context.Context, in SubmitReportInput) (*models.Report, error) {
	if !ValidTargetType(in.TargetType) {
		return nil, errors.New("invalid target_type: must be toilet, review, comment, or user")
	}
	if !ValidReason(in.Reason) {
		return nil, errors.New("invalid reason")
	}

	now := s.clock.Now()
	report := &models.Report{
		ID:          uuid.New(),
		ReporterID:  in.ReporterID,
		TargetType:  in.TargetType,
		TargetID:    in.TargetID,
		Reason:      in.Reason,
		Description: in.Description,
		Status:      string(StatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(in.Evidence) > 0 {
		b, err := json.Marshal(in.Evidence)
		if err != nil {
			return nil, fmt.Errorf("failed to encode evidence: %w", err)
		}
		report.Evidence = datatypes.JSON(b)
	}

	target := Target{Type: TargetType(in.TargetType), ID: in.TargetID}
	err := s.store.Transaction(ctx, func(tx Store) error {
		open, err := tx.HasOpenReport(ctx, in.ReporterID, target)
		if err != nil {
			return fmt.Errorf("failed to check existing reports: %w", err)
		}
		if open {
			return ErrDuplicateReport
		}
		if err := tx.CreateReport(ctx, report); err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.autoDetect(ctx, target, ReportReason(in.Reason), report.ID); err != nil {
		slog.Error("auto-detection failed",
			"target_type", in.TargetType,
			"target_id", in.TargetID.String(),
			"error", err)
	}

	return report, nil
}

// autoDetect counts non-dismissed reports against the target and, at the
// threshold, synthesizes a violation for the target's owner, reconciles the
// owner's restrictions, and closes the open reports as auto_resolved. Every
// call that sees the threshold met creates a fresh violation; repeat reports
// against an already-sanctioned target keep accruing points.
func (s *Service) autoDetect(ctx context.Context, target Target, reason ReportReason, reportID uuid.UUID) error {
	count, err := s.store.CountNonDismissedReports(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to count reports: %w", err)
	}
	if count < AutoDetectThreshold {
		return nil
	}

	owner, err := s.store.ResolveOwner(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to resolve target owner: %w", err)
	}

	cls := ClassifyReason(reason)
	now := s.clock.Now()
	violation := &models.ViolationRecord{
		ID:           uuid.New(),
		UserID:       owner,
		Type:         string(cls.Type),
		Severity:     string(cls.Severity),
		Points:       SeverityPoints[cls.Severity],
		Description:  fmt.Sprintf("Auto-detected from %d reports against %s %s", count, target.Type, target.ID),
		ReportID:     &reportID,
		AutoDetected: true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ViolationTTL),
	}
	if err := s.store.CreateViolation(ctx, violation); err != nil {
		return fmt.Errorf("failed to create violation: %w", err)
	}

	if err := s.Reconcile(ctx, owner); err != nil {
		slog.Error("restriction reconciliation failed", "user_id", owner.String(), "error", err)
	}
	if err := s.store.AutoResolvePending(ctx, target, now); err != nil {
		slog.Error("failed to auto-resolve reports", "target_id", target.ID.String(), "error", err)
	}

	slog.Info("violation auto-detected",
		"user_id", owner.String(),
		"type", violation.Type,
		"severity", violation.Severity,
		"points", violation.Points,
		"report_count", count)
	return nil
}

// TotalPoints sums the user's unexpired violation points as of now. The sum
// is always computed fresh so decay works without a background sweep.
func (s *Service) TotalPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.TotalPoints(ctx, userID, s.clock.Now())
}

// Reconcile derives the restriction tier the user's current point total
// calls for and creates it unless an unexpired restriction of the same type
// already exists. Tiers are additive across types: a user inside a
// post_restriction who crosses the ban threshold gets a ban on top, not a
// replacement. Restrictions are never downgraded here; they end by expiry
// or manual lift.
func (s *Service) Reconcile(ctx context.Context, userID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		now := s.clock.Now()
		points, err := tx.TotalPoints(ctx, userID, now)
		if err != nil {
			return fmt.Errorf("failed to sum violation points: %w", err)
		}
		tier, ok := TierFor(points)
		if !ok {
			return nil
		}

		active, err := s.activeRestrictions(ctx, tx, userID, now)
		if err != nil {
			return fmt.Errorf("failed to load active restrictions: %w", err)
		}
		for _, r := range active {
			if r.Type == string(tier.Type) {
				return nil
			}
		}

		restriction := &models.UserRestriction{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      string(tier.Type),
			Reason:    tier.Reason,
			StartDate: now,
			IsActive:  true,
			CreatedBy: "system",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if tier.Duration > 0 {
			end := now.Add(tier.Duration)
			restriction.EndDate = &end
		}
		details, err := json.Marshal(map[string]any{
			"violation_points":  points,
			"trigger_threshold": tier.MinPoints,
		})
		if err == nil {
			restriction.Details = datatypes.JSON(details)
		}

		if err := tx.CreateRestriction(ctx, restriction); err != nil {
			return fmt.Errorf("failed to create restriction: %w", err)
		}
		slog.Info("restriction applied",
			"user_id", userID.String(),
			"type", restriction.Type,
			"points", points,
			"threshold", tier.MinPoints)
		return nil
	})
}
