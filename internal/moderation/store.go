package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/loocate/loocate-backend/internal/models"
)

var (
	ErrDuplicateReport     = errors.New("a report for this target is already pending")
	ErrReportNotFound      = errors.New("report not found")
	ErrRestrictionNotFound = errors.New("restriction not found")
	ErrUnresolvableTarget  = errors.New("target owner could not be resolved")
	ErrInvalidTransition   = errors.New("invalid report status transition")
)

// Target identifies a reported piece of content or account.
type Target struct {
	Type TargetType
	ID   uuid.UUID
}

// Store is the persistence port the moderation core runs against. The GORM
// adapter backs production; tests use MemoryStore.
type Store interface {
	CreateReport(ctx context.Context, r *models.Report) error
	// HasOpenReport reports whether the reporter already has a pending or
	// under-review report against the target.
	HasOpenReport(ctx context.Context, reporterID uuid.UUID, target Target) (bool, error)
	// CountNonDismissedReports counts every report against the target whose
	// status is not dismissed.
	CountNonDismissedReports(ctx context.Context, target Target) (int64, error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error)
	SaveReport(ctx context.Context, r *models.Report) error
	// AutoResolvePending moves the target's open reports to auto_resolved
	// once a violation has been synthesized from them.
	AutoResolvePending(ctx context.Context, target Target, now time.Time) error

	CreateViolation(ctx context.Context, v *models.ViolationRecord) error
	// ViolationsByUser returns the full ledger, expired rows included.
	ViolationsByUser(ctx context.Context, userID uuid.UUID) ([]models.ViolationRecord, error)
	// TotalPoints sums points over rows with expiresAt > now.
	TotalPoints(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	CreateRestriction(ctx context.Context, r *models.UserRestriction) error
	// ActiveRestrictions returns rows with isActive=true, without applying
	// the read-time end-date check; the service layer does that.
	ActiveRestrictions(ctx context.Context, userID uuid.UUID) ([]models.UserRestriction, error)
	RestrictionsByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRestriction, error)
	GetRestriction(ctx context.Context, id uuid.UUID) (*models.UserRestriction, error)
	// DeactivateRestriction sets isActive=false. liftedBy is nil for
	// expiry-driven deactivation. Idempotent.
	DeactivateRestriction(ctx context.Context, id uuid.UUID, liftedBy *uuid.UUID, at time.Time) error

	// ResolveOwner returns the user who owns the target: the author column
	// for content targets, the target itself for user targets.
	ResolveOwner(ctx context.Context, target Target) (uuid.UUID, error)

	// Transaction runs fn against a store view whose writes commit or roll
	// back atomically.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// Clock abstracts time.Now for the service so expiry logic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
