package moderation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/loocate/loocate-backend/internal/models"
)

// ActiveRestrictions returns the user's restrictions that are active right
// now. Rows whose end date has passed are excluded and flipped to
// isActive=false on the way out, so expiry needs no background scheduler.
func (s *Service) ActiveRestrictions(ctx context.Context, userID uuid.UUID) ([]models.UserRestriction, error) {
	return s.activeRestrictions(ctx, s.store, userID, s.clock.Now())
}

func (s *Service) activeRestrictions(ctx context.Context, store Store, userID uuid.UUID, now time.Time) ([]models.UserRestriction, error) {
	rows, err := store.ActiveRestrictions(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := make([]models.UserRestriction, 0, len(rows))
	for _, r := range rows {
		if r.EndDate != nil && r.EndDate.Before(now) {
			// Deactivation is idempotent; a failure here only delays the
			// flag flip, the row is excluded from the result either way.
			if err := store.DeactivateRestriction(ctx, r.ID, nil, now); err != nil {
				slog.Error("failed to deactivate expired restriction",
					"restriction_id", r.ID.String(), "error", err)
			}
			continue
		}
		active = append(active, r)
	}
	return active, nil
}

// Decision is the gate's answer: whether the action is blocked and, if so,
// by which restriction.
type Decision struct {
	Restricted bool       `json:"restricted"`
	Type       string     `json:"type,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// IsRestricted is the restriction gate. Action handlers call it before
// performing a write and surface the returned reason and end date verbatim.
// When several restrictions block the action, the highest-precedence one
// wins (permanent ban, temporary ban, action-specific type, in that order),
// so the answer does not depend on store ordering.
func (s *Service) IsRestricted(ctx context.Context, userID uuid.UUID, action Action) (Decision, error) {
	active, err := s.ActiveRestrictions(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	var match *models.UserRestriction
	for i := range active {
		r := &active[i]
		if !Blocks(action, RestrictionType(r.Type)) {
			continue
		}
		if match == nil || gatePrecedence(RestrictionType(r.Type)) < gatePrecedence(RestrictionType(match.Type)) {
			match = r
		}
	}
	if match == nil {
		return Decision{}, nil
	}
	return Decision{
		Restricted: true,
		Type:       match.Type,
		Reason:     match.Reason,
		EndDate:    match.EndDate,
	}, nil
}

// RestrictionsFor returns the user's full restriction history, inactive
// rows included.
func (s *Service) RestrictionsFor(ctx context.Context, userID uuid.UUID) ([]models.UserRestriction, error) {
	return s.store.RestrictionsByUser(ctx, userID)
}

// LiftRestriction deactivates a restriction on behalf of a moderator.
func (s *Service) LiftRestriction(ctx context.Context, restrictionID, liftedBy uuid.UUID) error {
	if _, err := s.store.GetRestriction(ctx, restrictionID); err != nil {
		return err
	}
	return s.store.DeactivateRestriction(ctx, restrictionID, &liftedBy, s.clock.Now())
}
