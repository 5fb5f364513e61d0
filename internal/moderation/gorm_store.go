package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loocate/loocate-backend/internal/models"
)

// GormStore is the production Store backed by Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var openStatuses = []string{string(StatusPending), string(StatusUnderReview)}

func (g *GormStore) CreateReport(ctx context.Context, r *models.Report) error {
	return g.db.WithContext(ctx).Create(r).Error
}

func (g *GormStore) HasOpenReport(ctx context.Context, reporterID uuid.UUID, target Target) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND status IN ?",
			reporterID, string(target.Type), target.ID, openStatuses).
		Count(&count).Error
	return count > 0, err
}

func (g *GormStore) CountNonDismissedReports(ctx context.Context, target Target) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Report{}).
		Where("target_type = ? AND target_id = ? AND status <> ?",
			string(target.Type), target.ID, string(StatusDismissed)).
		Count(&count).Error
	return count, err
}

func (g *GormStore) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := g.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (g *GormStore) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := g.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (g *GormStore) SaveReport(ctx context.Context, r *models.Report) error {
	return g.db.WithContext(ctx).Save(r).Error
}

func (g *GormStore) AutoResolvePending(ctx context.Context, target Target, now time.Time) error {
	return g.db.WithContext(ctx).Model(&models.Report{}).
		Where("target_type = ? AND target_id = ? AND status IN ?",
			string(target.Type), target.ID, openStatuses).
		Updates(map[string]interface{}{
			"status":      string(StatusAutoResolved),
			"reviewed_at": now,
		}).Error
}

func (g *GormStore) CreateViolation(ctx context.Context, v *models.ViolationRecord) error {
	return g.db.WithContext(ctx).Create(v).Error
}

func (g *GormStore) ViolationsByUser(ctx context.Context, userID uuid.UUID) ([]models.ViolationRecord, error) {
	var violations []models.ViolationRecord
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&violations).Error
	return violations, err
}

func (g *GormStore) TotalPoints(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	var total int
	err := g.db.WithContext(ctx).Model(&models.ViolationRecord{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ? AND expires_at > ?", userID, now).
		Scan(&total).Error
	return total, err
}

func (g *GormStore) CreateRestriction(ctx context.Context, r *models.UserRestriction) error {
	return g.db.WithContext(ctx).Create(r).Error
}

func (g *GormStore) ActiveRestrictions(ctx context.Context, userID uuid.UUID) ([]models.UserRestriction, error) {
	var restrictions []models.UserRestriction
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true", userID).
		Find(&restrictions).Error
	return restrictions, err
}

func (g *GormStore) RestrictionsByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRestriction, error) {
	var restrictions []models.UserRestriction
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&restrictions).Error
	return restrictions, err
}

func (g *GormStore) GetRestriction(ctx context.Context, id uuid.UUID) (*models.UserRestriction, error) {
	var restriction models.UserRestriction
	if err := g.db.WithContext(ctx).First(&restriction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestrictionNotFound
		}
		return nil, err
	}
	return &restriction, nil
}

func (g *GormStore) DeactivateRestriction(ctx context.Context, id uuid.UUID, liftedBy *uuid.UUID, at time.Time) error {
	updates := map[string]interface{}{"is_active": false}
	if liftedBy != nil {
		updates["lifted_by"] = *liftedBy
		updates["lifted_at"] = at
	}
	return g.db.WithContext(ctx).Model(&models.UserRestriction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (g *GormStore) ResolveOwner(ctx context.Context, target Target) (uuid.UUID, error) {
	var owner uuid.UUID
	var err error

	switch target.Type {
	case TargetToilet:
		err = g.db.WithContext(ctx).Model(&models.Toilet{}).
			Select("created_by").Where("id = ?", target.ID).First(&owner).Error
	case TargetReview:
		err = g.db.WithContext(ctx).Model(&models.Review{}).
			Select("author_id").Where("id = ?", target.ID).First(&owner).Error
	case TargetComment:
		err = g.db.WithContext(ctx).Model(&models.Comment{}).
			Select("author_id").Where("id = ?", target.ID).First(&owner).Error
	case TargetUser:
		err = g.db.WithContext(ctx).Model(&models.User{}).
			Select("id").Where("id = ?", target.ID).First(&owner).Error
	default:
		return uuid.Nil, ErrUnresolvableTarget
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrUnresolvableTarget
		}
		return uuid.Nil, err
	}
	return owner, nil
}

func (g *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
