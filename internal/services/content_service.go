package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loocate/loocate-backend/internal/dto"
	"github.com/loocate/loocate-backend/internal/models"
	"github.com/loocate/loocate-backend/internal/moderation"
)

var ErrNotFound = errors.New("not found")

// RestrictedError is returned when the restriction gate blocks an action.
// Handlers surface the decision's reason and end date to the user verbatim.
type RestrictedError struct {
	Decision moderation.Decision
}

func (e *RestrictedError) Error() string {
	return e.Decision.Reason
}

// Gate is the restriction check every content write goes through first.
type Gate interface {
	IsRestricted(ctx context.Context, userID uuid.UUID, action moderation.Action) (moderation.Decision, error)
}

// ContentService owns the toilet, review, comment and vote writes. Each
// creation checks the restriction gate before touching the database and
// aborts with a RestrictedError when blocked.
type ContentService struct {
	db   *gorm.DB
	gate Gate
}

func NewContentService(db *gorm.DB, gate Gate) *ContentService {
	return &ContentService{db: db, gate: gate}
}

func (s *ContentService) checkGate(ctx context.Context, userID uuid.UUID, action moderation.Action) error {
	decision, err := s.gate.IsRestricted(ctx, userID, action)
	if err != nil {
		return fmt.Errorf("failed to check restrictions: %w", err)
	}
	if decision.Restricted {
		return &RestrictedError{Decision: decision}
	}
	return nil
}

func (s *ContentService) CreateToilet(ctx context.Context, userID uuid.UUID, req *dto.CreateToiletRequest) (*models.Toilet, error) {
	if err := s.checkGate(ctx, userID, moderation.ActionPost); err != nil {
		return nil, err
	}

	toilet := models.Toilet{
		ID:          uuid.New(),
		CreatedBy:   userID,
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		IsFree:      req.IsFree,
		Accessible:  req.Accessible,
	}
	if err := s.db.WithContext(ctx).Create(&toilet).Error; err != nil {
		return nil, fmt.Errorf("failed to create toilet: %w", err)
	}
	return &toilet, nil
}

func (s *ContentService) CreateReview(ctx context.Context, userID, toiletID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	if err := s.checkGate(ctx, userID, moderation.ActionReview); err != nil {
		return nil, err
	}

	var toilet models.Toilet
	if err := s.db.WithContext(ctx).First(&toilet, "id = ?", toiletID).Error; err != nil {
		return nil, ErrNotFound
	}

	review := models.Review{
		ID:       uuid.New(),
		ToiletID: toiletID,
		AuthorID: userID,
		Rating:   req.Rating,
		Body:     req.Body,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (s *ContentService) CreateComment(ctx context.Context, userID, reviewID uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if err := s.checkGate(ctx, userID, moderation.ActionComment); err != nil {
		return nil, err
	}

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, ErrNotFound
	}

	comment := models.Comment{
		ID:       uuid.New(),
		ReviewID: reviewID,
		AuthorID: userID,
		Body:     req.Body,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

// VoteReview records an up or down vote, replacing the voter's previous vote
// on the same review when one exists.
func (s *ContentService) VoteReview(ctx context.Context, userID, reviewID uuid.UUID, value int) (*models.ReviewVote, error) {
	if value != 1 && value != -1 {
		return nil, errors.New("vote value must be 1 or -1")
	}
	if err := s.checkGate(ctx, userID, moderation.ActionVote); err != nil {
		return nil, err
	}

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, ErrNotFound
	}

	var vote models.ReviewVote
	err := s.db.WithContext(ctx).
		Where("review_id = ? AND voter_id = ?", reviewID, userID).
		First(&vote).Error
	if err == nil {
		if err := s.db.WithContext(ctx).Model(&vote).Update("value", value).Error; err != nil {
			return nil, fmt.Errorf("failed to update vote: %w", err)
		}
		vote.Value = value
		return &vote, nil
	}

	vote = models.ReviewVote{
		ID:       uuid.New(),
		ReviewID: reviewID,
		VoterID:  userID,
		Value:    value,
	}
	if err := s.db.WithContext(ctx).Create(&vote).Error; err != nil {
		return nil, fmt.Errorf("failed to create vote: %w", err)
	}
	return &vote, nil
}

// ListToilets returns toilets for the map view, newest first.
func (s *ContentService) ListToilets(ctx context.Context, limit, offset int) ([]models.Toilet, int64, error) {
	var toilets []models.Toilet
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Toilet{})
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&toilets).Error; err != nil {
		return nil, 0, err
	}
	return toilets, total, nil
}
