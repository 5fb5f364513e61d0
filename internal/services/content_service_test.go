package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loocate/loocate-backend/internal/dto"
	"github.com/loocate/loocate-backend/internal/moderation"
)

type fakeGate struct {
	decision moderation.Decision
	err      error
	lastUser uuid.UUID
	lastAct  moderation.Action
}

func (g *fakeGate) IsRestricted(_ context.Context, userID uuid.UUID, action moderation.Action) (moderation.Decision, error) {
	g.lastUser = userID
	g.lastAct = action
	return g.decision, g.err
}

func blockedGate(t moderation.RestrictionType, reason string, end *time.Time) *fakeGate {
	return &fakeGate{decision: moderation.Decision{
		Restricted: true,
		Type:       string(t),
		Reason:     reason,
		EndDate:    end,
	}}
}

func TestCreateToiletBlockedByGate(t *testing.T) {
	end := time.Now().Add(3 * 24 * time.Hour)
	gate := blockedGate(moderation.RestrictionPost, "Posting restricted for repeated policy violations", &end)
	svc := NewContentService(nil, gate)
	user := uuid.New()

	_, err := svc.CreateToilet(context.Background(), user, &dto.CreateToiletRequest{
		Name: "Central Station WC", Latitude: 41.01, Longitude: 28.97,
	})

	var restricted *RestrictedError
	require.ErrorAs(t, err, &restricted)
	assert.True(t, restricted.Decision.Restricted)
	assert.Equal(t, string(moderation.RestrictionPost), restricted.Decision.Type)
	assert.Equal(t, "Posting restricted for repeated policy violations", restricted.Error())
	require.NotNil(t, restricted.Decision.EndDate)
	assert.Equal(t, end, *restricted.Decision.EndDate)

	assert.Equal(t, user, gate.lastUser)
	assert.Equal(t, moderation.ActionPost, gate.lastAct)
}

func TestCreateReviewBlockedByBan(t *testing.T) {
	gate := blockedGate(moderation.RestrictionPermanentBan, "Account permanently banned for repeated policy violations", nil)
	svc := NewContentService(nil, gate)

	_, err := svc.CreateReview(context.Background(), uuid.New(), uuid.New(), &dto.CreateReviewRequest{Rating: 4})

	var restricted *RestrictedError
	require.ErrorAs(t, err, &restricted)
	assert.Nil(t, restricted.Decision.EndDate)
	assert.Equal(t, moderation.ActionReview, gate.lastAct)
}

func TestCreateCommentBlockedByGate(t *testing.T) {
	gate := blockedGate(moderation.RestrictionTemporaryBan, "Account temporarily banned for repeated policy violations", nil)
	svc := NewContentService(nil, gate)

	_, err := svc.CreateComment(context.Background(), uuid.New(), uuid.New(), &dto.CreateCommentRequest{Body: "agreed"})

	var restricted *RestrictedError
	require.ErrorAs(t, err, &restricted)
	assert.Equal(t, moderation.ActionComment, gate.lastAct)
}

func TestVoteReviewBlockedByGate(t *testing.T) {
	gate := blockedGate(moderation.RestrictionVote, "Voting restricted", nil)
	svc := NewContentService(nil, gate)

	_, err := svc.VoteReview(context.Background(), uuid.New(), uuid.New(), 1)

	var restricted *RestrictedError
	require.ErrorAs(t, err, &restricted)
	assert.Equal(t, moderation.ActionVote, gate.lastAct)
}

func TestVoteReviewRejectsInvalidValue(t *testing.T) {
	gate := &fakeGate{}
	svc := NewContentService(nil, gate)

	_, err := svc.VoteReview(context.Background(), uuid.New(), uuid.New(), 0)
	assert.Error(t, err)
	// Rejected before the gate is consulted.
	assert.Equal(t, moderation.Action(""), gate.lastAct)
}

func TestCheckGateErrorIsNotRestrictedError(t *testing.T) {
	gate := &fakeGate{err: errors.New("store unavailable")}
	svc := NewContentService(nil, gate)

	_, err := svc.CreateToilet(context.Background(), uuid.New(), &dto.CreateToiletRequest{Name: "x"})
	require.Error(t, err)

	var restricted *RestrictedError
	assert.False(t, errors.As(err, &restricted))
}
