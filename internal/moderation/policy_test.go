package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReason(t *testing.T) {
	tests := []struct {
		reason   ReportReason
		wantType ViolationType
		wantSev  Severity
	}{
		{ReasonSpam, ViolationSpamPosting, SeverityMedium},
		{ReasonCommercialSpam, ViolationSpamPosting, SeverityMedium},
		{ReasonInappropriateContent, ViolationInappropriateContent, SeverityHigh},
		{ReasonHarassment, ViolationHarassment, SeverityHigh},
		{ReasonHateSpeech, ViolationHarassment, SeverityHigh},
		{ReasonFakeInformation, ViolationFakeInformation, SeverityMedium},
		{ReasonPrivacyViolation, ViolationInappropriateContent, SeverityLow},
		{ReasonWrongLocation, ViolationInappropriateContent, SeverityLow},
		{ReasonOther, ViolationInappropriateContent, SeverityLow},
	}
	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			cls := ClassifyReason(tt.reason)
			assert.Equal(t, tt.wantType, cls.Type)
			assert.Equal(t, tt.wantSev, cls.Severity)
		})
	}
}

func TestSeverityPoints(t *testing.T) {
	assert.Equal(t, 1, SeverityPoints[SeverityLow])
	assert.Equal(t, 3, SeverityPoints[SeverityMedium])
	assert.Equal(t, 6, SeverityPoints[SeverityHigh])
	assert.Equal(t, 12, SeverityPoints[SeverityCritical])
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		points   int
		wantType RestrictionType
		wantDur  time.Duration
		found    bool
	}{
		{0, "", 0, false},
		{2, "", 0, false},
		{3, RestrictionWarning, 0, true},
		{4, RestrictionWarning, 0, true},
		{5, RestrictionPost, 24 * time.Hour, true},
		{7, RestrictionPost, 24 * time.Hour, true},
		{8, RestrictionPost, 3 * 24 * time.Hour, true},
		{11, RestrictionPost, 3 * 24 * time.Hour, true},
		{12, RestrictionTemporaryBan, 7 * 24 * time.Hour, true},
		{19, RestrictionTemporaryBan, 7 * 24 * time.Hour, true},
		{20, RestrictionPermanentBan, 0, true},
		{100, RestrictionPermanentBan, 0, true},
	}
	for _, tt := range tests {
		tier, ok := TierFor(tt.points)
		assert.Equal(t, tt.found, ok, "points=%d", tt.points)
		if tt.found {
			assert.Equal(t, tt.wantType, tier.Type, "points=%d", tt.points)
			assert.Equal(t, tt.wantDur, tier.Duration, "points=%d", tt.points)
		}
	}
}

func TestBlocks(t *testing.T) {
	// Bans block everything; action-specific types block only their action.
	for _, action := range []Action{ActionPost, ActionComment, ActionReview, ActionVote} {
		assert.True(t, Blocks(action, RestrictionTemporaryBan), "action=%s", action)
		assert.True(t, Blocks(action, RestrictionPermanentBan), "action=%s", action)
		assert.False(t, Blocks(action, RestrictionWarning), "action=%s", action)
	}

	assert.True(t, Blocks(ActionPost, RestrictionPost))
	assert.False(t, Blocks(ActionPost, RestrictionComment))
	assert.True(t, Blocks(ActionComment, RestrictionComment))
	assert.False(t, Blocks(ActionComment, RestrictionVote))
	assert.True(t, Blocks(ActionReview, RestrictionReview))
	assert.False(t, Blocks(ActionReview, RestrictionPost))
	assert.True(t, Blocks(ActionVote, RestrictionVote))
	assert.False(t, Blocks(ActionVote, RestrictionReview))
}

func TestGatePrecedence(t *testing.T) {
	assert.Less(t, gatePrecedence(RestrictionPermanentBan), gatePrecedence(RestrictionTemporaryBan))
	assert.Less(t, gatePrecedence(RestrictionTemporaryBan), gatePrecedence(RestrictionPost))
	assert.Less(t, gatePrecedence(RestrictionPost), gatePrecedence(RestrictionWarning))
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidTargetType("toilet"))
	assert.True(t, ValidTargetType("user"))
	assert.False(t, ValidTargetType("post"))

	assert.True(t, ValidReason("spam"))
	assert.True(t, ValidReason("wrong_location"))
	assert.False(t, ValidReason("bad"))

	assert.True(t, ValidAction("vote"))
	assert.False(t, ValidAction("delete"))

	assert.True(t, ValidViolationType("vote_manipulation"))
	assert.False(t, ValidViolationType("spam"))
}
