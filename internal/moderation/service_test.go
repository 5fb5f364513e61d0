package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loocate/loocate-backend/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService() (*Service, *MemoryStore, *fakeClock) {
	store := NewMemoryStore()
	clock := &fakeClock{now: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
	return NewServiceWithClock(store, clock), store, clock
}

func submit(t *testing.T, svc *Service, reporter uuid.UUID, target Target, reason ReportReason) *models.Report {
	t.Helper()
	report, err := svc.SubmitReport(context.Background(), SubmitReportInput{
		ReporterID: reporter,
		TargetType: string(target.Type),
		TargetID:   target.ID,
		Reason:     string(reason),
	})
	require.NoError(t, err)
	return report
}

func addViolation(t *testing.T, store *MemoryStore, clock *fakeClock, userID uuid.UUID, severity Severity) {
	t.Helper()
	err := store.CreateViolation(context.Background(), &models.ViolationRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      string(ViolationSpamPosting),
		Severity:  string(severity),
		Points:    SeverityPoints[severity],
		CreatedAt: clock.now,
		ExpiresAt: clock.now.Add(ViolationTTL),
	})
	require.NoError(t, err)
}

func TestSubmitReportRejectsDuplicate(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	owner := uuid.New()
	target := Target{Type: TargetToilet, ID: uuid.New()}
	store.RegisterOwner(target, owner)

	reporter := uuid.New()
	submit(t, svc, reporter, target, ReasonSpam)

	_, err := svc.SubmitReport(ctx, SubmitReportInput{
		ReporterID: reporter,
		TargetType: string(target.Type),
		TargetID:   target.ID,
		Reason:     string(ReasonSpam),
	})
	assert.ErrorIs(t, err, ErrDuplicateReport)

	// A different reporter is not affected.
	submit(t, svc, uuid.New(), target, ReasonSpam)
}

func TestSubmitReportAllowedAfterDismissal(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	target := Target{Type: TargetReview, ID: uuid.New()}
	store.RegisterOwner(target, uuid.New())

	reporter := uuid.New()
	first := submit(t, svc, reporter, target, ReasonOther)

	_, err := svc.ReviewReport(ctx, first.ID, uuid.New(), StatusDismissed, "not actionable")
	require.NoError(t, err)

	submit(t, svc, reporter, target, ReasonOther)
}

func TestSubmitReportValidatesInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SubmitReport(ctx, SubmitReportInput{
		ReporterID: uuid.New(),
		TargetType: "post",
		TargetID:   uuid.New(),
		Reason:     string(ReasonSpam),
	})
	assert.Error(t, err)

	_, err = svc.SubmitReport(ctx, SubmitReportInput{
		ReporterID: uuid.New(),
		TargetType: string(TargetToilet),
		TargetID:   uuid.New(),
		Reason:     "because",
	})
	assert.Error(t, err)
}

func TestAutoDetectBelowThreshold(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	owner := uuid.New()
	target := Target{Type: TargetToilet, ID: uuid.New()}
	store.RegisterOwner(target, owner)

	submit(t, svc, uuid.New(), target, ReasonSpam)
	submit(t, svc, uuid.New(), target, ReasonSpam)

	violations, err := store.ViolationsByUser(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestAutoDetectAtThreshold(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	// Toilet T owned by U42, three spam reports.
	owner := uuid.New()
	target := Target{Type: TargetToilet, ID: uuid.New()}
	store.RegisterOwner(target, owner)

	submit(t, svc, uuid.New(), target, ReasonSpam)
	submit(t, svc, uuid.New(), target, ReasonSpam)
	third := submit(t, svc, uuid.New(), target, ReasonSpam)

	violations, err := store.ViolationsByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, string(ViolationSpamPosting), v.Type)
	assert.Equal(t, string(SeverityMedium), v.Severity)
	assert.Equal(t, 3, v.Points)
	assert.True(t, v.AutoDetected)
	require.NotNil(t, v.ReportID)
	assert.Equal(t, third.ID, *v.ReportID)

	// The open reports are closed out as auto_resolved.
	stored, err := store.GetReport(ctx, third.ID)
	require.NoError(t, err)
	assert.Equal(t, string(StatusAutoResolved), stored.Status)

	// 3 points lands on the warning tier.
	active, err := svc.ActiveRestrictions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, string(RestrictionWarning), active[0].Type)

	// A warning is informational: it does not block posting.
	decision, err := svc.IsRestricted(ctx, owner, ActionPost)
	require.NoError(t, err)
	assert.False(t, decision.Restricted)
}

func TestAutoDetectUserTarget(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	// A reported user owns themselves.
	reported := uuid.New()
	store.RegisterUser(reported)
	target := Target{Type: TargetUser, ID: reported}

	for i := 0; i < 3; i++ {
		submit(t, svc, uuid.New(), target, ReasonHarassment)
	}

	violations, err := store.ViolationsByUser(ctx, reported)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, string(ViolationHarassment), violations[0].Type)
	assert.Equal(t, 6, violations[0].Points)
}

func TestAutoDetectUnresolvableTargetKeepsReport(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	// No owner registered: detection is a logged no-op, submissions succeed.
	target := Target{Type: TargetComment, ID: uuid.New()}

	var last *models.Report
	for i := 0; i < 3; i++ {
		last = submit(t, svc, uuid.New(), target, ReasonSpam)
	}

	stored, err := store.GetReport(ctx, last.ID)
	require.NoError(t, err)
	assert.Equal(t, string(StatusPending), stored.Status)
}

func TestAutoDetectFailureDoesNotFailSubmission(t *testing.T) {
	store := NewMemoryStore()
	failing := &failingCountStore{MemoryStore: store}
	svc := NewServiceWithClock(failing, &fakeClock{now: time.Now()})

	report, err := svc.SubmitReport(context.Background(), SubmitReportInput{
		ReporterID: uuid.New(),
		TargetType: string(TargetToilet),
		TargetID:   uuid.New(),
		Reason:     string(ReasonSpam),
	})
	require.NoError(t, err)
	assert.NotNil(t, report)
}

type failingCountStore struct {
	*MemoryStore
}

func (f *failingCountStore) CountNonDismissedReports(context.Context, Target) (int64, error) {
	return 0, errors.New("store unavailable")
}

func TestTotalPointsExcludesExpired(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	addViolation(t, store, clock, user, SeverityMedium)
	addViolation(t, store, clock, user, SeverityHigh)

	points, err := svc.TotalPoints(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 9, points)

	// 31 days later both entries have decayed, but history keeps them.
	clock.Advance(31 * 24 * time.Hour)

	points, err = svc.TotalPoints(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 0, points)

	history, err := svc.ViolationHistory(ctx, user)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestReconcileCreatesTierRestriction(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	// 6 + 3 = 9 points: post_restriction for 3 days.
	addViolation(t, store, clock, user, SeverityHigh)
	addViolation(t, store, clock, user, SeverityMedium)
	require.NoError(t, svc.Reconcile(ctx, user))

	active, err := svc.ActiveRestrictions(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 1)

	r := active[0]
	assert.Equal(t, string(RestrictionPost), r.Type)
	assert.Equal(t, "system", r.CreatedBy)
	require.NotNil(t, r.EndDate)
	assert.Equal(t, clock.now.Add(3*24*time.Hour), *r.EndDate)

	decision, err := svc.IsRestricted(ctx, user, ActionPost)
	require.NoError(t, err)
	assert.True(t, decision.Restricted)
	assert.Equal(t, r.Reason, decision.Reason)
	assert.Equal(t, r.EndDate, decision.EndDate)

	// Other action classes stay open.
	decision, err = svc.IsRestricted(ctx, user, ActionComment)
	require.NoError(t, err)
	assert.False(t, decision.Restricted)
}

func TestReconcileIsIdempotentPerTier(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	addViolation(t, store, clock, user, SeverityHigh)
	addViolation(t, store, clock, user, SeverityMedium)

	require.NoError(t, svc.Reconcile(ctx, user))
	require.NoError(t, svc.Reconcile(ctx, user))
	require.NoError(t, svc.Reconcile(ctx, user))

	active, err := svc.ActiveRestrictions(ctx, user)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestReconcileTiersAreAdditiveAcrossTypes(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	addViolation(t, store, clock, user, SeverityHigh)
	addViolation(t, store, clock, user, SeverityMedium)
	require.NoError(t, svc.Reconcile(ctx, user))

	// Crossing the ban threshold stacks a temporary_ban on top of the
	// existing post_restriction instead of replacing it.
	_, err := svc.RecordViolation(ctx, RecordViolationInput{
		UserID:   user,
		Type:     string(ViolationHarassment),
		Severity: string(SeverityHigh),
	})
	require.NoError(t, err)

	active, err := svc.ActiveRestrictions(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 2)

	types := map[string]bool{}
	for _, r := range active {
		types[r.Type] = true
	}
	assert.True(t, types[string(RestrictionPost)])
	assert.True(t, types[string(RestrictionTemporaryBan)])

	// The gate surfaces the ban, not the post restriction.
	decision, err := svc.IsRestricted(ctx, user, ActionPost)
	require.NoError(t, err)
	assert.True(t, decision.Restricted)
	assert.Equal(t, string(RestrictionTemporaryBan), decision.Type)
}

func TestReconcileNeverDowngrades(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	addViolation(t, store, clock, user, SeverityHigh)
	addViolation(t, store, clock, user, SeverityMedium)
	require.NoError(t, svc.Reconcile(ctx, user))

	// Points decay below every threshold; the restriction stays until its
	// own end date passes.
	clock.Advance(31 * 24 * time.Hour)
	require.NoError(t, svc.Reconcile(ctx, user))

	restrictions, err := svc.RestrictionsFor(ctx, user)
	require.NoError(t, err)
	require.Len(t, restrictions, 1)
}

func TestGateWithNoRestrictions(t *testing.T) {
	svc, _, _ := newTestService()

	decision, err := svc.IsRestricted(context.Background(), uuid.New(), ActionPost)
	require.NoError(t, err)
	assert.False(t, decision.Restricted)
	assert.Empty(t, decision.Reason)
	assert.Nil(t, decision.EndDate)
}

func TestActiveRestrictionsLazyExpiry(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	end := clock.now.Add(24 * time.Hour)
	restriction := &models.UserRestriction{
		ID:        uuid.New(),
		UserID:    user,
		Type:      string(RestrictionPost),
		Reason:    "Posting restricted for policy violations",
		StartDate: clock.now,
		EndDate:   &end,
		IsActive:  true,
		CreatedBy: "system",
		CreatedAt: clock.now,
	}
	require.NoError(t, store.CreateRestriction(ctx, restriction))

	decision, err := svc.IsRestricted(ctx, user, ActionPost)
	require.NoError(t, err)
	assert.True(t, decision.Restricted)

	// Past the end date the restriction is invisible to readers and gets
	// flagged inactive on the way out.
	clock.Advance(25 * time.Hour)

	active, err := svc.ActiveRestrictions(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, active)

	stored, err := store.GetRestriction(ctx, restriction.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	decision, err = svc.IsRestricted(ctx, user, ActionPost)
	require.NoError(t, err)
	assert.False(t, decision.Restricted)
}

func TestExpiredRestrictionDoesNotSuppressRecreation(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	addViolation(t, store, clock, user, SeverityHigh)
	addViolation(t, store, clock, user, SeverityMedium)
	require.NoError(t, svc.Reconcile(ctx, user))

	// The 3-day restriction lapses while the violations (30 days) still
	// count; reconciling again creates a fresh restriction of the same type.
	clock.Advance(4 * 24 * time.Hour)
	require.NoError(t, svc.Reconcile(ctx, user))

	restrictions, err := svc.RestrictionsFor(ctx, user)
	require.NoError(t, err)
	require.Len(t, restrictions, 2)

	active, err := svc.ActiveRestrictions(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, string(RestrictionPost), active[0].Type)
}

func TestLiftRestriction(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()
	admin := uuid.New()

	addViolation(t, store, clock, user, SeverityHigh)
	addViolation(t, store, clock, user, SeverityMedium)
	require.NoError(t, svc.Reconcile(ctx, user))

	active, err := svc.ActiveRestrictions(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, svc.LiftRestriction(ctx, active[0].ID, admin))

	stored, err := store.GetRestriction(ctx, active[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.LiftedBy)
	assert.Equal(t, admin, *stored.LiftedBy)

	err = svc.LiftRestriction(ctx, uuid.New(), admin)
	assert.ErrorIs(t, err, ErrRestrictionNotFound)
}

func TestRecordViolationValidatesInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RecordViolation(ctx, RecordViolationInput{
		UserID:   uuid.New(),
		Type:     "bad_type",
		Severity: string(SeverityLow),
	})
	assert.Error(t, err)

	_, err = svc.RecordViolation(ctx, RecordViolationInput{
		UserID:   uuid.New(),
		Type:     string(ViolationSpamPosting),
		Severity: "extreme",
	})
	assert.Error(t, err)
}

func TestRecordViolationFreezesPoints(t *testing.T) {
	svc, _, clock := newTestService()
	ctx := context.Background()
	user := uuid.New()

	v, err := svc.RecordViolation(ctx, RecordViolationInput{
		UserID:      user,
		Type:        string(ViolationVoteManipulation),
		Severity:    string(SeverityCritical),
		Description: "vote ring",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, v.Points)
	assert.False(t, v.AutoDetected)
	assert.Equal(t, clock.now.Add(ViolationTTL), v.ExpiresAt)

	// 12 points is the temporary ban tier.
	active, err := svc.ActiveRestrictions(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, string(RestrictionTemporaryBan), active[0].Type)
}

func TestReviewReportLifecycle(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	target := Target{Type: TargetToilet, ID: uuid.New()}
	store.RegisterOwner(target, uuid.New())

	report := submit(t, svc, uuid.New(), target, ReasonFakeInformation)
	reviewer := uuid.New()

	updated, err := svc.ReviewReport(ctx, report.ID, reviewer, StatusUnderReview, "")
	require.NoError(t, err)
	assert.Equal(t, string(StatusUnderReview), updated.Status)

	updated, err = svc.ReviewReport(ctx, report.ID, reviewer, StatusResolved, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, string(StatusResolved), updated.Status)
	assert.Equal(t, "confirmed", updated.Resolution)
	require.NotNil(t, updated.ReviewerID)
	assert.Equal(t, reviewer, *updated.ReviewerID)

	// Resolved reports are immutable.
	_, err = svc.ReviewReport(ctx, report.ID, reviewer, StatusDismissed, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.ReviewReport(ctx, uuid.New(), reviewer, StatusResolved, "")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
