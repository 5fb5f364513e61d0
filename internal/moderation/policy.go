// Package moderation implements the report intake, auto-detection, violation
// ledger, restriction policy and restriction gate behind a persistence port,
// so the HTTP layer stays a thin wrapper and tests run against an in-memory
// store.
package moderation

import "time"

type TargetType string

const (
	TargetToilet  TargetType = "toilet"
	TargetReview  TargetType = "review"
	TargetComment TargetType = "comment"
	TargetUser    TargetType = "user"
)

type ReportReason string

const (
	ReasonSpam                 ReportReason = "spam"
	ReasonInappropriateContent ReportReason = "inappropriate_content"
	ReasonHarassment           ReportReason = "harassment"
	ReasonHateSpeech           ReportReason = "hate_speech"
	ReasonFakeInformation      ReportReason = "fake_information"
	ReasonCommercialSpam       ReportReason = "commercial_spam"
	ReasonPrivacyViolation     ReportReason = "privacy_violation"
	ReasonWrongLocation        ReportReason = "wrong_location"
	ReasonOther                ReportReason = "other"
)

type ReportStatus string

const (
	StatusPending      ReportStatus = "pending"
	StatusUnderReview  ReportStatus = "under_review"
	StatusResolved     ReportStatus = "resolved"
	StatusDismissed    ReportStatus = "dismissed"
	StatusAutoResolved ReportStatus = "auto_resolved"
)

type ViolationType string

const (
	ViolationSpamPosting          ViolationType = "spam_posting"
	ViolationInappropriateContent ViolationType = "inappropriate_content"
	ViolationHarassment           ViolationType = "harassment"
	ViolationFakeInformation      ViolationType = "fake_information"
	ViolationMultipleAccounts     ViolationType = "multiple_accounts"
	ViolationVoteManipulation     ViolationType = "vote_manipulation"
	ViolationCommercialSpam       ViolationType = "commercial_spam"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type RestrictionType string

const (
	RestrictionWarning      RestrictionType = "warning"
	RestrictionPost         RestrictionType = "post_restriction"
	RestrictionComment      RestrictionType = "comment_restriction"
	RestrictionReview       RestrictionType = "review_restriction"
	RestrictionVote         RestrictionType = "vote_restriction"
	RestrictionTemporaryBan RestrictionType = "temporary_ban"
	RestrictionPermanentBan RestrictionType = "permanent_ban"
)

type Action string

const (
	ActionPost    Action = "post"
	ActionComment Action = "comment"
	ActionReview  Action = "review"
	ActionVote    Action = "vote"
)

const (
	// AutoDetectThreshold is the number of non-dismissed reports against one
	// target that synthesizes a violation for the target's owner.
	AutoDetectThreshold = 3

	// ViolationTTL is how long a violation contributes to a user's point
	// total. Expired rows are kept but excluded from sums.
	ViolationTTL = 30 * 24 * time.Hour
)

// SeverityPoints is the fixed severity to point weight mapping. Points are
// copied onto the violation row at creation time, so changing this table
// never rewrites history.
var SeverityPoints = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   3,
	SeverityHigh:     6,
	SeverityCritical: 12,
}

// Classification pairs the violation type and severity an auto-detected
// report reason maps to.
type Classification struct {
	Type     ViolationType
	Severity Severity
}

var reasonClassification = map[ReportReason]Classification{
	ReasonSpam:                 {ViolationSpamPosting, SeverityMedium},
	ReasonCommercialSpam:       {ViolationSpamPosting, SeverityMedium},
	ReasonInappropriateContent: {ViolationInappropriateContent, SeverityHigh},
	ReasonHarassment:           {ViolationHarassment, SeverityHigh},
	ReasonHateSpeech:           {ViolationHarassment, SeverityHigh},
	ReasonFakeInformation:      {ViolationFakeInformation, SeverityMedium},
}

// ClassifyReason maps a report reason to the violation it becomes when
// auto-detection fires. Reasons without an entry fall back to a low-severity
// inappropriate-content violation.
func ClassifyReason(reason ReportReason) Classification {
	if c, ok := reasonClassification[reason]; ok {
		return c
	}
	return Classification{ViolationInappropriateContent, SeverityLow}
}

// Tier is one row of the point-threshold table. A zero Duration means the
// restriction is indefinite.
type Tier struct {
	MinPoints int
	Type      RestrictionType
	Duration  time.Duration
	Reason    string
}

// Tiers is ordered highest threshold first; TierFor picks the first row the
// point total meets.
var Tiers = []Tier{
	{20, RestrictionPermanentBan, 0, "Account permanently banned for repeated policy violations"},
	{12, RestrictionTemporaryBan, 7 * 24 * time.Hour, "Account temporarily banned for repeated policy violations"},
	{8, RestrictionPost, 3 * 24 * time.Hour, "Posting restricted for repeated policy violations"},
	{5, RestrictionPost, 24 * time.Hour, "Posting restricted for policy violations"},
	{3, RestrictionWarning, 0, "Warning issued for policy violations"},
}

// TierFor returns the highest tier the point total meets, or false when the
// total is below every threshold.
func TierFor(points int) (Tier, bool) {
	for _, t := range Tiers {
		if points >= t.MinPoints {
			return t, true
		}
	}
	return Tier{}, false
}

var blockingTypes = map[Action][]RestrictionType{
	ActionPost:    {RestrictionPost, RestrictionTemporaryBan, RestrictionPermanentBan},
	ActionComment: {RestrictionComment, RestrictionTemporaryBan, RestrictionPermanentBan},
	ActionReview:  {RestrictionReview, RestrictionTemporaryBan, RestrictionPermanentBan},
	ActionVote:    {RestrictionVote, RestrictionTemporaryBan, RestrictionPermanentBan},
}

// Blocks reports whether a restriction of type t blocks the given action.
func Blocks(action Action, t RestrictionType) bool {
	for _, bt := range blockingTypes[action] {
		if bt == t {
			return true
		}
	}
	return false
}

// gatePrecedence orders restriction types for the gate response: bans beat
// action-specific restrictions beat warnings, so the surfaced reason does
// not depend on store ordering.
func gatePrecedence(t RestrictionType) int {
	switch t {
	case RestrictionPermanentBan:
		return 0
	case RestrictionTemporaryBan:
		return 1
	case RestrictionWarning:
		return 3
	default:
		return 2
	}
}

// ValidTargetType reports whether s is one of the reportable target kinds.
func ValidTargetType(s string) bool {
	switch TargetType(s) {
	case TargetToilet, TargetReview, TargetComment, TargetUser:
		return true
	}
	return false
}

// ValidReason reports whether s is one of the closed set of report reasons.
func ValidReason(s string) bool {
	switch ReportReason(s) {
	case ReasonSpam, ReasonInappropriateContent, ReasonHarassment,
		ReasonHateSpeech, ReasonFakeInformation, ReasonCommercialSpam,
		ReasonPrivacyViolation, ReasonWrongLocation, ReasonOther:
		return true
	}
	return false
}

// ValidViolationType reports whether s is one of the closed violation types.
func ValidViolationType(s string) bool {
	switch ViolationType(s) {
	case ViolationSpamPosting, ViolationInappropriateContent,
		ViolationHarassment, ViolationFakeInformation,
		ViolationMultipleAccounts, ViolationVoteManipulation,
		ViolationCommercialSpam:
		return true
	}
	return false
}

// ValidAction reports whether s is a gateable action class.
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionPost, ActionComment, ActionReview, ActionVote:
		return true
	}
	return false
}
