package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ToiletID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"toilet_id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Rating    int            `gorm:"not null" json:"rating"`
	Body      string         `gorm:"size:2000" json:"body,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Toilet    Toilet         `gorm:"foreignKey:ToiletID" json:"-"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"-"`
}

// ReviewVote is an up/down vote on a review, one per (review, voter).
type ReviewVote struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_votes_review_voter" json:"review_id"`
	VoterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_votes_review_voter" json:"voter_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Review    Review    `gorm:"foreignKey:ReviewID" json:"-"`
	Voter     User      `gorm:"foreignKey:VoterID" json:"-"`
}
