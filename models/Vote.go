package models

import "gorm.io/gorm"

const (
	VoteHelpful    = "helpful"
	VoteNotHelpful = "not_helpful"
)

// ReviewVote tracks helpful/not-helpful votes. One row per (review, user);
// the unique pair is enforced by a partial index created at migration time.
type ReviewVote struct {
	gorm.Model
	ReviewID uint    `json:"reviewID" gorm:"not null;index"`
	Review   *Review `json:"-" gorm:"foreignKey:ReviewID"`
	UserID   uint    `json:"userID" gorm:"not null;index"`
	User     *User   `json:"-" gorm:"foreignKey:UserID"`
	VoteType string  `json:"voteType" gorm:"size:20;not null;index"` // helpful, not_helpful
}

func ValidVoteType(voteType string) bool {
	return voteType == VoteHelpful || voteType == VoteNotHelpful
}
