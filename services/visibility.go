package services

import (
	"property-reviews-server/models"

	"gorm.io/gorm"
)

// Viewer identifies who is looking at content. The zero value is an
// anonymous visitor.
type Viewer struct {
	ID            uint
	Staff         bool
	Authenticated bool
}

// VisibleReviews narrows a review query to what the viewer may see.
// Staff see everything. Everyone else sees approved reviews whose author is
// not suspended; reviews with no author (deleted accounts) stay visible.
// Authors always see their own reviews regardless of approval state.
func VisibleReviews(db *gorm.DB, viewer Viewer) *gorm.DB {
	if viewer.Staff {
		return db.Model(&models.Review{})
	}

	suspended := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.User{}).
		Select("id").
		Where("is_suspended = ?", true)

	query := db.Model(&models.Review{}).
		Where("user_id IS NULL OR user_id NOT IN (?)", suspended)

	if viewer.Authenticated {
		return query.Where("is_approved = ? OR user_id = ?", true, viewer.ID)
	}
	return query.Where("is_approved = ?", true)
}

// VisibleReplies applies the same author-suspension and approval rules to
// replies.
func VisibleReplies(db *gorm.DB, viewer Viewer) *gorm.DB {
	if viewer.Staff {
		return db.Model(&models.Reply{})
	}

	suspended := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.User{}).
		Select("id").
		Where("is_suspended = ?", true)

	query := db.Model(&models.Reply{}).
		Where("user_id IS NULL OR user_id NOT IN (?)", suspended)

	if viewer.Authenticated {
		return query.Where("is_approved = ? OR user_id = ?", true, viewer.ID)
	}
	return query.Where("is_approved = ?", true)
}

// VisibleProperties hides listings created by suspended accounts from
// public views. Ownerless properties always show.
func VisibleProperties(db *gorm.DB, viewer Viewer) *gorm.DB {
	if viewer.Staff {
		return db.Model(&models.Property{})
	}

	suspended := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.User{}).
		Select("id").
		Where("is_suspended = ?", true)

	return db.Model(&models.Property{}).
		Where("created_by_id IS NULL OR created_by_id NOT IN (?)", suspended)
}

// PropertyVisibleTo is the single-row form of VisibleProperties.
func PropertyVisibleTo(db *gorm.DB, property *models.Property, viewer Viewer) bool {
	if viewer.Staff || property.CreatedByID == nil {
		return true
	}
	var owner models.User
	if err := db.Select("id, is_suspended").First(&owner, *property.CreatedByID).Error; err != nil {
		return true
	}
	return !owner.IsSuspended
}

// ReviewVisibleTo reports whether a single loaded review is visible to the
// viewer. Used on detail endpoints after the row is already fetched.
func ReviewVisibleTo(db *gorm.DB, review *models.Review, viewer Viewer) bool {
	if viewer.Staff {
		return true
	}
	if review.UserID != nil {
		var author models.User
		if err := db.Select("id, is_suspended").First(&author, *review.UserID).Error; err == nil && author.IsSuspended {
			return false
		}
	}
	if !review.IsApproved {
		return viewer.Authenticated && review.UserID != nil && *review.UserID == viewer.ID
	}
	return true
}

// RatingSummary is the aggregate block attached to property responses.
// Averages are computed over the viewer-visible scope only, so a suspension
// immediately moves the numbers.
type RatingSummary struct {
	AverageRating float64     `json:"averageRating"`
	ReviewCount   int64       `json:"reviewCount"`
	Distribution  map[int]int `json:"distribution"`
}

// PropertyRatingSummary recomputes the aggregate over visible reviews.
func PropertyRatingSummary(db *gorm.DB, propertyID uint, viewer Viewer) (RatingSummary, error) {
	summary := RatingSummary{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	type ratingRow struct {
		Rating int
		Count  int64
	}
	var rows []ratingRow
	err := VisibleReviews(db, viewer).
		Where("property_id = ?", propertyID).
		Select("rating, count(*) as count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return summary, err
	}

	var sum int64
	for _, row := range rows {
		if row.Rating < 1 || row.Rating > 5 {
			continue
		}
		summary.Distribution[row.Rating] = int(row.Count)
		summary.ReviewCount += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if summary.ReviewCount > 0 {
		summary.AverageRating = float64(sum) / float64(summary.ReviewCount)
	}
	return summary, nil
}

// VoteCounts tallies helpful and not-helpful votes for a review.
type VoteCounts struct {
	Helpful    int64 `json:"helpful"`
	NotHelpful int64 `json:"notHelpful"`
}

func ReviewVoteCounts(db *gorm.DB, reviewID uint) (VoteCounts, error) {
	var counts VoteCounts
	err := db.Model(&models.ReviewVote{}).
		Where("review_id = ? AND vote_type = ?", reviewID, models.VoteHelpful).
		Count(&counts.Helpful).Error
	if err != nil {
		return counts, err
	}
	err = db.Model(&models.ReviewVote{}).
		Where("review_id = ? AND vote_type = ?", reviewID, models.VoteNotHelpful).
		Count(&counts.NotHelpful).Error
	return counts, err
}
