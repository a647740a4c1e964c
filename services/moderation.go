package services

import (
	"time"

	"property-reviews-server/models"

	"gorm.io/gorm"
)

// FlagOnReport marks the reported review. Already-flagged reviews keep their
// original reason; reporting is idempotent with respect to the flag.
func FlagOnReport(db *gorm.DB, reviewID uint, reason string) error {
	display, ok := models.ReportReasons[reason]
	if !ok {
		display = reason
	}
	return db.Model(&models.Review{}).
		Where("id = ? AND is_flagged = ?", reviewID, false).
		Updates(map[string]interface{}{
			"is_flagged":     true,
			"flagged_reason": "Reported: " + display,
		}).Error
}

// ResolveReport closes a report, recording who resolved it and when.
func ResolveReport(db *gorm.DB, report *models.ReviewReport, staffID uint) error {
	now := time.Now()
	report.IsResolved = true
	report.ResolvedByID = &staffID
	report.ResolvedAt = &now
	return db.Model(report).Updates(map[string]interface{}{
		"is_resolved":    true,
		"resolved_by_id": staffID,
		"resolved_at":    now,
	}).Error
}

// ReopenReport reverses a resolution, clearing resolver and timestamp.
func ReopenReport(db *gorm.DB, report *models.ReviewReport) error {
	report.IsResolved = false
	report.ResolvedByID = nil
	report.ResolvedAt = nil
	return db.Model(report).Updates(map[string]interface{}{
		"is_resolved":    false,
		"resolved_by_id": nil,
		"resolved_at":    nil,
	}).Error
}

// UnflagReview clears the flag and its reason. Open reports against the
// review remain open; unflagging is a content decision, not a report one.
func UnflagReview(db *gorm.DB, reviewID uint) error {
	return db.Model(&models.Review{}).
		Where("id = ?", reviewID).
		Updates(map[string]interface{}{
			"is_flagged":     false,
			"flagged_reason": "",
		}).Error
}

// SetReviewApproval toggles whether the review is publicly visible.
// Rejected reviews stay in storage and remain visible to their author.
func SetReviewApproval(db *gorm.DB, reviewID uint, approved bool) error {
	return db.Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("is_approved", approved).Error
}

// DeleteReviewCascade soft-deletes the review and everything hanging off
// it. Runs in a transaction so a partial cascade never survives.
func DeleteReviewCascade(db *gorm.DB, reviewID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.OwnerResponse{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Review{}, reviewID).Error
	})
}

// DeletePropertyCascade removes a property with its images, reviews and the
// review trees beneath them. Returns the image rows so the caller can purge
// the blob store afterwards.
func DeletePropertyCascade(db *gorm.DB, propertyID uint) ([]models.PropertyImage, error) {
	var images []models.PropertyImage
	if err := db.Where("property_id = ?", propertyID).Find(&images).Error; err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var reviewIDs []uint
		if err := tx.Model(&models.Review{}).Where("property_id = ?", propertyID).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.Reply{}).Error; err != nil {
				return err
			}
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.ReviewVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.ReviewReport{}).Error; err != nil {
				return err
			}
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.OwnerResponse{}).Error; err != nil {
				return err
			}
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("property_id = ?", propertyID).Delete(&models.Review{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, propertyID).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// ToggleVote applies the vote rules: a repeated vote of the same type
// removes the vote, a vote of the other type replaces it, and a fresh vote
// inserts. Returns the resulting vote, nil when the toggle removed it.
func ToggleVote(db *gorm.DB, reviewID, userID uint, voteType string) (*models.ReviewVote, error) {
	var existing models.ReviewVote
	err := db.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		vote := models.ReviewVote{ReviewID: reviewID, UserID: userID, VoteType: voteType}
		if err := db.Create(&vote).Error; err != nil {
			return nil, err
		}
		return &vote, nil
	}

	if existing.VoteType == voteType {
		if err := db.Delete(&existing).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	existing.VoteType = voteType
	if err := db.Model(&existing).Update("vote_type", voteType).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// SuspendUser toggles suspension. Suspending sets the timestamp, lifting
// clears it. Staff accounts cannot be suspended.
func SuspendUser(db *gorm.DB, user *models.User) error {
	if user.IsStaff() {
		return gorm.ErrInvalidData
	}
	if user.IsSuspended {
		user.IsSuspended = false
		user.SuspendedAt = nil
		return db.Model(user).Updates(map[string]interface{}{
			"is_suspended": false,
			"suspended_at": nil,
		}).Error
	}
	now := time.Now()
	user.IsSuspended = true
	user.SuspendedAt = &now
	return db.Model(user).Updates(map[string]interface{}{
		"is_suspended": true,
		"suspended_at": now,
	}).Error
}
