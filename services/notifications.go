package services

import (
	"fmt"
	"log"

	"property-reviews-server/models"

	"gorm.io/gorm"
)

// notify inserts a notification row. Failures are logged and dropped;
// notifications never fail the action that produced them.
func notify(db *gorm.DB, n models.Notification) {
	if err := db.Create(&n).Error; err != nil {
		log.Printf("notifications: create failed for recipient %d (%s): %v", n.RecipientID, n.Type, err)
	}
}

// actorDisplayName resolves how the actor appears in notification text.
func actorDisplayName(authorName string, isAnonymous bool) string {
	if isAnonymous || authorName == "" {
		return "Someone"
	}
	return authorName
}

// NotifyReviewPosted tells the property owner a review landed on their
// property. Reviewing your own property stays silent.
func NotifyReviewPosted(db *gorm.DB, review *models.Review, property *models.Property) {
	if property.CreatedByID == nil {
		return
	}
	if review.UserID != nil && *review.UserID == *property.CreatedByID {
		return
	}
	actor := actorDisplayName(review.AuthorName, review.IsAnonymous)
	notify(db, models.Notification{
		RecipientID: *property.CreatedByID,
		Type:        models.NotificationPropertyReviewed,
		Title:       "New review on your property",
		Message:     fmt.Sprintf("%s left a %d-star review on %s", actor, review.Rating, property.FullAddress()),
		PropertyID:  &property.ID,
		ReviewID:    &review.ID,
	})
}

// NotifyReplyPosted notifies exactly one recipient: the parent reply's
// author when the reply is nested, otherwise the review author. Authors are
// never notified about their own replies.
func NotifyReplyPosted(db *gorm.DB, reply *models.Reply, review *models.Review) {
	actor := actorDisplayName(reply.AuthorName, reply.IsAnonymous)

	if reply.ParentReplyID != nil {
		var parent models.Reply
		if err := db.First(&parent, *reply.ParentReplyID).Error; err != nil || parent.UserID == nil {
			return
		}
		if reply.UserID != nil && *reply.UserID == *parent.UserID {
			return
		}
		notify(db, models.Notification{
			RecipientID: *parent.UserID,
			Type:        models.NotificationReplyToReply,
			Title:       "New reply to your comment",
			Message:     fmt.Sprintf("%s replied to your comment", actor),
			ReviewID:    &review.ID,
			ReplyID:     &reply.ID,
		})
		return
	}

	if review.UserID == nil {
		return
	}
	if reply.UserID != nil && *reply.UserID == *review.UserID {
		return
	}
	notify(db, models.Notification{
		RecipientID: *review.UserID,
		Type:        models.NotificationReplyPosted,
		Title:       "New reply to your review",
		Message:     fmt.Sprintf("%s replied to your review", actor),
		PropertyID:  &review.PropertyID,
		ReviewID:    &review.ID,
		ReplyID:     &reply.ID,
	})
}

// NotifyOwnerResponse tells the review author the owner responded.
func NotifyOwnerResponse(db *gorm.DB, response *models.OwnerResponse, review *models.Review) {
	if review.UserID == nil {
		return
	}
	if response.CreatedByID != nil && *response.CreatedByID == *review.UserID {
		return
	}
	notify(db, models.Notification{
		RecipientID: *review.UserID,
		Type:        models.NotificationOwnerResponse,
		Title:       "The owner responded to your review",
		Message:     fmt.Sprintf("%s responded to your review", response.OwnerName),
		PropertyID:  &review.PropertyID,
		ReviewID:    &review.ID,
	})
}

// NotifyReportResolved tells the reporter their report was handled.
// Anonymous reports have nobody to notify.
func NotifyReportResolved(db *gorm.DB, report *models.ReviewReport) {
	if report.ReportedByID == nil {
		return
	}
	if report.ResolvedByID != nil && *report.ResolvedByID == *report.ReportedByID {
		return
	}
	notify(db, models.Notification{
		RecipientID: *report.ReportedByID,
		Type:        models.NotificationReportResolved,
		Title:       "Your report was reviewed",
		Message:     "A moderator reviewed the content you reported. Thank you for helping keep reviews trustworthy.",
		ReviewID:    &report.ReviewID,
	})
}

// UnreadCount returns the badge number for the recipient.
func UnreadCount(db *gorm.DB, recipientID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
