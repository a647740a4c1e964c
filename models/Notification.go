package models

import "gorm.io/gorm"

const (
	NotificationReviewPosted     = "review_posted"
	NotificationReplyPosted      = "reply_posted"
	NotificationReplyToReply     = "reply_to_reply"
	NotificationOwnerResponse    = "owner_response"
	NotificationReportResolved   = "report_resolved"
	NotificationPropertyReviewed = "property_reviewed"
)

type Notification struct {
	gorm.Model
	RecipientID uint      `json:"recipientID" gorm:"not null;index:idx_notifications_recipient_read,priority:1"`
	Recipient   *User     `json:"-" gorm:"foreignKey:RecipientID"`
	Type        string    `json:"type" gorm:"size:50;not null"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	IsRead      bool      `json:"isRead" gorm:"default:false;index:idx_notifications_recipient_read,priority:2"`
	PropertyID  *uint     `json:"propertyID" gorm:"index"`
	Property    *Property `json:"-" gorm:"foreignKey:PropertyID"`
	ReviewID    *uint     `json:"reviewID" gorm:"index"`
	Review      *Review   `json:"-" gorm:"foreignKey:ReviewID"`
	ReplyID     *uint     `json:"replyID"`
	Reply       *Reply    `json:"-" gorm:"foreignKey:ReplyID"`
}
