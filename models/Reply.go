package models

import "gorm.io/gorm"

// Reply is a threaded comment on a review. ParentReplyID nests replies one
// level in the UI; storage does not limit depth.
type Reply struct {
	gorm.Model
	ReviewID      uint    `json:"reviewID" gorm:"not null;index"`
	Review        *Review `json:"-" gorm:"foreignKey:ReviewID"`
	ParentReplyID *uint   `json:"parentReplyID" gorm:"index"`
	ParentReply   *Reply  `json:"-" gorm:"foreignKey:ParentReplyID"`
	UserID        *uint   `json:"userID" gorm:"index"`
	User          *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Content       string  `json:"content" gorm:"type:text;not null"` // min 10 chars
	AuthorName    string  `json:"authorName" gorm:"size:100"`
	IsAnonymous   bool    `json:"isAnonymous" gorm:"default:true"`
	IsApproved    bool    `json:"isApproved" gorm:"default:true"`
}

func (r *Reply) IsNested() bool {
	return r.ParentReplyID != nil
}
