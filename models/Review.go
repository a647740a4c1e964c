package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	PropertyID    uint      `json:"propertyID" gorm:"not null;index"`
	Property      *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	UserID        *uint     `json:"userID" gorm:"index"` // nullable, author may be deleted
	User          *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Rating        int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Title         string    `json:"title" gorm:"size:200"`
	Content       string    `json:"content" gorm:"type:text"` // optional, min 50 chars when present
	ProsCons      string    `json:"prosCons" gorm:"size:500"`
	DateLivedFrom string    `json:"dateLivedFrom" gorm:"size:10"`
	DateLivedTo   string    `json:"dateLivedTo" gorm:"size:10"`
	AuthorName    string    `json:"authorName" gorm:"size:100"` // empty means anonymous
	IsAnonymous   bool      `json:"isAnonymous" gorm:"default:true"`
	IsApproved    bool      `json:"isApproved" gorm:"default:true"`
	IsFlagged     bool      `json:"isFlagged" gorm:"default:false;index"`
	FlaggedReason string    `json:"flaggedReason" gorm:"type:text"`
	Replies       []Reply   `json:"replies,omitempty" gorm:"foreignKey:ReviewID"`
}

var RatingLabels = map[int]string{
	1: "Very Poor",
	2: "Poor",
	3: "Fair",
	4: "Good",
	5: "Excellent",
}
