package models

import "gorm.io/gorm"

// OwnerResponse is the property owner's single reply to a review.
type OwnerResponse struct {
	gorm.Model
	ReviewID    uint    `json:"reviewID" gorm:"not null;index"`
	Review      *Review `json:"-" gorm:"foreignKey:ReviewID"`
	CreatedByID *uint   `json:"createdByID"`
	CreatedBy   *User   `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
	Content     string  `json:"content" gorm:"type:text;not null"` // min 20 chars
	OwnerName   string  `json:"ownerName" gorm:"size:100;not null"`
	IsApproved  bool    `json:"isApproved" gorm:"default:true"`
	IsFlagged   bool    `json:"isFlagged" gorm:"default:false"`
}
