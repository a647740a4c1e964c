package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailVerification stores one-time 6-digit codes sent at registration.
type EmailVerification struct {
	gorm.Model
	UserID    uint      `json:"userID" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Code      string    `json:"-" gorm:"size:6;not null"`
	IsUsed    bool      `json:"isUsed" gorm:"default:false"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (v *EmailVerification) IsValid() bool {
	return !v.IsUsed && time.Now().Before(v.ExpiresAt)
}
