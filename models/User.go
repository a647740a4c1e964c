package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex;not null"`
	Password            string         `json:"-"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, staff
	EmailVerified       bool           `json:"emailVerified" gorm:"default:false"`
	IsSuspended         bool           `json:"isSuspended" gorm:"default:false;index"`
	SuspendedAt         *time.Time     `json:"suspendedAt"`
	AvatarURL           string         `json:"avatarURL"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Properties          []Property     `json:"properties,omitempty" gorm:"foreignKey:CreatedByID"`
	Reviews             []Review       `json:"reviews,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// FullName returns the display name, falling back to the email local part.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
