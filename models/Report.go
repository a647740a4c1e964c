package models

import (
	"time"

	"gorm.io/gorm"
)

type ReviewReport struct {
	gorm.Model
	ReviewID     uint       `json:"reviewID" gorm:"not null;index"`
	Review       *Review    `json:"review,omitempty" gorm:"foreignKey:ReviewID"`
	ReportedByID *uint      `json:"reportedByID" gorm:"index"`
	ReportedBy   *User      `json:"reportedBy,omitempty" gorm:"foreignKey:ReportedByID"`
	Reason       string     `json:"reason" gorm:"size:50;not null"`
	Description  string     `json:"description" gorm:"size:500;not null"`
	IsResolved   bool       `json:"isResolved" gorm:"default:false;index"`
	ResolvedByID *uint      `json:"resolvedByID"`
	ResolvedBy   *User      `json:"resolvedBy,omitempty" gorm:"foreignKey:ResolvedByID"`
	ResolvedAt   *time.Time `json:"resolvedAt"`
}

var ReportReasons = map[string]string{
	"personal_attack":   "Personal Attack or Insult",
	"off_topic":         "Not About the Property",
	"false_information": "False or Misleading Information",
	"spam":              "Spam or Advertisement",
	"harassment":        "Harassment or Bullying",
	"other":             "Other Violation",
}

func ValidReportReason(reason string) bool {
	_, ok := ReportReasons[reason]
	return ok
}
