package models

import "gorm.io/gorm"

// PropertyImage is one of up to six ordered images stored in the blob store.
// PublicID is the blob store reference used for delete-by-reference.
type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"not null;index"`
	PublicID   string `json:"publicID" gorm:"size:255;not null"`
	URL        string `json:"url" gorm:"size:512"`
	SortOrder  int    `json:"sortOrder" gorm:"default:0"`
}

const MaxImagesPerProperty = 6
