package models

import "gorm.io/gorm"

type Property struct {
	gorm.Model
	Address      string          `json:"address" gorm:"size:255;not null"`
	City         string          `json:"city" gorm:"size:100;not null"`
	State        string          `json:"state" gorm:"size:50;not null"`
	Zip          string          `json:"zip" gorm:"size:20;not null"`
	PropertyType string          `json:"propertyType" gorm:"type:varchar(50);default:apartment"` // apartment, house, condo, townhouse, other
	Description  string          `json:"description" gorm:"type:text"`
	CreatedByID  *uint           `json:"createdByID" gorm:"index"` // nullable, owner may be deleted
	CreatedBy    *User           `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
	Images       []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID"`
	Reviews      []Review        `json:"reviews,omitempty" gorm:"foreignKey:PropertyID"`
}

var PropertyTypes = []string{"apartment", "house", "condo", "townhouse", "other"}

func (p *Property) FullAddress() string {
	return p.Address + ", " + p.City + ", " + p.State + " " + p.Zip
}
