package models

import (
	"gorm.io/gorm"
)

// Device categories. Anything else is stored as-is but contributes
// nothing to category totals (see services.AnalyticsService).
const (
	CategoryElectric = "electric"
	CategoryWater    = "water"
	CategoryWaste    = "waste"
)

type Device struct {
	gorm.Model
	UserID   uint    `gorm:"index;not null"`
	Name     string  `gorm:"not null"`
	Category string  `gorm:"size:16;not null"` // electric | water | waste
	Rating   float64 // kW for electric, L/h for water, kg/h for waste
	Unit     string  `gorm:"size:16"`

	UsageRecords []UsageRecord `gorm:"constraint:OnDelete:CASCADE"`
}
