package models

import (
	"time"

	"gorm.io/gorm"
)

// UsageRecord is one device's usage for one calendar day. Date is
// truncated to local midnight; the composite unique index backs the
// one-row-per-(device,day) invariant enforced by the ledger writer.
type UsageRecord struct {
	gorm.Model
	DeviceID  uint      `gorm:"uniqueIndex:idx_device_date;not null"`
	Date      time.Time `gorm:"uniqueIndex:idx_device_date;not null"`
	HoursUsed float64
}
