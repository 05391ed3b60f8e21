package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt hash, never plaintext
	FullName string

	MFAEnabled bool
	MFACode    string

	ResetToken    string
	ResetTokenExp time.Time

	Devices []Device `gorm:"constraint:OnDelete:CASCADE"`
}
