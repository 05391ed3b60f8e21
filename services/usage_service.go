package services

import (
	"errors"
	"math"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

var (
	// ErrInvalidHours rejects negative, NaN/Inf, or >24h-per-day values.
	ErrInvalidHours = errors.New("hours_used must be between 0 and 24")
	// ErrInvalidDate rejects dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// UsageService is the single write path for usage records. One row per
// (device, date); writing the same key again overwrites it.
type UsageService struct {
	db      *gorm.DB
	devices *DeviceService
}

func NewUsageService(db *gorm.DB, devices *DeviceService) *UsageService {
	return &UsageService{db: db, devices: devices}
}

func dayStartLocal(t time.Time) time.Time {
	loc := time.Local
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

func validHours(h float64) bool {
	return !math.IsNaN(h) && !math.IsInf(h, 0) && h >= 0 && h <= 24
}

// RecordToday upserts today's usage for the device.
func (s *UsageService) RecordToday(userID, deviceID uint, hours float64) (*models.UsageRecord, error) {
	return s.record(userID, deviceID, dayStartLocal(time.Now()), hours)
}

// RecordForDate parses a YYYY-MM-DD date and upserts usage for that day.
func (s *UsageService) RecordForDate(userID, deviceID uint, dateStr string, hours float64) (*models.UsageRecord, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.record(userID, deviceID, dayStartLocal(date), hours)
}

func (s *UsageService) record(userID, deviceID uint, date time.Time, hours float64) (*models.UsageRecord, error) {
	if !validHours(hours) {
		return nil, ErrInvalidHours
	}
	if _, err := s.devices.FindForUser(userID, deviceID); err != nil {
		return nil, err
	}

	rec := models.UsageRecord{
		DeviceID:  deviceID,
		Date:      date,
		HoursUsed: hours,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Upsert by (device_id, date): last write wins. Assign takes a
		// map so an explicit 0 hours still overwrites.
		return tx.
			Where("device_id = ? AND date = ?", deviceID, date).
			Assign(map[string]interface{}{"hours_used": hours}).
			FirstOrCreate(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
