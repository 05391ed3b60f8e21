package services

import (
	"errors"
	"strings"

	"backend/models"

	"gorm.io/gorm"
)

// ErrDeviceNotFound covers both "no such device" and "someone else's
// device" so responses never reveal which one it was.
var ErrDeviceNotFound = errors.New("device not found")

type DeviceService struct{ db *gorm.DB }

func NewDeviceService(db *gorm.DB) *DeviceService { return &DeviceService{db: db} }

type CreateDeviceInput struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Rating   float64 `json:"rating" binding:"required"`
	Unit     string  `json:"unit" binding:"required"`
}

func (s *DeviceService) Create(userID uint, in CreateDeviceInput) (*models.Device, error) {
	dev := models.Device{
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		Category: strings.ToLower(strings.TrimSpace(in.Category)),
		Rating:   in.Rating,
		Unit:     strings.TrimSpace(in.Unit),
	}
	if dev.Name == "" {
		return nil, errors.New("device name is required")
	}
	if dev.Rating < 0 {
		return nil, errors.New("rating must be non-negative")
	}
	if err := s.db.Create(&dev).Error; err != nil {
		return nil, err
	}
	return &dev, nil
}

// ListForUser returns the user's devices ordered by category then name,
// matching the order the insight prompt expects.
func (s *DeviceService) ListForUser(userID uint) ([]models.Device, error) {
	var devices []models.Device
	err := s.db.
		Where("user_id = ?", userID).
		Order("category, name").
		Find(&devices).Error
	return devices, err
}

// FindForUser loads one device, enforcing ownership.
func (s *DeviceService) FindForUser(userID, deviceID uint) (*models.Device, error) {
	var dev models.Device
	err := s.db.Where("id = ? AND user_id = ?", deviceID, userID).First(&dev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &dev, nil
}

// Delete removes the device and all its usage records atomically.
func (s *DeviceService) Delete(userID, deviceID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var dev models.Device
		if err := tx.Where("id = ? AND user_id = ?", deviceID, userID).First(&dev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeviceNotFound
			}
			return err
		}
		if err := tx.Where("device_id = ?", dev.ID).Delete(&models.UsageRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dev).Error
	})
}
