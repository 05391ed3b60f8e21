package services

import (
	"context"
	"math"
	"sort"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// AnalyticsService reads usage windows and folds them into the summary
// consumed by the insight generator and the dashboard widgets.
type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// DeviceUsageRow is one usage record joined with its device metadata.
type DeviceUsageRow struct {
	DeviceID  uint
	Name      string
	Category  string
	Rating    float64
	Unit      string
	Date      time.Time
	HoursUsed float64
}

// DeviceTotal is a device's consumption over a window: Σ hours × rating.
type DeviceTotal struct {
	DeviceID uint    `json:"device_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
	Unit     string  `json:"unit"`
	Total    float64 `json:"total"`
}

type UsageSummary struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`
	WindowDays int `json:"window_days"`

	TotalElectric float64 `json:"total_electric"` // kWh
	TotalWater    float64 `json:"total_water"`    // L
	TotalWaste    float64 `json:"total_waste"`    // kg

	Devices    []DeviceTotal `json:"devices"`     // all devices, input order
	TopDevices []DeviceTotal `json:"top_devices"` // up to 5, highest first
}

type DailyUsage struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// ---------- repository reads ----------

// ListUsageInWindow returns the user's usage rows for the closed interval
// [from, to], joined with device metadata.
func (s *AnalyticsService) ListUsageInWindow(ctx context.Context, userID uint, from, to time.Time) ([]DeviceUsageRow, error) {
	var rows []DeviceUsageRow
	err := s.db.WithContext(ctx).
		Table("usage_records ur").
		Joins("JOIN devices d ON d.id = ur.device_id").
		Where("d.user_id = ? AND ur.date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Where("ur.deleted_at IS NULL AND d.deleted_at IS NULL").
		Select("ur.device_id, d.name, d.category, d.rating, d.unit, ur.date, ur.hours_used").
		Order("ur.date DESC, d.name").
		Scan(&rows).Error
	return rows, err
}

// Summary aggregates the trailing window ending today. days=30 feeds the
// insight generator, days=7 the dashboard widgets.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, days int) (*UsageSummary, error) {
	to := dayStart(time.Now())
	from := to.AddDate(0, 0, -(days - 1))

	var devices []models.Device
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("category, name").
		Find(&devices).Error; err != nil {
		return nil, err
	}

	rows, err := s.ListUsageInWindow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := Aggregate(devices, rows)
	out.WindowDays = days
	out.Range.From = from.Format("2006-01-02")
	out.Range.To = to.Format("2006-01-02")
	return out, nil
}

// DeviceDailyUsage returns the dense per-day hours map for one device
// over the trailing window, zero-filled for days without a record.
func (s *AnalyticsService) DeviceDailyUsage(ctx context.Context, userID, deviceID uint, days int) ([]DailyUsage, error) {
	to := dayStart(time.Now())
	from := to.AddDate(0, 0, -(days - 1))

	var recs []models.UsageRecord
	if err := s.db.WithContext(ctx).
		Where("device_id = ? AND date BETWEEN ? AND ?", deviceID, from, dayEnd(to)).
		Order("date ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	idx := map[string]float64{}
	for _, r := range recs {
		idx[r.Date.Format("2006-01-02")] = r.HoursUsed
	}

	out := make([]DailyUsage, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		out = append(out, DailyUsage{Date: key, Hours: idx[key]})
	}
	return out, nil
}

// ---------- pure aggregation ----------

// Aggregate computes per-device and per-category totals and the top-5
// ranking. Devices with a category outside electric/water/waste still get
// a device total (and can rank) but contribute nothing to category
// totals; listings keep them so nothing silently disappears.
func Aggregate(devices []models.Device, rows []DeviceUsageRow) *UsageSummary {
	perDevice := map[uint]float64{}
	for _, r := range rows {
		perDevice[r.DeviceID] += r.HoursUsed * r.Rating
	}

	out := &UsageSummary{
		Devices:    make([]DeviceTotal, 0, len(devices)),
		TopDevices: []DeviceTotal{},
	}

	for _, d := range devices {
		total := round2(perDevice[d.ID])
		dt := DeviceTotal{
			DeviceID: d.ID,
			Name:     d.Name,
			Category: d.Category,
			Rating:   d.Rating,
			Unit:     d.Unit,
			Total:    total,
		}
		out.Devices = append(out.Devices, dt)

		switch d.Category {
		case models.CategoryElectric:
			out.TotalElectric += total
		case models.CategoryWater:
			out.TotalWater += total
		case models.CategoryWaste:
			out.TotalWaste += total
		}
	}

	out.TotalElectric = round2(out.TotalElectric)
	out.TotalWater = round2(out.TotalWater)
	out.TotalWaste = round2(out.TotalWaste)

	ranked := make([]DeviceTotal, len(out.Devices))
	copy(ranked, out.Devices)
	// stable: equal totals keep device input order
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	out.TopDevices = ranked

	return out
}

// ---------- internals ----------

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
