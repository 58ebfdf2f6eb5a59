package attendance

import (
	"fmt"
	"math"
	"time"

	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusHalfDay = "half-day"
	StatusAbsent  = "absent"
)

// DateLayout is the canonical day key. One record exists per (user, DateLayout
// key), so everything that touches "today" goes through Policy.DateKey.
const DateLayout = "2006-01-02"

// Record is the domain view of a single attendance day.
type Record struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Date         string     `json:"date"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       string     `json:"status"`
	TotalHours   *float64   `json:"total_hours"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Policy holds the attendance business thresholds resolved from config.
// All day boundaries and lateness comparisons happen in loc.
type Policy struct {
	loc          *time.Location
	lateHour     int
	lateMinute   int
	halfDayHours float64
}

func NewPolicy(timezone, lateThreshold string, halfDayHours float64) (*Policy, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	t, err := time.Parse("15:04", lateThreshold)
	if err != nil {
		return nil, fmt.Errorf("parse late threshold: %w", err)
	}
	return &Policy{
		loc:          loc,
		lateHour:     t.Hour(),
		lateMinute:   t.Minute(),
		halfDayHours: halfDayHours,
	}, nil
}

func (p *Policy) Location() *time.Location {
	return p.loc
}

func (p *Policy) DateKey(t time.Time) string {
	return t.In(p.loc).Format(DateLayout)
}

// CheckInStatus classifies a check-in instant. Arriving at the threshold
// exactly still counts as present; only strictly after is late.
func (p *Policy) CheckInStatus(t time.Time) string {
	local := t.In(p.loc)
	threshold := time.Date(local.Year(), local.Month(), local.Day(), p.lateHour, p.lateMinute, 0, 0, p.loc)
	if local.After(threshold) {
		return StatusLate
	}
	return StatusPresent
}

// CheckOutStatus finalizes the day's status given the worked hours. Short
// days override whatever the check-in decided, including late.
func (p *Policy) CheckOutStatus(checkInStatus string, totalHours float64) string {
	if totalHours < p.halfDayHours {
		return StatusHalfDay
	}
	return checkInStatus
}

// RoundHours rounds worked hours to two decimal places, the precision
// stored and reported everywhere.
func RoundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func ToDataModel(rec *Record) *attendanceDatamodel.AttendanceRecord {
	return &attendanceDatamodel.AttendanceRecord{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Date:         rec.Date,
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: rec.CheckOutTime,
		Status:       rec.Status,
		TotalHours:   rec.TotalHours,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func FromDataModel(dm *attendanceDatamodel.AttendanceRecord) *Record {
	return &Record{
		ID:           dm.ID,
		UserID:       dm.UserID,
		Date:         dm.Date,
		CheckInTime:  dm.CheckInTime,
		CheckOutTime: dm.CheckOutTime,
		Status:       dm.Status,
		TotalHours:   dm.TotalHours,
		CreatedAt:    dm.CreatedAt,
		UpdatedAt:    dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*attendanceDatamodel.AttendanceRecord) []*Record {
	records := make([]*Record, len(dms))
	for i, dm := range dms {
		records[i] = FromDataModel(dm)
	}
	return records
}
