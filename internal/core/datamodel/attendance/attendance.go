package attendance

import "time"

// AttendanceRecord is one row per (user, calendar day). The composite unique
// index is what makes double check-in safe under concurrent requests; the
// repository maps the duplicate-key error back to the domain.
type AttendanceRecord struct {
	ID           int64      `gorm:"primaryKey"`
	UserID       int64      `gorm:"column:user_id;not null;uniqueIndex:idx_attendance_user_date"`
	Date         string     `gorm:"column:date;not null;uniqueIndex:idx_attendance_user_date"`
	CheckInTime  *time.Time `gorm:"column:check_in_time"`
	CheckOutTime *time.Time `gorm:"column:check_out_time"`
	Status       string     `gorm:"column:status;default:present"`
	TotalHours   *float64   `gorm:"column:total_hours"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
