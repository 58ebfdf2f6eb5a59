package report

import "time"

// SnapshotRow is one employee's status for a single day. Employees without a
// record for the day appear with status absent and nil times.
type SnapshotRow struct {
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name"`
	EmployeeID   string     `json:"employee_id"`
	Department   string     `json:"department"`
	Status       string     `json:"status"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	TotalHours   *float64   `json:"total_hours"`
}

type SnapshotResponse struct {
	Date      string        `json:"date"`
	Employees []SnapshotRow `json:"employees"`
}

// TrendPoint is one day in the trend series. Present counts explicit
// present, late and half-day records; Absent counts explicit absent records.
// Employees with no record for the day land in neither bucket.
type TrendPoint struct {
	Date    string `json:"date"`
	Day     string `json:"day"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

type TrendResponse struct {
	Days  int          `json:"days"`
	Trend []TrendPoint `json:"trend"`
}
