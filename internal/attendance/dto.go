package attendance

import "time"

// RecordResponse is the wire shape of an attendance day. Times are RFC 3339,
// the date key stays a plain YYYY-MM-DD string.
type RecordResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Date         string     `json:"date"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       string     `json:"status"`
	TotalHours   *float64   `json:"total_hours"`
}

func (r *Record) ToResponse() RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Date:         r.Date,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Status:       r.Status,
		TotalHours:   r.TotalHours,
	}
}

// TodayResponse wraps GET /attendance/today. Record is null when the caller
// has not checked in yet.
type TodayResponse struct {
	Date   string          `json:"date"`
	Record *RecordResponse `json:"record"`
}

type HistoryResponse struct {
	Records []RecordResponse `json:"records"`
}
