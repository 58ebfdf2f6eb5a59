package events

import (
	"fmt"
	"time"
)

const (
	EventTypeCheckedIn  = "attendance.checked_in"
	EventTypeCheckedOut = "attendance.checked_out"
)

// CheckedInEvent is published after a check-in record has been persisted.
type CheckedInEvent struct {
	BaseEvent
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	CheckInTime time.Time `json:"check_in_time"`
}

func NewCheckedInEvent(userID int64, userName, date, status string, checkInTime time.Time) CheckedInEvent {
	return CheckedInEvent{
		BaseEvent: BaseEvent{
			ID:        fmt.Sprintf("checkin-%d-%s", userID, date),
			Type:      EventTypeCheckedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"date":    date,
				"status":  status,
			},
		},
		UserID:      userID,
		UserName:    userName,
		Date:        date,
		Status:      status,
		CheckInTime: checkInTime,
	}
}

// CheckedOutEvent is published after a check-out mutation has been persisted.
type CheckedOutEvent struct {
	BaseEvent
	UserID       int64     `json:"user_id"`
	UserName     string    `json:"user_name"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	TotalHours   float64   `json:"total_hours"`
	CheckOutTime time.Time `json:"check_out_time"`
}

func NewCheckedOutEvent(userID int64, userName, date, status string, totalHours float64, checkOutTime time.Time) CheckedOutEvent {
	return CheckedOutEvent{
		BaseEvent: BaseEvent{
			ID:        fmt.Sprintf("checkout-%d-%s", userID, date),
			Type:      EventTypeCheckedOut,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":     userID,
				"date":        date,
				"status":      status,
				"total_hours": totalHours,
			},
		},
		UserID:       userID,
		UserName:     userName,
		Date:         date,
		Status:       status,
		TotalHours:   totalHours,
		CheckOutTime: checkOutTime,
	}
}
