package report

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/user"
)

// EmployeeLister is the slice of the user repository the aggregator needs.
type EmployeeLister interface {
	ListEmployees() ([]*user.User, error)
}

// AttendanceReader is the slice of the attendance repository the aggregator
// needs.
type AttendanceReader interface {
	ListByDate(date string) ([]*attendance.Record, error)
	ListByDateRange(from, to string) ([]*attendance.Record, error)
}

type ServiceAPI interface {
	EmployeeSnapshot() (*SnapshotResponse, error)
	WeeklyTrend(days int) (*TrendResponse, error)
}

type Service struct {
	users      EmployeeLister
	attendance AttendanceReader
	policy     *attendance.Policy
	logger     *slog.Logger

	now func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(users EmployeeLister, att AttendanceReader, policy *attendance.Policy, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		users:      users,
		attendance: att,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EmployeeSnapshot joins every employee account against today's records.
// Employees with no record default to absent rather than being dropped, so
// the dashboard always shows the full roster.
func (s *Service) EmployeeSnapshot() (*SnapshotResponse, error) {
	date := s.policy.DateKey(s.now())

	employees, err := s.users.ListEmployees()
	if err != nil {
		s.logger.Error("snapshot: list employees failed", "error", err)
		return nil, internal.NewInternalError("could not build snapshot", err)
	}

	records, err := s.attendance.ListByDate(date)
	if err != nil {
		s.logger.Error("snapshot: list records failed", "date", date, "error", err)
		return nil, internal.NewInternalError("could not build snapshot", err)
	}

	byUser := make(map[int64]*attendance.Record, len(records))
	for _, rec := range records {
		byUser[rec.UserID] = rec
	}

	rows := make([]SnapshotRow, 0, len(employees))
	for _, emp := range employees {
		row := SnapshotRow{
			UserID:     emp.ID,
			Name:       emp.Name,
			EmployeeID: emp.EmployeeID,
			Department: emp.Department,
			Status:     attendance.StatusAbsent,
		}
		if rec, ok := byUser[emp.ID]; ok {
			row.Status = rec.Status
			row.CheckInTime = rec.CheckInTime
			row.CheckOutTime = rec.CheckOutTime
			row.TotalHours = rec.TotalHours
		}
		rows = append(rows, row)
	}

	return &SnapshotResponse{Date: date, Employees: rows}, nil
}

const (
	defaultTrendDays = 7
	maxTrendDays     = 31
)

// WeeklyTrend counts explicit records per day for the window ending today,
// oldest day first. A day with no records at all yields zero in both
// buckets; the series never infers absence from missing rows.
func (s *Service) WeeklyTrend(days int) (*TrendResponse, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	now := s.now().In(s.policy.Location())
	from := now.AddDate(0, 0, -(days - 1))

	fromKey := s.policy.DateKey(from)
	toKey := s.policy.DateKey(now)

	records, err := s.attendance.ListByDateRange(fromKey, toKey)
	if err != nil {
		s.logger.Error("trend: list records failed", "from", fromKey, "to", toKey, "error", err)
		return nil, internal.NewInternalError("could not build trend", err)
	}

	type counts struct{ present, absent int }
	byDate := make(map[string]*counts, days)
	for _, rec := range records {
		c, ok := byDate[rec.Date]
		if !ok {
			c = &counts{}
			byDate[rec.Date] = c
		}
		switch rec.Status {
		case attendance.StatusPresent, attendance.StatusLate, attendance.StatusHalfDay:
			c.present++
		case attendance.StatusAbsent:
			c.absent++
		}
	}

	trend := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		key := s.policy.DateKey(day)
		point := TrendPoint{
			Date: key,
			Day:  day.Format("Mon"),
		}
		if c, ok := byDate[key]; ok {
			point.Present = c.present
			point.Absent = c.absent
		}
		trend = append(trend, point)
	}

	return &TrendResponse{Days: days, Trend: trend}, nil
}
