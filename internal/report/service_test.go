package report_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	"github.com/frahmantamala/attendance-tracker/internal/user"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

type mockEmployeeLister struct {
	employees []*user.User
	err       error
}

func (m *mockEmployeeLister) ListEmployees() ([]*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.employees, nil
}

type mockAttendanceReader struct {
	records []*attendance.Record
	err     error
}

func (m *mockAttendanceReader) ListByDate(date string) ([]*attendance.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*attendance.Record
	for _, rec := range m.records {
		if rec.Date == date {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockAttendanceReader) ListByDateRange(from, to string) ([]*attendance.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*attendance.Record
	for _, rec := range m.records {
		if rec.Date >= from && rec.Date <= to {
			result = append(result, rec)
		}
	}
	return result, nil
}

var _ = Describe("Report Service", func() {
	var (
		users *mockEmployeeLister
		att   *mockAttendanceReader
		svc   *report.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Monday, March 2nd 2026
	now := time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC)

	record := func(userID int64, date, status string) *attendance.Record {
		return &attendance.Record{UserID: userID, Date: date, Status: status}
	}

	newService := func() *report.Service {
		policy, err := attendance.NewPolicy("UTC", "09:30", 4)
		Expect(err).NotTo(HaveOccurred())
		return report.NewService(users, att, policy, testLogger,
			report.WithClock(func() time.Time { return now }))
	}

	BeforeEach(func() {
		users = &mockEmployeeLister{
			employees: []*user.User{
				{ID: 1, Name: "Andi Pratama", EmployeeID: "EMP-001", Department: "engineering"},
				{ID: 2, Name: "Budi Santoso", EmployeeID: "EMP-002", Department: "engineering"},
				{ID: 3, Name: "Citra Dewi", EmployeeID: "EMP-003", Department: "sales"},
				{ID: 4, Name: "Dian Lestari", EmployeeID: "EMP-004", Department: "finance"},
				{ID: 5, Name: "Eko Wijaya", EmployeeID: "EMP-005", Department: "finance"},
			},
		}
		att = &mockAttendanceReader{}
		svc = newService()
	})

	Describe("EmployeeSnapshot", func() {
		It("defaults employees without a record to absent", func() {
			att.records = []*attendance.Record{
				record(1, "2026-03-02", attendance.StatusPresent),
				record(2, "2026-03-02", attendance.StatusLate),
				record(3, "2026-03-02", attendance.StatusHalfDay),
			}

			snapshot, err := svc.EmployeeSnapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.Date).To(Equal("2026-03-02"))
			Expect(snapshot.Employees).To(HaveLen(5))

			byID := make(map[int64]report.SnapshotRow)
			for _, row := range snapshot.Employees {
				byID[row.UserID] = row
			}
			Expect(byID[1].Status).To(Equal(attendance.StatusPresent))
			Expect(byID[2].Status).To(Equal(attendance.StatusLate))
			Expect(byID[3].Status).To(Equal(attendance.StatusHalfDay))
			Expect(byID[4].Status).To(Equal(attendance.StatusAbsent))
			Expect(byID[5].Status).To(Equal(attendance.StatusAbsent))
		})

		It("ignores records from other days", func() {
			att.records = []*attendance.Record{
				record(1, "2026-03-01", attendance.StatusPresent),
			}

			snapshot, err := svc.EmployeeSnapshot()
			Expect(err).NotTo(HaveOccurred())
			for _, row := range snapshot.Employees {
				Expect(row.Status).To(Equal(attendance.StatusAbsent))
			}
		})

		It("keeps the roster order stable", func() {
			snapshot, err := svc.EmployeeSnapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.Employees[0].Name).To(Equal("Andi Pratama"))
			Expect(snapshot.Employees[4].Name).To(Equal("Eko Wijaya"))
		})
	})

	Describe("WeeklyTrend", func() {
		It("returns one point per day, oldest first", func() {
			trend, err := svc.WeeklyTrend(7)
			Expect(err).NotTo(HaveOccurred())
			Expect(trend.Days).To(Equal(7))
			Expect(trend.Trend).To(HaveLen(7))
			Expect(trend.Trend[0].Date).To(Equal("2026-02-24"))
			Expect(trend.Trend[6].Date).To(Equal("2026-03-02"))
			Expect(trend.Trend[6].Day).To(Equal("Mon"))
		})

		It("counts present, late and half-day as present and absent as absent", func() {
			att.records = []*attendance.Record{
				record(1, "2026-03-02", attendance.StatusPresent),
				record(2, "2026-03-02", attendance.StatusLate),
				record(3, "2026-03-02", attendance.StatusHalfDay),
				record(4, "2026-03-02", attendance.StatusAbsent),
			}

			trend, err := svc.WeeklyTrend(7)
			Expect(err).NotTo(HaveOccurred())

			today := trend.Trend[6]
			Expect(today.Present).To(Equal(3))
			Expect(today.Absent).To(Equal(1))
		})

		It("yields zero in both buckets for a day with no explicit records", func() {
			att.records = []*attendance.Record{
				record(1, "2026-03-01", attendance.StatusPresent),
			}

			trend, err := svc.WeeklyTrend(7)
			Expect(err).NotTo(HaveOccurred())

			// 2026-02-28 has no records; missing employees land in neither bucket
			for _, point := range trend.Trend {
				if point.Date == "2026-02-28" {
					Expect(point.Present).To(Equal(0))
					Expect(point.Absent).To(Equal(0))
				}
			}
		})

		It("defaults to seven days for non-positive input", func() {
			trend, err := svc.WeeklyTrend(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(trend.Days).To(Equal(7))
		})

		It("clamps oversized windows", func() {
			trend, err := svc.WeeklyTrend(365)
			Expect(err).NotTo(HaveOccurred())
			Expect(trend.Days).To(Equal(31))
			Expect(trend.Trend).To(HaveLen(31))
		})
	})
})
