package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	attendancePostgres "github.com/frahmantamala/attendance-tracker/internal/attendance/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAttendancePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attendance Postgres Suite")
}

// SQLiteAttendanceRecord mirrors the production model for in-memory tests
type SQLiteAttendanceRecord struct {
	ID           int64      `gorm:"primaryKey"`
	UserID       int64      `gorm:"column:user_id;not null;uniqueIndex:idx_attendance_user_date"`
	Date         string     `gorm:"column:date;not null;uniqueIndex:idx_attendance_user_date"`
	CheckInTime  *time.Time `gorm:"column:check_in_time"`
	CheckOutTime *time.Time `gorm:"column:check_out_time"`
	Status       string     `gorm:"column:status;default:present"`
	TotalHours   *float64   `gorm:"column:total_hours"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (SQLiteAttendanceRecord) TableName() string {
	return "attendance_records"
}

var _ = Describe("Attendance PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *attendancePostgres.Repository
	)

	checkIn := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	newRecord := func(userID int64, date string) *attendance.Record {
		in := checkIn
		return &attendance.Record{
			UserID:      userID,
			Date:        date,
			CheckInTime: &in,
			Status:      attendance.StatusPresent,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteAttendanceRecord{})
		Expect(err).NotTo(HaveOccurred())

		repo = attendancePostgres.NewRepository(db)
	})

	Describe("Create", func() {
		It("should create a record and assign an ID", func() {
			rec := newRecord(1, "2026-03-02")
			err := repo.Create(rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.ID).To(BeNumerically(">", 0))
		})

		It("should map a duplicate (user, date) insert to ErrDuplicateRecord", func() {
			err := repo.Create(newRecord(1, "2026-03-02"))
			Expect(err).NotTo(HaveOccurred())

			err = repo.Create(newRecord(1, "2026-03-02"))
			Expect(err).To(MatchError(attendance.ErrDuplicateRecord))
		})

		It("should allow the same date for different users", func() {
			Expect(repo.Create(newRecord(1, "2026-03-02"))).To(Succeed())
			Expect(repo.Create(newRecord(2, "2026-03-02"))).To(Succeed())
		})

		It("should allow the same user on different dates", func() {
			Expect(repo.Create(newRecord(1, "2026-03-02"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-03"))).To(Succeed())
		})
	})

	Describe("GetByUserAndDate", func() {
		It("should return nil without error when no record exists", func() {
			rec, err := repo.GetByUserAndDate(1, "2026-03-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).To(BeNil())
		})

		It("should return the stored record", func() {
			Expect(repo.Create(newRecord(1, "2026-03-02"))).To(Succeed())

			rec, err := repo.GetByUserAndDate(1, "2026-03-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).NotTo(BeNil())
			Expect(rec.Status).To(Equal(attendance.StatusPresent))
			Expect(rec.CheckInTime).NotTo(BeNil())
		})
	})

	Describe("CompleteCheckout", func() {
		It("should write check-out time, hours and status together", func() {
			rec := newRecord(1, "2026-03-02")
			Expect(repo.Create(rec)).To(Succeed())

			out := checkIn.Add(8 * time.Hour)
			err := repo.CompleteCheckout(rec.ID, out, 8.00, attendance.StatusPresent)
			Expect(err).NotTo(HaveOccurred())

			stored, err := repo.GetByUserAndDate(1, "2026-03-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.CheckOutTime).NotTo(BeNil())
			Expect(stored.TotalHours).NotTo(BeNil())
			Expect(*stored.TotalHours).To(Equal(8.00))
		})

		It("should refuse to overwrite a completed checkout", func() {
			rec := newRecord(1, "2026-03-02")
			Expect(repo.Create(rec)).To(Succeed())

			out := checkIn.Add(8 * time.Hour)
			Expect(repo.CompleteCheckout(rec.ID, out, 8.00, attendance.StatusPresent)).To(Succeed())

			err := repo.CompleteCheckout(rec.ID, out.Add(time.Hour), 9.00, attendance.StatusPresent)
			Expect(err).To(HaveOccurred())

			stored, err := repo.GetByUserAndDate(1, "2026-03-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.TotalHours).To(Equal(8.00))
		})
	})

	Describe("ListByUser", func() {
		It("should return newest dates first and honor the limit", func() {
			Expect(repo.Create(newRecord(1, "2026-03-02"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-03"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-04"))).To(Succeed())
			Expect(repo.Create(newRecord(2, "2026-03-04"))).To(Succeed())

			records, err := repo.ListByUser(1, 2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Date).To(Equal("2026-03-04"))
			Expect(records[1].Date).To(Equal("2026-03-03"))
		})

		It("should skip records according to the offset", func() {
			Expect(repo.Create(newRecord(1, "2026-03-02"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-03"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-04"))).To(Succeed())

			records, err := repo.ListByUser(1, 2, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Date).To(Equal("2026-03-03"))
			Expect(records[1].Date).To(Equal("2026-03-02"))
		})
	})

	Describe("ListByDateRange", func() {
		It("should return records within the range in date order", func() {
			Expect(repo.Create(newRecord(1, "2026-03-01"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-02"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-05"))).To(Succeed())

			records, err := repo.ListByDateRange("2026-03-01", "2026-03-03")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Date).To(Equal("2026-03-01"))
			Expect(records[1].Date).To(Equal("2026-03-02"))
		})
	})

	Describe("ListByDate", func() {
		It("should return all users for one day", func() {
			Expect(repo.Create(newRecord(1, "2026-03-02"))).To(Succeed())
			Expect(repo.Create(newRecord(2, "2026-03-02"))).To(Succeed())
			Expect(repo.Create(newRecord(1, "2026-03-03"))).To(Succeed())

			records, err := repo.ListByDate("2026-03-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
		})
	})
})
