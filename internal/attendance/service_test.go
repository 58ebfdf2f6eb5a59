package attendance_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
)

func TestAttendance(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attendance Suite")
}

// Mock repository backed by an in-memory map keyed like the unique index.
type mockAttendanceRepository struct {
	mu      sync.Mutex
	records map[string]*attendance.Record
	nextID  int64

	createError error
	getError    error
	updateError error
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{
		records: make(map[string]*attendance.Record),
		nextID:  1,
	}
}

func key(userID int64, date string) string {
	return fmt.Sprintf("%d/%s", userID, date)
}

func (m *mockAttendanceRepository) Create(rec *attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createError != nil {
		return m.createError
	}
	k := key(rec.UserID, rec.Date)
	if _, exists := m.records[k]; exists {
		return attendance.ErrDuplicateRecord
	}
	rec.ID = m.nextID
	m.nextID++
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()
	stored := *rec
	m.records[k] = &stored
	return nil
}

func (m *mockAttendanceRepository) GetByUserAndDate(userID int64, date string) (*attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}
	rec, exists := m.records[key(userID, date)]
	if !exists {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (m *mockAttendanceRepository) CompleteCheckout(recordID int64, checkOutTime time.Time, totalHours float64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateError != nil {
		return m.updateError
	}
	for _, rec := range m.records {
		if rec.ID == recordID && rec.CheckOutTime == nil {
			out := checkOutTime
			hours := totalHours
			rec.CheckOutTime = &out
			rec.TotalHours = &hours
			rec.Status = status
			return nil
		}
	}
	return errors.New("record not found or already checked out")
}

func (m *mockAttendanceRepository) ListByUser(userID int64, limit, offset int) ([]*attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}
	var result []*attendance.Record
	for _, rec := range m.records {
		if rec.UserID == userID {
			copied := *rec
			result = append(result, &copied)
		}
	}
	return result, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

var _ = Describe("Attendance Service", func() {
	var (
		repo      *mockAttendanceRepository
		publisher *capturingPublisher
		svc       *attendance.Service
		now       time.Time
		actor     *auth.User
		ctx       context.Context
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	at := func(hour, minute, second int) time.Time {
		return time.Date(2026, time.March, 2, hour, minute, second, 0, time.UTC)
	}

	newService := func() *attendance.Service {
		policy, err := attendance.NewPolicy("UTC", "09:30", 4)
		Expect(err).NotTo(HaveOccurred())
		return attendance.NewService(repo, policy, publisher, testLogger,
			attendance.WithClock(func() time.Time { return now }))
	}

	BeforeEach(func() {
		repo = newMockAttendanceRepository()
		publisher = &capturingPublisher{}
		actor = &auth.User{ID: 7, Name: "Andi Pratama", Role: auth.RoleEmployee}
		ctx = context.Background()
		now = at(9, 0, 0)
		svc = newService()
	})

	Describe("CheckIn", func() {
		It("creates a present record before the late threshold", func() {
			rec, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusPresent))
			Expect(rec.Date).To(Equal("2026-03-02"))
			Expect(rec.CheckInTime).NotTo(BeNil())
			Expect(rec.CheckOutTime).To(BeNil())
			Expect(rec.TotalHours).To(BeNil())
		})

		It("is present exactly at the threshold", func() {
			now = at(9, 30, 0)
			rec, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusPresent))
		})

		It("is late one second after the threshold", func() {
			now = at(9, 30, 1)
			rec, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusLate))
		})

		It("rejects a second check-in on the same day", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = at(10, 0, 0)
			_, err = svc.CheckIn(ctx, actor)
			Expect(err).To(Equal(internal.ErrAlreadyCheckedIn))
		})

		It("allows a check-in on the next day", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = now.AddDate(0, 0, 1)
			rec, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Date).To(Equal("2026-03-03"))
		})

		It("publishes a checked-in event", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			published := publisher.published()
			Expect(published).To(HaveLen(1))
			Expect(published[0].EventType()).To(Equal(events.EventTypeCheckedIn))
		})
	})

	Describe("CheckOut", func() {
		It("fails when the caller never checked in", func() {
			_, err := svc.CheckOut(ctx, actor)
			Expect(err).To(Equal(internal.ErrNotCheckedIn))
		})

		It("keeps present status and computes hours for a full day", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = at(17, 0, 0)
			rec, err := svc.CheckOut(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusPresent))
			Expect(rec.TotalHours).NotTo(BeNil())
			Expect(*rec.TotalHours).To(Equal(8.00))
			Expect(rec.CheckOutTime).NotTo(BeNil())
		})

		It("downgrades a late short day to half-day", func() {
			now = at(9, 45, 0)
			rec, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusLate))

			now = at(10, 30, 0)
			rec, err = svc.CheckOut(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusHalfDay))
			Expect(*rec.TotalHours).To(Equal(0.75))
		})

		It("downgrades a present short day to half-day", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = at(12, 59, 0)
			rec, err := svc.CheckOut(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusHalfDay))
		})

		It("rounds total hours to two decimals", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = at(17, 20, 0)
			rec, err := svc.CheckOut(ctx, actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(*rec.TotalHours).To(Equal(8.33))
		})

		It("rejects a second check-out and leaves hours untouched", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = at(17, 0, 0)
			first, err := svc.CheckOut(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = at(18, 0, 0)
			_, err = svc.CheckOut(ctx, actor)
			Expect(err).To(Equal(internal.ErrAlreadyCheckedOut))

			stored, err := repo.GetByUserAndDate(actor.ID, first.Date)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.TotalHours).To(Equal(*first.TotalHours))
		})

		It("publishes a checked-out event", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			now = at(17, 0, 0)
			_, err = svc.CheckOut(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			published := publisher.published()
			Expect(published).To(HaveLen(2))
			Expect(published[1].EventType()).To(Equal(events.EventTypeCheckedOut))
		})
	})

	Describe("GetToday", func() {
		It("returns nil record before check-in", func() {
			date, rec, err := svc.GetToday(actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(date).To(Equal("2026-03-02"))
			Expect(rec).To(BeNil())
		})

		It("returns the record after check-in", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			_, rec, err := svc.GetToday(actor)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec).NotTo(BeNil())
			Expect(rec.UserID).To(Equal(actor.ID))
		})
	})

	Describe("History", func() {
		It("returns only the caller's records", func() {
			_, err := svc.CheckIn(ctx, actor)
			Expect(err).NotTo(HaveOccurred())

			other := &auth.User{ID: 8, Name: "Budi Santoso", Role: auth.RoleEmployee}
			_, err = svc.CheckIn(ctx, other)
			Expect(err).NotTo(HaveOccurred())

			records, err := svc.History(actor, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].UserID).To(Equal(actor.ID))
		})

		It("surfaces repository failures as internal errors", func() {
			repo.getError = errors.New("connection reset")
			_, err := svc.History(actor, 10, 0)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})
})
