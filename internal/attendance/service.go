package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
)

// ErrDuplicateRecord is returned by the repository when the unique index on
// (user_id, date) rejects a second check-in for the same day.
var ErrDuplicateRecord = errors.New("attendance record already exists for this day")

type Repository interface {
	Create(rec *Record) error
	GetByUserAndDate(userID int64, date string) (*Record, error)
	CompleteCheckout(recordID int64, checkOutTime time.Time, totalHours float64, status string) error
	ListByUser(userID int64, limit, offset int) ([]*Record, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ServiceAPI interface {
	CheckIn(ctx context.Context, actor *auth.User) (*Record, error)
	CheckOut(ctx context.Context, actor *auth.User) (*Record, error)
	GetToday(actor *auth.User) (string, *Record, error)
	History(actor *auth.User, limit, offset int) ([]*Record, error)
}

type Service struct {
	repo     Repository
	policy   *Policy
	eventBus EventPublisher
	logger   *slog.Logger

	now func() time.Time
}

// Option tweaks service construction. WithClock pins the clock, which the
// boundary tests rely on.
type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, policy *Policy, eventBus EventPublisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		policy:   policy,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckIn opens today's attendance record for the caller. The row insert is
// the synchronization point: two concurrent check-ins race on the unique
// index and exactly one wins.
func (s *Service) CheckIn(ctx context.Context, actor *auth.User) (*Record, error) {
	now := s.now()
	date := s.policy.DateKey(now)
	status := s.policy.CheckInStatus(now)

	checkIn := now
	rec := &Record{
		UserID:      actor.ID,
		Date:        date,
		CheckInTime: &checkIn,
		Status:      status,
	}

	if err := s.repo.Create(rec); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return nil, internal.ErrAlreadyCheckedIn
		}
		s.logger.Error("check-in: create failed", "user_id", actor.ID, "date", date, "error", err)
		return nil, internal.NewInternalError("could not check in", err)
	}

	s.logger.Info("checked in", "user_id", actor.ID, "date", date, "status", status)

	if s.eventBus != nil {
		event := events.NewCheckedInEvent(actor.ID, actor.Name, date, status, checkIn)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("check-in: event publish failed", "user_id", actor.ID, "error", err)
		}
	}

	return rec, nil
}

// CheckOut closes today's record. The final status and total hours are
// written together with the check-out time in a single update, so a crash
// can never leave a half-finished checkout behind.
func (s *Service) CheckOut(ctx context.Context, actor *auth.User) (*Record, error) {
	now := s.now()
	date := s.policy.DateKey(now)

	rec, err := s.repo.GetByUserAndDate(actor.ID, date)
	if err != nil {
		s.logger.Error("check-out: lookup failed", "user_id", actor.ID, "date", date, "error", err)
		return nil, internal.NewInternalError("could not check out", err)
	}
	if rec == nil || rec.CheckInTime == nil {
		return nil, internal.ErrNotCheckedIn
	}
	if rec.CheckOutTime != nil {
		return nil, internal.ErrAlreadyCheckedOut
	}

	totalHours := RoundHours(now.Sub(*rec.CheckInTime))
	status := s.policy.CheckOutStatus(rec.Status, totalHours)

	if err := s.repo.CompleteCheckout(rec.ID, now, totalHours, status); err != nil {
		s.logger.Error("check-out: update failed", "user_id", actor.ID, "record_id", rec.ID, "error", err)
		return nil, internal.NewInternalError("could not check out", err)
	}

	checkOut := now
	rec.CheckOutTime = &checkOut
	rec.TotalHours = &totalHours
	rec.Status = status

	s.logger.Info("checked out",
		"user_id", actor.ID,
		"date", date,
		"status", status,
		"total_hours", totalHours)

	if s.eventBus != nil {
		event := events.NewCheckedOutEvent(actor.ID, actor.Name, date, status, totalHours, checkOut)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("check-out: event publish failed", "user_id", actor.ID, "error", err)
		}
	}

	return rec, nil
}

// GetToday returns today's date key and the caller's record for it, nil when
// they have not checked in.
func (s *Service) GetToday(actor *auth.User) (string, *Record, error) {
	date := s.policy.DateKey(s.now())

	rec, err := s.repo.GetByUserAndDate(actor.ID, date)
	if err != nil {
		s.logger.Error("get today: lookup failed", "user_id", actor.ID, "date", date, "error", err)
		return "", nil, internal.NewInternalError("could not load today's attendance", err)
	}
	return date, rec, nil
}

const defaultHistoryLimit = 30

func (s *Service) History(actor *auth.User, limit, offset int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.repo.ListByUser(actor.ID, limit, offset)
	if err != nil {
		s.logger.Error("history: list failed", "user_id", actor.ID, "error", err)
		return nil, internal.NewInternalError("could not load attendance history", err)
	}
	return records, nil
}
