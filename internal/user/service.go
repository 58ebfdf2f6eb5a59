package user

import (
	"errors"
	"log/slog"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	EmailExists(email string) (bool, error)
	EmployeeIDExists(employeeID string) (bool, error)
	ListEmployees() ([]*User, error)
}

type ServiceAPI interface {
	Register(dto RegisterDTO) (*User, error)
	GetByID(id int64) (*User, error)
	ListEmployees() ([]*User, error)
}

type Service struct {
	repo       Repository
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, logger *slog.Logger, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account. New accounts default to the employee role
// unless the payload asks for manager explicitly.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		s.logger.Error("register: email lookup failed", "error", err)
		return nil, internal.NewInternalError("could not register user", err)
	}
	if taken {
		return nil, internal.NewConflictError("Email is already registered", internal.ErrCodeEmailTaken)
	}

	taken, err = s.repo.EmployeeIDExists(dto.EmployeeID)
	if err != nil {
		s.logger.Error("register: employee id lookup failed", "error", err)
		return nil, internal.NewInternalError("could not register user", err)
	}
	if taken {
		return nil, internal.NewConflictError("Employee ID is already registered", internal.ErrCodeEmployeeIDTaken)
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("register: password hashing failed", "error", err)
		return nil, internal.NewInternalError("could not register user", err)
	}

	role := dto.Role
	if role == "" {
		role = auth.RoleEmployee
	}

	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         role,
		EmployeeID:   dto.EmployeeID,
		Department:   dto.Department,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		// Two concurrent registrations can both pass the existence checks;
		// the unique indexes are the arbiter.
		switch {
		case errors.Is(err, ErrEmailTaken):
			return nil, internal.NewConflictError("Email is already registered", internal.ErrCodeEmailTaken)
		case errors.Is(err, ErrEmployeeIDTaken):
			return nil, internal.NewConflictError("Employee ID is already registered", internal.ErrCodeEmployeeIDTaken)
		}
		s.logger.Error("register: create failed", "error", err)
		return nil, internal.NewInternalError("could not register user", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "employee_id", u.EmployeeID, "role", u.Role)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
		}
		s.logger.Error("get user failed", "user_id", id, "error", err)
		return nil, internal.NewInternalError("could not load user", err)
	}
	return u, nil
}

// ListEmployees returns every active employee-role account. Managers are
// excluded since they do not appear on the attendance dashboard.
func (s *Service) ListEmployees() ([]*User, error) {
	users, err := s.repo.ListEmployees()
	if err != nil {
		s.logger.Error("list employees failed", "error", err)
		return nil, internal.NewInternalError("could not list employees", err)
	}
	return users, nil
}
