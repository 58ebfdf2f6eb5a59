package department

import (
	"log/slog"

	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	GetAll() ([]*departmentDatamodel.Department, error)
	GetByName(name string) (*departmentDatamodel.Department, error)
	Create(dept *departmentDatamodel.Department) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllDepartments() ([]DepartmentResponse, error) {
	dataDepartments, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, err
	}

	var responses []DepartmentResponse
	for _, dataDept := range dataDepartments {
		domainDept := FromDataModel(dataDept)
		if domainDept.IsActiveDepartment() {
			responses = append(responses, domainDept.ToResponse())
		}
	}

	return responses, nil
}

// IsValidDepartment reports whether name is a known active department.
// Registration uses it to reject free-form department strings.
func (s *Service) IsValidDepartment(name string) bool {
	dataDept, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Warn("error checking department validity", "name", name, "error", err)
		return false
	}
	return dataDept != nil && dataDept.IsActive
}
