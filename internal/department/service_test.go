package department_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
	"github.com/frahmantamala/attendance-tracker/internal/department"
)

func TestDepartment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Suite")
}

type mockDepartmentRepository struct {
	departments []*departmentDatamodel.Department
	err         error
}

func (m *mockDepartmentRepository) GetAll() ([]*departmentDatamodel.Department, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.departments, nil
}

func (m *mockDepartmentRepository) GetByName(name string) (*departmentDatamodel.Department, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockDepartmentRepository) Create(dept *departmentDatamodel.Department) error {
	if m.err != nil {
		return m.err
	}
	m.departments = append(m.departments, dept)
	return nil
}

var _ = Describe("Department Service", func() {
	var (
		repo *mockDepartmentRepository
		svc  *department.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		repo = &mockDepartmentRepository{
			departments: []*departmentDatamodel.Department{
				{ID: 1, Name: "engineering", Description: "Product development", IsActive: true},
				{ID: 2, Name: "sales", Description: "Sales", IsActive: true},
				{ID: 3, Name: "legacy", Description: "Disbanded", IsActive: false},
			},
		}
		svc = department.NewService(repo, testLogger)
	})

	Describe("GetAllDepartments", func() {
		It("returns only active departments", func() {
			departments, err := svc.GetAllDepartments()
			Expect(err).NotTo(HaveOccurred())
			Expect(departments).To(HaveLen(2))
			Expect(departments[0].Name).To(Equal("engineering"))
			Expect(departments[1].Name).To(Equal("sales"))
		})

		It("propagates repository errors", func() {
			repo.err = errors.New("connection reset")
			_, err := svc.GetAllDepartments()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("IsValidDepartment", func() {
		It("accepts an active department", func() {
			Expect(svc.IsValidDepartment("engineering")).To(BeTrue())
		})

		It("rejects an inactive department", func() {
			Expect(svc.IsValidDepartment("legacy")).To(BeFalse())
		})

		It("rejects an unknown name", func() {
			Expect(svc.IsValidDepartment("astrology")).To(BeFalse())
		})
	})
})
