package postgres

import (
	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
	"github.com/frahmantamala/attendance-tracker/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll() ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := r.db.Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByName(name string) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.Where("name = ?", name).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(dept *departmentDatamodel.Department) error {
	return r.db.Create(dept).Error
}
