package postgres

import (
	"errors"
	"strings"

	userDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/attendance-tracker/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(u *user.User) error {
	dm := user.ToDataModel(u)
	if err := r.db.Create(dm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The constraint name tells us which column collided. Fall back
			// to the email error when the driver does not expose it.
			if strings.Contains(err.Error(), "employee_id") {
				return user.ErrEmployeeIDTaken
			}
			return user.ErrEmailTaken
		}
		return err
	}
	u.ID = dm.ID
	u.CreatedAt = dm.CreatedAt
	u.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *Repository) GetByID(id int64) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *Repository) GetByEmail(email string) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.Where("email = ?", email).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *Repository) EmployeeIDExists(employeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("employee_id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

// ListEmployees returns active employee accounts ordered by name, which is
// the order the manager dashboard renders them in.
func (r *Repository) ListEmployees() ([]*user.User, error) {
	var dms []*userDatamodel.User
	err := r.db.
		Where("role = ? AND is_active = ?", "employee", true).
		Order("name ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(dms), nil
}
