package user

import (
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
)

// RegisterDTO is the payload for POST /auth/register.
type RegisterDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
	Role       string `json:"role,omitempty"`
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(8)
	v.Field("employee_id", d.EmployeeID).Required().MaxLength(50)
	v.Field("department", d.Department).MaxLength(100)
	v.Field("role", d.Role).OneOf(auth.RoleEmployee, auth.RoleManager)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
