package department

import (
	"net/http"

	"github.com/frahmantamala/attendance-tracker/internal/transport"
)

type ServiceAPI interface {
	GetAllDepartments() ([]DepartmentResponse, error)
	IsValidDepartment(name string) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.GetAllDepartments()
	if err != nil {
		h.Logger.Error("GetDepartments: failed to get departments", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get departments")
		return
	}

	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{
		Departments: departments,
	})
}
