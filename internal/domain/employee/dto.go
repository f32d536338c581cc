package employee

import (
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
)

type EmployeeFilter struct {
	Search    *string  `json:"search,omitempty"`
	OfficeIDs []string `json:"-"`

	pagination.Params
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	return errs.Err()
}

type EmployeeResponse struct {
	ID         string  `json:"id"`
	UserID     *string `json:"user_id,omitempty"`
	FullName   string  `json:"full_name"`
	Gender     string  `json:"gender,omitempty"`
	OfficeID   *string `json:"office_id,omitempty"`
	OfficeName string  `json:"office_name"`
	HireDate   *string `json:"hire_date,omitempty"`
}

type ListEmployeeResponse struct {
	pagination.Meta
	Employees []EmployeeResponse `json:"employees"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		FullName:   e.FullName(),
		Gender:     string(e.Gender),
		OfficeID:   e.OfficeID,
		OfficeName: "N/A",
	}
	if e.OfficeName != nil {
		resp.OfficeName = *e.OfficeName
	}
	if e.HireDate != nil {
		d := e.HireDate.Format("2006-01-02")
		resp.HireDate = &d
	}
	return resp
}
