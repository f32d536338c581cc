package employee

import (
	"context"
	"fmt"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	officesvc "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	hierarchy *officesvc.HierarchyResolver
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, hierarchy *officesvc.HierarchyResolver) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		hierarchy:          hierarchy,
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	scope, err := s.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	filter.OfficeIDs = scope

	employees, total, err := s.EmployeeRepository.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		Meta:      pagination.NewMeta(filter.Params, total),
		Employees: make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, employee.ToResponse(e))
	}
	return resp, nil
}
