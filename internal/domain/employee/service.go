package employee

import "context"

type EmployeeService interface {
	// List returns employees in the offices visible to the caller.
	List(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
}
