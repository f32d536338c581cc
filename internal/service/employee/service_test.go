package employee

import (
	"context"
	"testing"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/repository/memory"
	officesvc "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestEmployeeService_List(t *testing.T) {
	store := memory.NewStore()
	head := store.AddOffice(office.Office{Name: "Jimma Zone Head Office"})
	branch := store.AddOffice(office.Office{Name: "Agaro Branch", ParentID: &head.ID})

	store.AddEmployee(employee.Employee{FirstName: "Abebe", LastName: "Kebede", OfficeID: &head.ID})
	store.AddEmployee(employee.Employee{FirstName: "Tigist", MiddleName: ptr("Haile"), LastName: "Mamo", OfficeID: &branch.ID})
	store.AddEmployee(employee.Employee{FirstName: "Lensa", LastName: "Tolera", OfficeID: &branch.ID})
	store.AddEmployee(employee.Employee{FirstName: "Unassigned", LastName: "Person"})

	svc := NewEmployeeService(store.Employees(), officesvc.NewHierarchyResolver(store.Offices()))

	tests := []struct {
		name     string
		actor    user.Actor
		filter   employee.EmployeeFilter
		expected []string
	}{
		{
			name:     "admin sees everyone",
			actor:    user.Actor{UserID: "admin", Roles: []string{"admin"}},
			expected: []string{"Abebe Kebede", "Tigist Haile Mamo", "Lensa Tolera", "Unassigned Person"},
		},
		{
			name:     "branch manager sees the branch",
			actor:    user.Actor{UserID: "m", EmployeeID: ptr("e"), OfficeID: &branch.ID},
			expected: []string{"Tigist Haile Mamo", "Lensa Tolera"},
		},
		{
			name:     "search matches the full name",
			actor:    user.Actor{UserID: "admin", Roles: []string{"admin"}},
			filter:   employee.EmployeeFilter{Search: ptr("haile mamo")},
			expected: []string{"Tigist Haile Mamo"},
		},
		{
			name:     "no office sees nobody",
			actor:    user.Actor{UserID: "x", EmployeeID: ptr("e")},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.List(user.WithActor(context.Background(), tt.actor), tt.filter)
			require.NoError(t, err)

			names := []string{}
			for _, e := range resp.Employees {
				names = append(names, e.FullName)
			}
			assert.ElementsMatch(t, tt.expected, names)
			assert.Equal(t, int64(len(tt.expected)), resp.TotalCount)
		})
	}
}
