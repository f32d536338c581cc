package memory

import (
	"context"
	"sort"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/leave"
)

type LeaveRequestRepository struct {
	s *Store
}

func (s *Store) leaveIndex(id string) (int, bool) {
	for i, l := range s.leaves {
		if l.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) hydrateLeave(l leave.LeaveRequest) leave.LeaveRequest {
	if e, _, ok := s.employeeByID(l.EmployeeID); ok {
		e = s.withOffice(e)
		name := e.FullName()
		l.EmployeeName = &name
		l.OfficeID = e.OfficeID
		l.OfficeName = e.OfficeName
	}
	return l
}

func (r *LeaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req.ID = newID()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.s.leaves = append(r.s.leaves, req)
	return r.s.hydrateLeave(req), nil
}

func (r *LeaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.leaveIndex(id)
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.s.hydrateLeave(r.s.leaves[i]), nil
}

func (r *LeaveRequestRepository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []leave.LeaveRequest
	for _, l := range r.s.leaves {
		if l.EmployeeID != employeeID || l.Status == leave.StatusRejected {
			continue
		}
		if l.Overlaps(start, end) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LeaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.Status, decidedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.leaveIndex(id)
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	r.s.leaves[i].Status = status
	r.s.leaves[i].ApprovedBy = &decidedBy
	r.s.leaves[i].UpdatedAt = time.Now()
	return nil
}

func (r *LeaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []leave.LeaveRequest
	for _, l := range r.s.leaves {
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.State != nil && l.Status != *filter.State {
			continue
		}
		l = r.s.hydrateLeave(l)
		if !inIDs(filter.OfficeIDs, l.OfficeID) {
			continue
		}
		matched = append(matched, l)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}
