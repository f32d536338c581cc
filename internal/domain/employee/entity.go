package employee

import (
	"strings"
	"time"
)

type Employee struct {
	ID         string
	UserID     *string
	OfficeID   *string
	FirstName  string
	MiddleName *string
	LastName   string
	Gender     Gender
	HireDate   *time.Time
	DeviceHash *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time

	// Read-side join
	OfficeName *string
}

type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

// FullName joins the non-empty name parts with single spaces.
func (e Employee) FullName() string {
	return JoinName(e.FirstName, e.MiddleName, e.LastName)
}

func JoinName(first string, middle *string, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, deref(middle), last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
