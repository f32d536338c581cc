package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeRecordNeeded = errors.New("employee record not found for this user")
	ErrNoOffice             = errors.New("employee does not belong to any office")
	ErrUnauthorizedDevice   = errors.New("unauthorized device detected")
)
