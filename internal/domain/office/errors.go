package office

import "errors"

var (
	ErrOfficeNotFound = errors.New("office not found")
	ErrOutsideScope   = errors.New("office is outside your hierarchy")
)
