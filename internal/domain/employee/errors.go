package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEmployeeNotResolved means a device punch could not be matched to
	// any employee in the facility by identifier, card or name prefix.
	ErrEmployeeNotResolved = errors.New("device record matched no employee in facility")
)
