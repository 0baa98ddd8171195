package shift

import "errors"

var (
	ErrShiftNotFound   = errors.New("shift not found")
	ErrNoShiftAssigned = errors.New("employee has no shift assigned")
)
