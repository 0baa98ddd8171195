package response

import (
	"errors"
	"net/http"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Not found
	case errors.Is(err, attendance.ErrDayNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, facility.ErrFacilityNotFound):
		NotFound(w, "Facility not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Break protocol violations: reject the single operation with a reason
	case errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrAlreadyOnBreak),
		errors.Is(err, attendance.ErrNoActiveBreak):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrBreakTrackingDisabled),
		errors.Is(err, attendance.ErrBreakTypeNotConfigured),
		errors.Is(err, shift.ErrNoShiftAssigned):
		BadRequest(w, err.Error(), nil)

	// Concurrency
	case errors.Is(err, attendance.ErrConcurrencyConflict):
		Conflict(w, "Record was modified concurrently, please retry")

	// Reporting bounds
	case errors.Is(err, attendance.ErrInvalidDateRange),
		errors.Is(err, attendance.ErrRangeTooLarge):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
