package http

import (
	"net/http"
	"strconv"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/handler/http/response"
	"github.com/attendsync/attendance-backend-go/internal/service/report"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	reportService *report.Service
}

func NewAttendanceHandler(reportService *report.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		reportService: reportService,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.Filter{
		FacilityID: queryParam(r, "facility_id"),
		EmployeeID: queryParam(r, "employee_id"),
		StartDate:  queryParam(r, "start_date"),
		EndDate:    queryParam(r, "end_date"),
		Status:     queryParam(r, "status"),
	}

	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.reportService.ListDays(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Days, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// queryParam returns a pointer to the query value, or nil when absent.
func queryParam(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}
