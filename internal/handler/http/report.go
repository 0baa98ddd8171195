package http

import (
	"net/http"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/handler/http/response"
	"github.com/attendsync/attendance-backend-go/internal/service/report"
)

type ReportHandler interface {
	Attendance(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService *report.Service
}

func NewReportHandler(reportService *report.Service) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Attendance implements ReportHandler. Returns the merged per-day view over
// a bounded date range, absences and leave included.
func (h *reportHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	filter, ok := rangeFilterFromQuery(w, r)
	if !ok {
		return
	}

	rows, err := h.reportService.RangeReport(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// Summary implements ReportHandler.
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := rangeFilterFromQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

func rangeFilterFromQuery(w http.ResponseWriter, r *http.Request) (attendance.RangeFilter, bool) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	if startDate == "" || endDate == "" {
		response.BadRequest(w, "start_date and end_date are required", nil)
		return attendance.RangeFilter{}, false
	}

	return attendance.RangeFilter{
		FacilityID: queryParam(r, "facility_id"),
		EmployeeID: queryParam(r, "employee_id"),
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     queryParam(r, "status"),
	}, true
}
