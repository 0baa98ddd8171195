package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/handler/http/response"
	"github.com/attendsync/attendance-backend-go/internal/service/breaks"
	"github.com/go-chi/chi/v5"
)

type BreakHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type breakHandlerImpl struct {
	breakService *breaks.Service
}

func NewBreakHandler(breakService *breaks.Service) BreakHandler {
	return &breakHandlerImpl{
		breakService: breakService,
	}
}

// Start implements BreakHandler.
func (h *breakHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req attendance.StartBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.EmployeeID == "" || req.BreakType == "" {
		response.BadRequest(w, "employee_id and break_type are required", nil)
		return
	}

	status, err := h.breakService.StartBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", status)
}

// End implements BreakHandler.
func (h *breakHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	var req attendance.EndBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.EmployeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	status, err := h.breakService.EndBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", status)
}

// Status implements BreakHandler.
func (h *breakHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	status, err := h.breakService.GetBreakStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// History implements BreakHandler.
func (h *breakHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "Invalid start_date", nil)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "Invalid end_date", nil)
			return
		}
		to = parsed
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 30
	}

	history, err := h.breakService.GetBreakHistory(r.Context(), employeeID, from, to, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}
