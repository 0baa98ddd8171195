package attendance

import "time"

// Filter narrows paginated day listings.
type Filter struct {
	FacilityID *string
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
}

// RangeFilter bounds an unpaginated reporting window.
type RangeFilter struct {
	FacilityID *string
	EmployeeID *string
	StartDate  string
	EndDate    string
	Status     *string
}

// DayResponse is the wire shape of one attendance day.
type DayResponse struct {
	ID              string          `json:"id,omitempty"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	FacilityID      string          `json:"facility_id"`
	Date            string          `json:"date"`
	CheckInTime     *string         `json:"check_in_time"`
	CheckOutTime    *string         `json:"check_out_time"`
	Status          string          `json:"status"`
	WorkHours       float64         `json:"work_hours"`
	NetWorkHours    float64         `json:"net_work_hours"`
	Overtime        float64         `json:"overtime"`
	Undertime       float64         `json:"undertime"`
	LateArrival     int             `json:"late_arrival"`
	EarlyArrival    int             `json:"early_arrival"`
	EarlyDeparture  int             `json:"early_departure"`
	TotalBreakTime  int             `json:"total_break_time"`
	BreakCompliance string          `json:"break_compliance"`
	Breaks          []BreakResponse `json:"breaks,omitempty"`
}

// BreakResponse is the wire shape of one tracked break.
type BreakResponse struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	StartTime  string  `json:"start_time"`
	EndTime    *string `json:"end_time,omitempty"`
	Duration   int     `json:"duration"`
	Status     string  `json:"status"`
	RecordedBy string  `json:"recorded_by"`
}

// ListDaysResponse is a paginated set of day rows.
type ListDaysResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Days       []DayResponse `json:"days"`
}

// StartBreakRequest begins a manual break for an employee.
type StartBreakRequest struct {
	EmployeeID string `json:"employee_id"`
	BreakType  string `json:"break_type"`
}

// EndBreakRequest ends the employee's ongoing break.
type EndBreakRequest struct {
	EmployeeID string `json:"employee_id"`
}

// BreakStatusResponse describes the employee's current break state.
type BreakStatusResponse struct {
	OnBreak              bool            `json:"on_break"`
	CurrentBreak         *BreakResponse  `json:"current_break,omitempty"`
	CurrentDuration      int             `json:"current_duration,omitempty"`
	AllBreaks            []BreakResponse `json:"all_breaks"`
	TotalBreakTime       int             `json:"total_break_time"`
	BreakCompliance      string          `json:"break_compliance"`
	BreakTrackingEnabled bool            `json:"break_tracking_enabled"`
}

// NewBreakResponse converts a tracked break to its wire shape.
func NewBreakResponse(b Break) BreakResponse {
	resp := BreakResponse{
		Type:       b.Type,
		Name:       b.Name,
		StartTime:  b.StartTime.Format(time.RFC3339),
		Duration:   b.Duration,
		Status:     b.Status,
		RecordedBy: b.RecordedBy,
	}
	if b.EndTime != nil {
		end := b.EndTime.Format(time.RFC3339)
		resp.EndTime = &end
	}
	return resp
}

// NewBreakResponses converts a day's breaks to their wire shape.
func NewBreakResponses(breaks []Break) []BreakResponse {
	if len(breaks) == 0 {
		return nil
	}
	out := make([]BreakResponse, 0, len(breaks))
	for _, b := range breaks {
		out = append(out, NewBreakResponse(b))
	}
	return out
}

// NewDayResponse converts a day aggregate to its wire shape. Undertime
// depends on the shift's working hours and is filled by the reporting side.
func NewDayResponse(d Day) DayResponse {
	resp := DayResponse{
		ID:              d.ID,
		EmployeeID:      d.EmployeeID,
		FacilityID:      d.FacilityID,
		Date:            d.Date.Format("2006-01-02"),
		Status:          d.Status,
		WorkHours:       d.WorkHours,
		NetWorkHours:    d.NetWorkHours,
		Overtime:        d.Overtime,
		LateArrival:     d.LateArrival,
		EarlyArrival:    d.EarlyArrival,
		EarlyDeparture:  d.EarlyDeparture,
		TotalBreakTime:  d.TotalBreakTime,
		BreakCompliance: d.BreakCompliance,
		Breaks:          NewBreakResponses(d.Breaks),
	}
	if d.EmployeeName != nil {
		resp.EmployeeName = *d.EmployeeName
	}
	if d.CheckIn != nil {
		t := d.CheckIn.Time.Format(time.RFC3339)
		resp.CheckInTime = &t
	}
	if d.CheckOut != nil {
		t := d.CheckOut.Time.Format(time.RFC3339)
		resp.CheckOutTime = &t
	}
	return resp
}

// BreakHistoryEntry is one day's break activity in a history listing.
type BreakHistoryEntry struct {
	Date            string          `json:"date"`
	Breaks          []BreakResponse `json:"breaks"`
	TotalBreakTime  int             `json:"total_break_time"`
	BreakCompliance string          `json:"break_compliance"`
	Status          string          `json:"status"`
}

// EmployeeSummary aggregates one employee's merged day rows over a window.
type EmployeeSummary struct {
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name,omitempty"`
	DaysPresent      int     `json:"days_present"`
	DaysLate         int     `json:"days_late"`
	DaysHalfDay      int     `json:"days_half_day"`
	DaysAbsent       int     `json:"days_absent"`
	DaysOnLeave      int     `json:"days_on_leave"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	TotalOvertime    float64 `json:"total_overtime"`
	TotalUndertime   float64 `json:"total_undertime"`
	TotalLateMinutes int     `json:"total_late_minutes"`
}

// SummaryResponse is the per-employee aggregation over a reporting window.
type SummaryResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Employees []EmployeeSummary `json:"employees"`
}
