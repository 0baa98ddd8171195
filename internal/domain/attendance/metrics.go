package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metric arithmetic shared by the sync pipeline and the reporting side so
// both always produce identical figures.

// Round2 rounds an hour figure to two decimal places.
func Round2(hours float64) float64 {
	return decimal.NewFromFloat(hours).Round(2).InexactFloat64()
}

// GrossWorkHours is the elapsed time between check-in and check-out in
// hours, rounded to two decimals.
func GrossWorkHours(checkIn, checkOut time.Time) float64 {
	return Round2(checkOut.Sub(checkIn).Hours())
}

// NetWorkHours subtracts break minutes from gross hours, floored at zero.
func NetWorkHours(workHours float64, totalBreakMinutes int) float64 {
	net := decimal.NewFromFloat(workHours).
		Sub(decimal.NewFromInt(int64(totalBreakMinutes)).Div(decimal.NewFromInt(60)))
	if net.IsNegative() {
		return 0
	}
	return net.Round(2).InexactFloat64()
}

// Overtime is net hours beyond the shift's working hours, floored at zero.
func Overtime(netWorkHours, workingHours float64) float64 {
	ot := netWorkHours - workingHours
	if ot <= 0 {
		return 0
	}
	return Round2(ot)
}

// Undertime is the shortfall against the shift's working hours, floored at
// zero. Only reporting views surface it.
func Undertime(netWorkHours, workingHours float64) float64 {
	ut := workingHours - netWorkHours
	if ut <= 0 {
		return 0
	}
	return Round2(ut)
}

// BreakComplianceFor classifies a day's total break minutes against the
// scheduled total: more than 1.5x is exceeded, under 0.5x insufficient.
func BreakComplianceFor(totalBreakMinutes, scheduledBreakMinutes int) string {
	if totalBreakMinutes == 0 {
		return ComplianceNone
	}
	if scheduledBreakMinutes <= 0 {
		return ComplianceCompliant
	}
	scheduled := float64(scheduledBreakMinutes)
	switch {
	case float64(totalBreakMinutes) > scheduled*1.5:
		return ComplianceExceeded
	case float64(totalBreakMinutes) < scheduled*0.5:
		return ComplianceInsufficient
	default:
		return ComplianceCompliant
	}
}
