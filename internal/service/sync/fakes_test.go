package sync

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/device"
	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
	"github.com/attendsync/attendance-backend-go/internal/domain/syncaudit"
)

// In-memory fakes of the domain repositories, enough to drive the pipeline
// and orchestration without a database.

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

type fakeDayRepo struct {
	mu   sync.Mutex
	days map[string]attendance.Day
	seq  int
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: make(map[string]attendance.Day)}
}

func (r *fakeDayRepo) Create(_ context.Context, day attendance.Day) (attendance.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dayKey(day.EmployeeID, day.Date)
	if _, ok := r.days[key]; ok {
		return attendance.Day{}, attendance.ErrVersionConflict
	}
	r.seq++
	day.ID = dayKey(day.EmployeeID, day.Date)
	day.Version = 1
	r.days[key] = day
	return day, nil
}

func (r *fakeDayRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day, ok := r.days[dayKey(employeeID, date)]
	if !ok {
		return attendance.Day{}, attendance.ErrDayNotFound
	}
	return day, nil
}

func (r *fakeDayRepo) Update(_ context.Context, day attendance.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dayKey(day.EmployeeID, day.Date)
	stored, ok := r.days[key]
	if !ok || stored.Version != day.Version {
		return attendance.ErrVersionConflict
	}
	day.Version++
	r.days[key] = day
	return nil
}

func (r *fakeDayRepo) List(_ context.Context, _ attendance.Filter) ([]attendance.Day, int64, error) {
	return nil, 0, nil
}

func (r *fakeDayRepo) ListForRange(_ context.Context, _ attendance.RangeFilter) ([]attendance.Day, error) {
	return nil, nil
}

func (r *fakeDayRepo) ListWithBreaks(_ context.Context, _ string, _, _ time.Time, _ int) ([]attendance.Day, error) {
	return nil, nil
}

func (r *fakeDayRepo) get(employeeID string, date time.Time) (attendance.Day, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day, ok := r.days[dayKey(employeeID, date)]
	return day, ok
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) FindByDeviceIdentity(_ context.Context, facilityID string, identity employee.DeviceIdentity) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if identity.Identifier != "" {
		for _, emp := range r.employees {
			if emp.FacilityID == facilityID && emp.DeviceID != nil && *emp.DeviceID == identity.Identifier {
				return emp, nil
			}
		}
	}
	if identity.CardID != "" {
		for _, emp := range r.employees {
			if emp.FacilityID == facilityID && emp.CardID != nil && *emp.CardID == identity.CardID {
				return emp, nil
			}
		}
	}
	if identity.Name != "" && identity.Name != "Unknown" {
		for _, emp := range r.employees {
			if emp.FacilityID == facilityID && strings.HasPrefix(strings.ToLower(emp.FullName()), strings.ToLower(identity.Name)) {
				return emp, nil
			}
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotResolved
}

func (r *fakeEmployeeRepo) ListActiveByFacility(_ context.Context, facilityID string) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.FacilityID == facilityID && emp.Status == "active" {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) UpdateDeviceProfile(_ context.Context, id string, deviceID, cardID, profileImage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.employees {
		if r.employees[i].ID != id {
			continue
		}
		if deviceID != nil {
			r.employees[i].DeviceID = deviceID
		}
		if cardID != nil {
			r.employees[i].CardID = cardID
		}
		if profileImage != nil {
			r.employees[i].ProfileImage = profileImage
		}
		return nil
	}
	return employee.ErrEmployeeNotFound
}

type fakeShiftRepo struct {
	shifts []shift.Shift
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	for _, s := range r.shifts {
		if s.ID == id {
			return s, nil
		}
	}
	return shift.Shift{}, shift.ErrShiftNotFound
}

func (r *fakeShiftRepo) ListByFacility(_ context.Context, facilityID string) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if s.FacilityID == facilityID {
			out = append(out, s)
		}
	}
	return out, nil
}

type statusChange struct {
	status       string
	errorMessage *string
	at           time.Time
}

type fakeFacilityRepo struct {
	mu         sync.Mutex
	facilities []facility.Facility
	history    map[string][]statusChange
}

func newFakeFacilityRepo(facilities ...facility.Facility) *fakeFacilityRepo {
	return &fakeFacilityRepo{facilities: facilities, history: make(map[string][]statusChange)}
}

func (r *fakeFacilityRepo) GetByID(_ context.Context, id string) (facility.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fac := range r.facilities {
		if fac.ID == id {
			return fac, nil
		}
	}
	return facility.Facility{}, facility.ErrFacilityNotFound
}

func (r *fakeFacilityRepo) ListSyncable(_ context.Context) ([]facility.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []facility.Facility
	for _, fac := range r.facilities {
		if fac.Status == "active" && fac.AutoSync {
			out = append(out, fac)
		}
	}
	return out, nil
}

func (r *fakeFacilityRepo) UpdateSyncStatus(_ context.Context, id, status string, errorMessage *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.facilities {
		if r.facilities[i].ID != id {
			continue
		}
		r.facilities[i].SyncStatus = status
		r.facilities[i].LastSyncError = errorMessage
		if status == facility.SyncSuccess {
			t := at
			r.facilities[i].LastSyncTime = &t
		}
		r.history[id] = append(r.history[id], statusChange{status: status, errorMessage: errorMessage, at: at})
		return nil
	}
	return facility.ErrFacilityNotFound
}

func (r *fakeFacilityRepo) UpdateDeviceInfo(_ context.Context, id string, deviceID, deviceModel *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.facilities {
		if r.facilities[i].ID != id {
			continue
		}
		if deviceID != nil {
			r.facilities[i].DeviceID = deviceID
		}
		if deviceModel != nil {
			r.facilities[i].DeviceModel = deviceModel
		}
		return nil
	}
	return facility.ErrFacilityNotFound
}

func (r *fakeFacilityRepo) statuses(id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, change := range r.history[id] {
		out = append(out, change.status)
	}
	return out
}

type fakeFailureRepo struct {
	mu       sync.Mutex
	failures []syncaudit.Failure
}

func (r *fakeFailureRepo) Record(_ context.Context, failure syncaudit.Failure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure)
	return nil
}

func (r *fakeFailureRepo) ListByFacility(_ context.Context, facilityID string, limit int) ([]syncaudit.Failure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []syncaudit.Failure
	for _, f := range r.failures {
		if f.FacilityID == facilityID {
			out = append(out, f)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeFailureRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

type fakeGateway struct {
	events    func(ep device.Endpoint, from, to time.Time) (device.Batch, error)
	users     func(ep device.Endpoint) (device.Batch, error)
	reachable bool
}

func (g *fakeGateway) FetchEvents(_ context.Context, ep device.Endpoint, from, to time.Time) (device.Batch, error) {
	if g.events == nil {
		return device.Batch{}, nil
	}
	return g.events(ep, from, to)
}

func (g *fakeGateway) FetchUsers(_ context.Context, ep device.Endpoint) (device.Batch, error) {
	if g.users == nil {
		return device.Batch{}, nil
	}
	return g.users(ep)
}

func (g *fakeGateway) Probe(_ context.Context, _ string) bool {
	return g.reachable
}
