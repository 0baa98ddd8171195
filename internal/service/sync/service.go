package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/config"
	"github.com/attendsync/attendance-backend-go/internal/domain/device"
	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/pkg/cron"
)

// Service orchestrates facility device syncs: the scheduled sweep over all
// auto-sync facilities and the manual per-facility trigger both land here.
type Service struct {
	facilities facility.FacilityRepository
	employees  employee.EmployeeRepository
	gateway    device.Gateway
	pipeline   *Pipeline
	cfg        config.SyncConfig
}

func NewService(
	facilities facility.FacilityRepository,
	employees employee.EmployeeRepository,
	gateway device.Gateway,
	pipeline *Pipeline,
	cfg config.SyncConfig,
) *Service {
	return &Service{
		facilities: facilities,
		employees:  employees,
		gateway:    gateway,
		pipeline:   pipeline,
		cfg:        cfg,
	}
}

// RegisterJobs wires the periodic sweep onto the scheduler.
func (s *Service) RegisterJobs(scheduler *cron.Scheduler) {
	if !s.cfg.Enabled {
		slog.Info("Facility sync disabled by configuration")
		return
	}
	scheduler.AddJob("facility-sync", s.cfg.Interval, s.SyncAll)
}

// SyncAll sweeps every syncable facility concurrently. Facilities are
// independent; one failing never touches another's outcome.
func (s *Service) SyncAll(ctx context.Context) error {
	facilities, err := s.facilities.ListSyncable(ctx)
	if err != nil {
		return fmt.Errorf("list syncable facilities: %w", err)
	}
	if len(facilities) == 0 {
		return nil
	}

	slog.Info("Facility sync sweep starting", "facility_count", len(facilities))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, fac := range facilities {
		wg.Add(1)
		go func(fac facility.Facility) {
			defer wg.Done()
			if err := s.syncOne(ctx, fac); err != nil {
				slog.Error("Facility sync failed", "facility_id", fac.ID, "facility_code", fac.Code, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(fac)
	}
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d facilities failed to sync", failed, len(facilities))
	}
	return nil
}

// SyncFacility runs one facility's sync immediately, regardless of its
// auto-sync flag. This backs the manual trigger endpoint.
func (s *Service) SyncFacility(ctx context.Context, facilityID string) error {
	fac, err := s.facilities.GetByID(ctx, facilityID)
	if err != nil {
		return err
	}
	return s.syncOne(ctx, fac)
}

func (s *Service) syncOne(ctx context.Context, fac facility.Facility) error {
	if skip, reason := s.shouldSkip(ctx, fac); skip {
		slog.Info("Facility sync skipped", "facility_id", fac.ID, "reason", reason)
		return s.updateStatus(ctx, fac.ID, facility.SyncSkipped, &reason, time.Now())
	}

	if err := s.updateStatus(ctx, fac.ID, facility.SyncInProgress, nil, time.Now()); err != nil {
		return err
	}

	// Directory first so punches arriving in the same run can match
	// freshly registered employees. Failures here never block punches.
	s.syncDirectory(ctx, &fac)

	from := time.Now().Add(-s.cfg.Lookback)
	if fac.LastSyncTime != nil {
		from = *fac.LastSyncTime
	}
	to := time.Now()

	batch, err := s.gateway.FetchEvents(ctx, endpointOf(fac), from, to)
	if err != nil {
		msg := err.Error()
		if statusErr := s.updateStatus(ctx, fac.ID, facility.SyncFailed, &msg, to); statusErr != nil {
			slog.Error("Failed to record sync failure status", "facility_id", fac.ID, "error", statusErr)
		}
		return fmt.Errorf("fetch events: %w", err)
	}

	s.captureDeviceInfo(ctx, &fac, batch.Info)

	events := s.pipeline.NormalizeBatch(ctx, fac, batch.Records)
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	result := s.pipeline.ProcessEvents(ctx, fac, events, batch.Info)

	slog.Info("Facility sync completed",
		"facility_id", fac.ID,
		"facility_code", fac.Code,
		"window_from", from,
		"window_to", to,
		"processed", result.Processed,
		"applied", result.Applied,
		"duplicates", result.Duplicates,
		"dropped", result.Dropped)

	return s.updateStatus(ctx, fac.ID, facility.SyncSuccess, nil, to)
}

// shouldSkip filters out facilities that cannot be synced right now. Tunnel
// endpoints (ngrok and the like) go down routinely; probing first avoids
// burning the device timeout and a failure status on a dead tunnel.
func (s *Service) shouldSkip(ctx context.Context, fac facility.Facility) (bool, string) {
	if fac.DeviceAPIURL == "" {
		return true, "no device endpoint configured"
	}
	if strings.Contains(fac.DeviceAPIURL, "ngrok") && !s.gateway.Probe(ctx, fac.DeviceAPIURL) {
		return true, "tunnel endpoint offline"
	}
	return false, ""
}

// syncDirectory pulls the device's user directory and writes back the
// device-assigned identifier, card and profile image onto matched employees.
// Best effort throughout.
func (s *Service) syncDirectory(ctx context.Context, fac *facility.Facility) {
	if fac.UserAPIURL == nil || *fac.UserAPIURL == "" {
		return
	}

	batch, err := s.gateway.FetchUsers(ctx, device.Endpoint{
		URL:    *fac.UserAPIURL,
		APIKey: apiKeyOf(*fac),
	})
	if err != nil {
		slog.Warn("Device directory fetch failed", "facility_id", fac.ID, "error", err)
		return
	}

	s.captureDeviceInfo(ctx, fac, batch.Info)

	updated := 0
	for _, record := range batch.Records {
		entry, err := NormalizeUserRecord(record)
		if err != nil {
			continue
		}

		emp, err := s.employees.FindByDeviceIdentity(ctx, fac.ID, employee.DeviceIdentity{
			Identifier: entry.Identifier,
			CardID:     entry.CardID,
			Name:       entry.Name,
		})
		if err != nil {
			continue
		}

		if !directoryChanged(emp, entry) {
			continue
		}
		err = s.employees.UpdateDeviceProfile(ctx, emp.ID,
			optional(entry.Identifier), optional(entry.CardID), optional(entry.ProfileImage))
		if err != nil {
			slog.Warn("Device profile write-back failed", "facility_id", fac.ID, "employee_id", emp.ID, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		slog.Info("Device directory synced", "facility_id", fac.ID, "updated", updated)
	}
}

// captureDeviceInfo stores gateway-reported device metadata the first time
// it appears or whenever it changes.
func (s *Service) captureDeviceInfo(ctx context.Context, fac *facility.Facility, info device.Info) {
	if info.DeviceID == "" && info.DeviceModel == "" {
		return
	}
	sameID := fac.DeviceID != nil && *fac.DeviceID == info.DeviceID
	sameModel := fac.DeviceModel != nil && *fac.DeviceModel == info.DeviceModel
	if sameID && sameModel {
		return
	}

	if err := s.facilities.UpdateDeviceInfo(ctx, fac.ID, optional(info.DeviceID), optional(info.DeviceModel)); err != nil {
		slog.Warn("Failed to store device info", "facility_id", fac.ID, "error", err)
		return
	}
	fac.DeviceID = optional(info.DeviceID)
	fac.DeviceModel = optional(info.DeviceModel)
}

func (s *Service) updateStatus(ctx context.Context, facilityID, status string, errorMessage *string, at time.Time) error {
	if err := s.facilities.UpdateSyncStatus(ctx, facilityID, status, errorMessage, at); err != nil {
		return fmt.Errorf("update sync status to %s: %w", status, err)
	}
	return nil
}

func directoryChanged(emp employee.Employee, entry DirectoryEntry) bool {
	if entry.Identifier != "" && (emp.DeviceID == nil || *emp.DeviceID != entry.Identifier) {
		return true
	}
	if entry.CardID != "" && (emp.CardID == nil || *emp.CardID != entry.CardID) {
		return true
	}
	if entry.ProfileImage != "" && (emp.ProfileImage == nil || *emp.ProfileImage != entry.ProfileImage) {
		return true
	}
	return false
}

func endpointOf(fac facility.Facility) device.Endpoint {
	return device.Endpoint{URL: fac.DeviceAPIURL, APIKey: apiKeyOf(fac)}
}

func apiKeyOf(fac facility.Facility) string {
	if fac.DeviceAPIKey == nil {
		return ""
	}
	return *fac.DeviceAPIKey
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
