package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/domain/syncaudit"
	"github.com/attendsync/attendance-backend-go/internal/handler/http/response"
	syncService "github.com/attendsync/attendance-backend-go/internal/service/sync"
	"github.com/go-chi/chi/v5"
)

type FacilityHandler interface {
	TriggerSync(w http.ResponseWriter, r *http.Request)
	SyncStatus(w http.ResponseWriter, r *http.Request)
	SyncFailures(w http.ResponseWriter, r *http.Request)
}

type facilityHandlerImpl struct {
	facilities  facility.FacilityRepository
	failures    syncaudit.FailureRepository
	syncService *syncService.Service
}

func NewFacilityHandler(
	facilities facility.FacilityRepository,
	failures syncaudit.FailureRepository,
	svc *syncService.Service,
) FacilityHandler {
	return &facilityHandlerImpl{
		facilities:  facilities,
		failures:    failures,
		syncService: svc,
	}
}

type syncStatusResponse struct {
	FacilityID    string     `json:"facility_id"`
	SyncStatus    string     `json:"sync_status"`
	LastSyncTime  *time.Time `json:"last_sync_time"`
	LastSyncError *string    `json:"last_sync_error"`
	AutoSync      bool       `json:"auto_sync"`
}

// TriggerSync implements FacilityHandler. The sync itself can take as long
// as the device timeout, so it runs in the background and the endpoint
// answers immediately; progress is visible via the sync-status read.
func (h *facilityHandlerImpl) TriggerSync(w http.ResponseWriter, r *http.Request) {
	facilityID := chi.URLParam(r, "facilityID")

	if _, err := h.facilities.GetByID(r.Context(), facilityID); err != nil {
		response.HandleError(w, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := h.syncService.SyncFacility(ctx, facilityID); err != nil {
			slog.Error("Manual facility sync failed", "facility_id", facilityID, "error", err)
		}
	}()

	response.Accepted(w, "Facility sync started")
}

// SyncStatus implements FacilityHandler.
func (h *facilityHandlerImpl) SyncStatus(w http.ResponseWriter, r *http.Request) {
	facilityID := chi.URLParam(r, "facilityID")

	fac, err := h.facilities.GetByID(r.Context(), facilityID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, syncStatusResponse{
		FacilityID:    fac.ID,
		SyncStatus:    fac.SyncStatus,
		LastSyncTime:  fac.LastSyncTime,
		LastSyncError: fac.LastSyncError,
		AutoSync:      fac.AutoSync,
	})
}

// SyncFailures implements FacilityHandler. Operator-facing view of dropped
// device records.
func (h *facilityHandlerImpl) SyncFailures(w http.ResponseWriter, r *http.Request) {
	facilityID := chi.URLParam(r, "facilityID")

	if _, err := h.facilities.GetByID(r.Context(), facilityID); err != nil {
		response.HandleError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	failures, err := h.failures.ListByFacility(r.Context(), facilityID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if failures == nil {
		failures = []syncaudit.Failure{}
	}

	response.Success(w, failures)
}
