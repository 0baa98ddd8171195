package main

import (
	"fmt"
	"net/http"

	"github.com/attendsync/attendance-backend-go/internal/config"
	appHTTP "github.com/attendsync/attendance-backend-go/internal/handler/http"
	"github.com/attendsync/attendance-backend-go/internal/pkg/cron"
	"github.com/attendsync/attendance-backend-go/internal/pkg/database"
	"github.com/attendsync/attendance-backend-go/internal/pkg/devicegw"
	"github.com/attendsync/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendsync/attendance-backend-go/internal/service/attendance"
	breakService "github.com/attendsync/attendance-backend-go/internal/service/breaks"
	reportService "github.com/attendsync/attendance-backend-go/internal/service/report"
	syncService "github.com/attendsync/attendance-backend-go/internal/service/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	facilityRepo := postgresql.NewFacilityRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	syncFailureRepo := postgresql.NewSyncFailureRepository(db)

	gateway := devicegw.NewClient(cfg.Sync.DeviceTimeout)

	mutator := attendanceService.NewMutator(attendanceRepo)
	pipeline := syncService.NewPipeline(employeeRepo, shiftRepo, mutator, syncFailureRepo)
	facilitySync := syncService.NewService(facilityRepo, employeeRepo, gateway, pipeline, cfg.Sync)
	breakSvc := breakService.NewService(attendanceRepo, mutator, employeeRepo, facilityRepo, shiftRepo)
	reportSvc := reportService.NewService(attendanceRepo, employeeRepo, shiftRepo, leaveRepo, cfg.Report)

	scheduler := cron.NewScheduler()
	facilitySync.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(reportSvc)
	breakHandler := appHTTP.NewBreakHandler(breakSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	facilityHandler := appHTTP.NewFacilityHandler(facilityRepo, syncFailureRepo, facilitySync)

	router := appHTTP.NewRouter(cfg, attendanceHandler, breakHandler, reportHandler, facilityHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Starting server on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
