package http

import (
	"log/slog"
	"os"

	"github.com/attendsync/attendance-backend-go/internal/config"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	cfg *config.Config,
	attendanceHandler AttendanceHandler,
	breakHandler BreakHandler,
	reportHandler ReportHandler,
	facilityHandler FacilityHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendsync"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.List)

			r.Route("/breaks", func(r chi.Router) {
				r.Post("/start", breakHandler.Start)
				r.Post("/end", breakHandler.End)
				r.Get("/status/{employeeID}", breakHandler.Status)
				r.Get("/history/{employeeID}", breakHandler.History)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/attendance", reportHandler.Attendance)
			r.Get("/summary", reportHandler.Summary)
		})

		r.Route("/facilities/{facilityID}", func(r chi.Router) {
			r.Post("/sync", facilityHandler.TriggerSync)
			r.Get("/sync-status", facilityHandler.SyncStatus)
			r.Get("/sync-failures", facilityHandler.SyncFailures)
		})
	})

	return r
}
