package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/config"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/handler/http/middleware"
	"github.com/mengistu3137/jimma-zone-erp/internal/handler/http/response"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/jwt"
)

func NewRouter(
	appConfig config.AppConfig,
	JWTService jwt.Service,
	userRepository user.UserRepository,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	officeHandler OfficeHandler,
	employeeHandler EmployeeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appConfig.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "jimma-zone-erp"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appConfig.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(userRepository))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", attendanceHandler.Mark)
				r.Post("/submit", attendanceHandler.Submit)
				r.With(middleware.AdminOnly).Post("/full-day", attendanceHandler.MarkFullDay)
				r.Post("/me/full-day", attendanceHandler.MarkMyFullDay)

				r.Get("/", attendanceHandler.Grid)
				r.Get("/range", attendanceHandler.ListByDateRange)
				r.Get("/attendance-detail", attendanceHandler.DayDetails)
				r.Get("/manager/hierarchy", attendanceHandler.ListByOfficeHierarchy)
				r.Get("/manager/hierarchy/export", attendanceHandler.ExportOfficeHierarchy)
				r.Get("/user/{userId}", attendanceHandler.ListByUser)

				r.Get("/stats/{userId}", attendanceHandler.Stats)
				r.Get("/me/today", attendanceHandler.Today)
				r.Get("/me/weekly/{year}/{week}", attendanceHandler.Weekly)
				r.Get("/me/monthly/{year}/{month}", attendanceHandler.Monthly)
				r.Get("/me/yearly/{year}", attendanceHandler.Yearly)

				r.Route("/leave-requests", func(r chi.Router) {
					r.Post("/", leaveHandler.CreateRequest)
					r.Get("/", leaveHandler.ListRequests)
					r.Get("/pending", leaveHandler.ListPendingRequests)
					r.Get("/{id}", leaveHandler.GetRequest)
					r.Put("/{id}/approve", leaveHandler.ApproveRequest)
					r.Put("/{id}/reject", leaveHandler.RejectRequest)
				})

				r.Get("/{id}", attendanceHandler.Get)
				r.Put("/{id}", attendanceHandler.Update)
				r.Delete("/{id}", attendanceHandler.Delete)
			})

			r.Route("/offices", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionViewOffices))
				r.Get("/", officeHandler.List)
				r.Get("/{id}/hierarchy", officeHandler.Hierarchy)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionViewEmployees))
				r.Get("/", employeeHandler.ListEmployees)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
