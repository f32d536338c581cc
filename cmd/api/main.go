package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/config"
	appHTTP "github.com/mengistu3137/jimma-zone-erp/internal/handler/http"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/cron"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/jwt"
	"github.com/mengistu3137/jimma-zone-erp/internal/repository/postgresql"
	attendanceService "github.com/mengistu3137/jimma-zone-erp/internal/service/attendance"
	employeeService "github.com/mengistu3137/jimma-zone-erp/internal/service/employee"
	leaveService "github.com/mengistu3137/jimma-zone-erp/internal/service/leave"
	officeService "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	shiftConfig, err := shift.LoadConfig(cfg.Attendance.ShiftConfigPath)
	if err != nil {
		log.Fatal("Error loading shift windows: ", err)
	}
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		log.Fatal("Error loading timezone: ", err)
	}
	shifts := shift.NewResolver(shiftConfig, loc, cfg.Attendance.HourOffset)

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	officeRepo := postgresql.NewOfficeRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hierarchy := officeService.NewHierarchyResolver(officeRepo)

	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		employeeRepo,
		officeRepo,
		hierarchy,
		shifts,
		cfg.Attendance.MaxDistanceMeters,
	)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveRequestRepo, employeeRepo, attendanceRepo, hierarchy, shifts)
	officeSvc := officeService.NewOfficeService(officeRepo, hierarchy)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, hierarchy)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		userRepo,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewOfficeHandler(officeSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
	)

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewAttendanceJobs(attendanceSvc, cfg.Cron.AbsenceSweepInterval).RegisterJobs(scheduler)
		scheduler.Start(ctx)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
