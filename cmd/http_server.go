package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	attendancePostgres "github.com/frahmantamala/attendance-tracker/internal/attendance/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/attendance-tracker/internal/auth/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
	"github.com/frahmantamala/attendance-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/attendance-tracker/internal/department/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/notification"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/frahmantamala/attendance-tracker/internal/transport/rest"
	"github.com/frahmantamala/attendance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/attendance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/attendance-tracker/internal/user/postgres"
	"github.com/frahmantamala/attendance-tracker/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	GormDB     *gorm.DB
	Router     *chi.Mux
	Logger     *slog.Logger
	Dispatcher *notification.Dispatcher
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.Dispatcher != nil {
			deps.Dispatcher.Shutdown()
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Env, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides the existing pgx pool. TranslateError makes unique index
	// violations come back as gorm.ErrDuplicatedKey, which the attendance
	// repository depends on.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		lg.Warn("openapi spec validation failed", "error", err)
	}

	policy, err := attendance.NewPolicy(
		config.Attendance.Timezone,
		config.Attendance.LateThreshold,
		config.Attendance.HalfDayHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance policy: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	var dispatcher *notification.Dispatcher
	if config.Notification.WebhookURL != "" {
		dispatcher = notification.NewDispatcher(notification.Config{
			WebhookURL:   config.Notification.WebhookURL,
			APIKey:       config.Notification.APIKey,
			SendTimeout:  config.Notification.SendTimeout,
			MaxWorkers:   config.Notification.MaxWorkers,
			JobQueueSize: config.Notification.JobQueueSize,
		}, lg)
		dispatcher.RegisterHandlers(eventBus)
	}

	// repositories
	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewRepository(gormDB)
	attendanceRepo := attendancePostgres.NewRepository(gormDB)
	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)

	// services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo, lg, config.Security.BCryptCost)
	attendanceService := attendance.NewService(attendanceRepo, policy, eventBus, lg)
	departmentService := department.NewService(departmentRepo, lg)
	reportService := report.NewService(userRepo, attendanceRepo, policy, lg)

	// handlers
	authHandler := auth.NewHandler(authService)
	roleAuth := auth.NewRoleAuthorization(lg)
	userHandler := user.NewHandler(userService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	departmentHandler := department.NewHandler(transport.NewBaseHandler(lg), departmentService)
	reportHandler := report.NewHandler(reportService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(
		router,
		db.DB,
		authHandler,
		roleAuth,
		userHandler,
		attendanceHandler,
		departmentHandler,
		reportHandler,
		config.Server.AllowedOrigins,
		lg,
	)

	return &Dependencies{
		Config:     config,
		Logger:     lg,
		DB:         db,
		GormDB:     gormDB,
		Router:     router,
		Dispatcher: dispatcher,
	}, nil
}

// initDB opens the pgx-backed connection pool used by both sqlx (health
// checks) and gorm (repositories).
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
