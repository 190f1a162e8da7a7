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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	authpg "github.com/frahmantamala/user-management/internal/auth/postgres"
	"github.com/frahmantamala/user-management/internal/core/events"
	"github.com/frahmantamala/user-management/internal/mailer"
	"github.com/frahmantamala/user-management/internal/storage"
	storagepg "github.com/frahmantamala/user-management/internal/storage/postgres"
	"github.com/frahmantamala/user-management/internal/storage/s3"
	"github.com/frahmantamala/user-management/internal/transport/rest"
	"github.com/frahmantamala/user-management/internal/user"
	userpg "github.com/frahmantamala/user-management/internal/user/postgres"
	"github.com/frahmantamala/user-management/pkg/logger"
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
	Config         *internal.Config
	DB             *sqlx.DB
	Router         *chi.Mux
	AuthHandler    *auth.Handler
	UserHandler    *user.Handler
	StorageHandler *storage.Handler
	Logger         *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthHandler, deps.UserHandler, deps.StorageHandler, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authpg.NewRepository(gormDB), tokenGen, config.Security.BCryptCost, appLogger)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userpg.NewUserRepository(gormDB), authService, eventBus, appLogger)
	userHandler := user.NewHandler(userService)

	storageHandler, err := initStorage(config, gormDB, appLogger)
	if err != nil {
		return nil, err
	}

	if config.SMTP.Enabled {
		sender, err := mailer.NewSender(config.SMTP, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mailer: %w", err)
		}
		mailer.RegisterSubscribers(eventBus, sender)
	}

	return &Dependencies{
		Config:         config,
		Logger:         appLogger,
		DB:             db,
		Router:         chi.NewRouter(),
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		StorageHandler: storageHandler,
	}, nil
}

func initStorage(config *internal.Config, gormDB *gorm.DB, appLogger *slog.Logger) (*storage.Handler, error) {
	s3Client, err := s3.NewClient(context.Background(), s3.Options{
		Bucket:       config.Storage.Bucket,
		Region:       config.Storage.Region,
		EndpointURL:  config.Storage.EndpointURL,
		UsePathStyle: config.Storage.UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}

	storageService := storage.NewService(s3Client, storagepg.NewFileRepository(gormDB), config.Storage.PresignTTL, appLogger)
	return storage.NewHandler(storageService, int(config.Storage.MaxUploadMB)), nil
}

// initDB initializes the database connection
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

// initGorm layers the ORM over the already-open pgx connection pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{TranslateError: true})
}
