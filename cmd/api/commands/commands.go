package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/scholartrack/core/internal/adapters/notifier"
	"github.com/scholartrack/core/internal/adapters/repository"
	"github.com/scholartrack/core/internal/adapters/vault"
	"github.com/scholartrack/core/internal/application/reminder"
	"github.com/scholartrack/core/internal/application/services"
	"github.com/scholartrack/core/internal/infrastructure/config"
	"github.com/scholartrack/core/internal/infrastructure/database"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/infrastructure/server"
	"github.com/scholartrack/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long:  "Start the dashboard API server with the reminder scheduler running in the background",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewRemindCommand creates the remind command for running a tick by hand
func NewRemindCommand() *cobra.Command {
	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Run a reminder tick once",
		Long:  "Run the daily digest or deadline check once and exit, outside the cron schedule",
	}

	remindCmd.AddCommand(&cobra.Command{
		Use:   "digest",
		Short: "Send the daily digest now",
		Run: func(cmd *cobra.Command, args []string) {
			runReminderTick("digest")
		},
	})

	remindCmd.AddCommand(&cobra.Command{
		Use:   "deadline-check",
		Short: "Run the deadline check now",
		Run: func(cmd *cobra.Command, args []string) {
			runReminderTick("deadline-check")
		},
	})

	return remindCmd
}

// NewExportCommand creates the vault export command
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all data to the markdown vault",
		Run: func(cmd *cobra.Command, args []string) {
			runExport()
		},
	}
}

// NewUserCommand creates the owner account management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Owner account commands",
	}

	setPasswordCmd := &cobra.Command{
		Use:   "set-password",
		Short: "Set the owner account password",
		Run: func(cmd *cobra.Command, args []string) {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				log.Fatal("Password is required")
			}
			setOwnerPassword(password)
		},
	}
	setPasswordCmd.Flags().String("password", "", "New password (required)")

	userCmd.AddCommand(setPasswordCmd)
	return userCmd
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	srv, err := server.New(cfg, db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	// Provision the owner account on first run.
	initialPassword := os.Getenv("DASHBOARD_PASSWORD")
	if initialPassword == "" {
		initialPassword = "changeme"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := srv.EnsureOwner(ctx, "admin", initialPassword); err != nil {
		cancel()
		appLogger.Fatal("Failed to provision owner account", "error", err)
	}
	cancel()

	go func() {
		appLogger.Info("Starting dashboard API server",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
		)
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
}

func runMigration(direction string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	m, err := newMigrator(db)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	m, err := newMigrator(db)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func newMigrator(db *database.DB) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	return migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
}

type cliBackendBuilder struct{}

func (cliBackendBuilder) Webhook(url string) ports.Notifier {
	return notifier.NewWebhook(url)
}

func (cliBackendBuilder) Email(server, port, username, password, to string) ports.Notifier {
	return notifier.NewEmail(server, port, username, password, to)
}

func runReminderTick(kind string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	eventRepo := repository.NewEventRepository(db.DB)
	todoRepo := repository.NewTodoRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)

	factory := reminder.SettingsNotifierFactory(settingRepo, cliBackendBuilder{})
	engine := reminder.NewEngine(eventRepo, todoRepo, settingRepo, factory,
		reminder.ParseReminderDays(cfg.Reminder.DaysBefore), appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch kind {
	case "digest":
		err = engine.RunDailyDigest(ctx)
	case "deadline-check":
		err = engine.RunDeadlineCheck(ctx)
	}
	if err != nil {
		appLogger.Fatal("Reminder tick failed", "kind", kind, "error", err)
	}

	fmt.Printf("Reminder tick %s completed\n", kind)
}

func runExport() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	exportService := services.NewExportService(
		repository.NewEventRepository(db.DB),
		repository.NewResearcherRepository(db.DB),
		repository.NewDailyLogRepository(db.DB),
		repository.NewSettingRepository(db.DB),
		func(path string) ports.VaultExporter { return vault.NewExporter(path) },
		appLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stats, err := exportService.ExportVault(ctx)
	if err != nil {
		appLogger.Fatal("Vault export failed", "error", err)
	}

	fmt.Printf("Vault export completed:\n")
	fmt.Printf("  Events: %d\n", stats.Events)
	fmt.Printf("  Researchers: %d\n", stats.Researchers)
	fmt.Printf("  Daily logs: %d\n", stats.DailyLogs)
}

func setOwnerPassword(password string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := userRepo.First(ctx)
	if err != nil {
		log.Fatalf("No owner account found, run serve once to provision it: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	fmt.Printf("Password updated for %s\n", user.Username)
}
