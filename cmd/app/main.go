package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"statusflow/cmd"
	inhttp "statusflow/internal/adapters/in/http"
	"statusflow/internal/adapters/out/postgres/eventrepo"
	"statusflow/internal/adapters/out/postgres/statusrepo"
	"statusflow/internal/core/application/usecases/commands"
	"statusflow/internal/core/domain/model/status"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := openDatabase(configs)
	migrateDatabase(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB)

	seedCoreStatuses(&app, gormDB)
	startJobs(&app)
	startTransitionConsumer(&app)
	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	config := cmd.Config{
		HTTPPort:         envVariable("HTTP_PORT"),
		DBHost:           envVariable("DB_HOST"),
		DBPort:           envVariable("DB_PORT"),
		DBUser:           envVariable("DB_USER"),
		DBPassword:       envVariable("DB_PASSWORD"),
		DBName:           envVariable("DB_NAME"),
		DBSslMode:        envVariable("DB_SSLMODE"),
		ProcessInterval:  envVariable("PROCESS_INTERVAL"),
		OrdersAPIBaseURL: envVariable("ORDERS_API_BASE_URL"),
		OrdersAPIKey:     envVariable("ORDERS_API_KEY"),
		SMTPHost:         envVariable("SMTP_HOST"),
		SMTPPort:         envIntVariable("SMTP_PORT", 587),
		SMTPUser:         envVariable("SMTP_USER"),
		SMTPPassword:     envVariable("SMTP_PASSWORD"),
		MailFrom:         envVariable("MAIL_FROM"),
	}
	return config
}

func envVariable(key string) string {
	return os.Getenv(key)
}

func envIntVariable(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return value
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	if err := gormDB.AutoMigrate(&statusrepo.StatusDTO{}, &eventrepo.EventDTO{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

// seedCoreStatuses imports the core preset into an empty directory so a
// fresh installation starts with the seven built-in statuses.
func seedCoreStatuses(app *cmd.CompositionRoot, gormDB *gorm.DB) {
	var count int64
	if err := gormDB.Model(&statusrepo.StatusDTO{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to inspect status directory: %v", err)
	}
	if count > 0 {
		return
	}

	importCmd, err := commands.NewImportStatusesCommand(status.PresetCore)
	if err != nil {
		log.Fatalf("Failed to build core preset import: %v", err)
	}

	handler := app.CreateImportStatusesCommandHandler()
	if err := handler.Handle(context.Background(), importCmd); err != nil {
		log.Fatalf("Failed to seed core statuses: %v", err)
	}
}

func startJobs(app *cmd.CompositionRoot) {
	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
}

func startTransitionConsumer(app *cmd.CompositionRoot) {
	consumer := app.CreateTransitionConsumer()
	go func() {
		if err := consumer.Run(context.Background()); err != nil && err != context.Canceled {
			log.Errorf("Transition consumer stopped: %v", err)
		}
	}()
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := inhttp.NewServer(
		app.CreateCreateStatusCommandHandler(),
		app.CreateUpdateStatusCommandHandler(),
		app.CreateDeleteStatusCommandHandler(),
		app.CreateImportStatusesCommandHandler(),
		app.CreateRecordTransitionCommandHandler(),
		app.CreateGetAllStatusesQueryHandler(),
		app.CreateGetTransitionLogQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
