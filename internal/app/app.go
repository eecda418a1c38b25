package app

import (
	"context"

	"portal/config"
	"portal/internal/database"
	"portal/internal/events"
	"portal/internal/handlers/middleware"
	"portal/internal/logger"
	"portal/internal/metrics"
	"portal/internal/notifications"
	"portal/internal/repositories"
	"portal/internal/services"
	"portal/internal/utils"
	"portal/internal/validation"
	"portal/internal/websockets"

	adminController "portal/internal/controllers/admin"
	authController "portal/internal/controllers/auth"
	submissionController "portal/internal/controllers/submission"
	workflowController "portal/internal/controllers/workflow"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Metrics    *metrics.Metrics
	Notifier   notifications.Notifier
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	CacheInvalidation  *services.CacheInvalidationService
	TokenService       *services.TokenService

	// Repositories
	PensionRepo       repositories.PensionRepository
	FamilyPensionRepo repositories.FamilyPensionRepository
	ContactRepo       repositories.ContactRepository
	AdminRepo         repositories.AdminRepository
	ReportRepo        repositories.ReportRepository

	// Controllers
	SubmissionController *submissionController.SubmissionController
	WorkflowController   *workflowController.WorkflowController
	AuthController       *authController.AuthController
	AdminController      *adminController.AdminController
}

// New wires every component against cfg and brings the schema up to date.
func New(cfg config.Config) (*App, error) {
	log := logger.New("app").Function("New")

	if err := cfg.Validate(); err != nil {
		return &App{}, log.Err("invalid config", err)
	}

	location, err := cfg.Location()
	if err != nil {
		return &App{}, log.Err("failed to load reporting time zone", err, "timezone", cfg.ReportingTimezone)
	}

	db, err := database.New(cfg)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if _, err := db.Migrate(); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to apply migrations", err)
	}

	eventBus := events.New(db.Cache.Events)
	appMetrics := metrics.New()

	// Initialize services
	transactionService := services.NewTransactionService(db)
	cacheInvalidation := services.NewCacheInvalidationService(eventBus, db.Cache.Records)
	cacheInvalidation.Register()
	tokenService := services.NewTokenService(cfg.SecurityJwtSecret, cfg.SecurityJwtIssuer, cfg.SecurityJwtExpiry)

	notifier := notifications.NewNoop()
	if cfg.MailEnabled {
		client := notifications.NewClient(notifications.ConfigFrom(cfg))
		notifier = notifications.New(client, appMetrics.IncrementNotification)
	}

	// Initialize repositories
	pensionRepo := repositories.NewPension(db)
	familyPensionRepo := repositories.NewFamilyPension(db)
	contactRepo := repositories.NewContact(db)
	adminRepo := repositories.NewAdmin(db)
	reportRepo := repositories.NewReport(db)

	// Initialize controllers with repositories and services
	validator := validation.New(cfg.Relationships())
	submissions := submissionController.New(
		validator,
		utils.NewPhoneNormalizer(cfg.ValidationPhoneRegion),
		pensionRepo,
		familyPensionRepo,
		contactRepo,
		eventBus,
		appMetrics,
		notifier,
	)
	workflow := workflowController.New(
		pensionRepo,
		familyPensionRepo,
		contactRepo,
		transactionService,
		cacheInvalidation,
		eventBus,
		appMetrics,
		notifier,
	)
	auth := authController.New(adminRepo, tokenService, validator, appMetrics)
	admin := adminController.New(
		pensionRepo,
		familyPensionRepo,
		contactRepo,
		reportRepo,
		appMetrics,
		location,
	)

	websocket, err := websockets.New(eventBus, appMetrics)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:             db,
		Config:               cfg,
		Middleware:           middleware.New(auth, appMetrics),
		Websocket:            websocket,
		EventBus:             eventBus,
		Metrics:              appMetrics,
		Notifier:             notifier,
		TransactionService:   transactionService,
		CacheInvalidation:    cacheInvalidation,
		TokenService:         tokenService,
		PensionRepo:          pensionRepo,
		FamilyPensionRepo:    familyPensionRepo,
		ContactRepo:          contactRepo,
		AdminRepo:            adminRepo,
		ReportRepo:           reportRepo,
		SubmissionController: submissions,
		WorkflowController:   workflow,
		AuthController:       auth,
		AdminController:      admin,
	}

	if err := app.validate(); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	eventBus.Start(context.Background())

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]bool{
		"websocket":          a.Websocket == nil,
		"eventBus":           a.EventBus == nil,
		"metrics":            a.Metrics == nil,
		"notifier":           a.Notifier == nil,
		"transactionService": a.TransactionService == nil,
		"cacheInvalidation":  a.CacheInvalidation == nil,
		"tokenService":       a.TokenService == nil,
		"pensionRepo":        a.PensionRepo == nil,
		"familyPensionRepo":  a.FamilyPensionRepo == nil,
		"contactRepo":        a.ContactRepo == nil,
		"adminRepo":          a.AdminRepo == nil,
		"reportRepo":         a.ReportRepo == nil,
		"submission":         a.SubmissionController == nil,
		"workflow":           a.WorkflowController == nil,
		"auth":               a.AuthController == nil,
		"admin":              a.AdminController == nil,
	}

	for name, isNil := range nilChecks {
		if isNil {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

// Close drains pending notifications and websocket clients before the event
// bus and database go away.
func (a *App) Close() (err error) {
	if a.Notifier != nil {
		a.Notifier.Close()
	}

	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Database.SQL != nil {
		if dbErr := a.Database.Close(); dbErr != nil {
			err = dbErr
		}
	}

	return err
}
