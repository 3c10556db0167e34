package app

import (
	"errors"

	"github.com/taskhive/taskhive/internal/config"
	googleauth "github.com/taskhive/taskhive/internal/google"
	"github.com/taskhive/taskhive/internal/integrations"
	"github.com/taskhive/taskhive/internal/scheduler"
	"github.com/taskhive/taskhive/internal/services"
)

var (
	globalCredentials    googleauth.Credentials
	globalTaskService    services.TaskService
	globalAuthService    services.AuthService
	globalSessionService services.SessionService
	globalGmailClient    *integrations.GmailClient
	globalSheetsClient   *integrations.SheetsClient
	globalCalendarClient *integrations.CalendarClient
	globalReminder       *scheduler.Reminder
)

// MustInitServices builds the persistence-backed services and the
// shared external service clients. Clients are constructed once here
// and passed by reference into the route layer.
func MustInitServices() {
	cfg := config.Global()

	globalTaskService = services.NewTaskService(globalLogger, globalPostgresPool)
	globalAuthService = services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	globalSessionService = services.NewSessionService(globalLogger, globalPostgresPool)

	globalCredentials = googleauth.Credentials{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Google.TokenFile,
	}
	globalGmailClient = integrations.NewGmailClient(
		globalLogger,
		globalCredentials,
		cfg.SMTP,
		cfg.Google.DefaultRecipient,
	)
	globalSheetsClient = integrations.NewSheetsClient(globalLogger, globalCredentials)
	globalCalendarClient = integrations.NewCalendarClient(globalLogger, globalCredentials)

	globalLogger.Info().
		Bool("google_configured", globalCredentials.Configured()).
		Msg("initialized services")
}

// StartScheduler builds the reminder scheduler and, when enabled in
// the config, starts its background loop. A mail transport that is
// not yet configured only logs a warning so the API can still serve;
// the loop can be started later through the reminders routes.
func StartScheduler() {
	cfg := config.Global().Scheduler

	globalReminder = scheduler.NewReminder(
		globalLogger,
		globalTaskService,
		globalGmailClient,
		scheduler.SystemClock(),
		config.Global().Google.DefaultRecipient,
	)

	if !cfg.Enabled {
		globalLogger.Info().Msg("reminder scheduler disabled")
		return
	}

	err := globalReminder.Start(cfg.CheckInterval)
	if err != nil {
		if errors.Is(err, scheduler.ErrMailerNotReady) {
			globalLogger.Warn().
				Msg("reminder scheduler not started, mail service not configured")
			return
		}
		globalLogger.Error().
			Err(err).
			Msg("failed to start reminder scheduler")
		panic(err)
	}
}

// StopScheduler stops the reminder loop if it is running.
func StopScheduler() {
	err := globalReminder.Stop()
	if err != nil && !errors.Is(err, scheduler.ErrNotRunning) {
		globalLogger.Error().
			Err(err).
			Msg("failed to stop reminder scheduler")
	}
}
