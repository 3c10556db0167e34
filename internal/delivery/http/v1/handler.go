package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	googleauth "github.com/taskhive/taskhive/internal/google"
	"github.com/taskhive/taskhive/internal/integrations"
	"github.com/taskhive/taskhive/internal/scheduler"
	"github.com/taskhive/taskhive/internal/services"
)

type Handler interface {
	HandleHealth(c *gin.Context)
	HandleServerTime(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleEmailReminder(c *gin.Context)
	HandleBatchEmailReminders(c *gin.Context)
	HandleExportToSheets(c *gin.Context)
	HandleAddToCalendar(c *gin.Context)
	HandleRemoveFromCalendar(c *gin.Context)
	HandleIntegrationStatus(c *gin.Context)
	HandleGoogleAuthURL(c *gin.Context)
	HandleGoogleAuthCallback(c *gin.Context)

	HandleDashboard(c *gin.Context)

	HandleReminderStatus(c *gin.Context)
	HandleStartReminders(c *gin.Context)
	HandleStopReminders(c *gin.Context)
	HandleCheckReminders(c *gin.Context)

	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	tasks    services.TaskService
	auth     services.AuthService
	sessions services.SessionService
	creds    googleauth.Credentials
	mail     *integrations.GmailClient
	sheets   *integrations.SheetsClient
	calendar *integrations.CalendarClient
	reminder *scheduler.Reminder
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	authService services.AuthService,
	sessionService services.SessionService,
	creds googleauth.Credentials,
	mailClient *integrations.GmailClient,
	sheetsClient *integrations.SheetsClient,
	calendarClient *integrations.CalendarClient,
	reminder *scheduler.Reminder,
) Handler {
	return &handlerImpl{
		logger:   logger,
		tasks:    taskService,
		auth:     authService,
		sessions: sessionService,
		creds:    creds,
		mail:     mailClient,
		sheets:   sheetsClient,
		calendar: calendarClient,
		reminder: reminder,
	}
}
