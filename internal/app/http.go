package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskhive/taskhive/internal/config"
	v1 "github.com/taskhive/taskhive/internal/delivery/http/v1"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(v1.MetricsMiddleware())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	handler := v1.New(
		globalLogger,
		globalTaskService,
		globalAuthService,
		globalSessionService,
		globalCredentials,
		globalGmailClient,
		globalSheetsClient,
		globalCalendarClient,
		globalReminder,
	)

	router.GET("/health", handler.HandleHealth)
	router.GET("/time", handler.HandleServerTime)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	tasksRouter := router.Group("/tasks")
	tasksRouter.POST("", handler.HandleCreateTask)
	tasksRouter.GET("", handler.HandleGetTasks)
	tasksRouter.GET("/:id", handler.HandleGetTask)
	tasksRouter.PUT("/:id", handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", handler.HandleDeleteTask)

	tasksRouter.POST("/:id/email-reminder", handler.HandleEmailReminder)
	tasksRouter.POST("/batch/email-reminders", handler.HandleBatchEmailReminders)
	tasksRouter.POST("/export-to-sheets", handler.HandleExportToSheets)
	tasksRouter.POST("/:id/add-to-calendar", handler.HandleAddToCalendar)
	tasksRouter.DELETE("/:id/remove-from-calendar", handler.HandleRemoveFromCalendar)
	tasksRouter.GET("/integrations", handler.HandleIntegrationStatus)

	router.GET("/dashboard", handler.HandleDashboard)

	remindersRouter := router.Group("/reminders")
	remindersRouter.GET("/status", handler.HandleReminderStatus)
	remindersRouter.POST("/start", handler.HandleStartReminders)
	remindersRouter.POST("/stop", handler.HandleStopReminders)
	remindersRouter.POST("/check", handler.HandleCheckReminders)

	integrationsRouter := router.Group("/integrations/google")
	integrationsRouter.GET("/auth-url", handler.HandleGoogleAuthURL)
	integrationsRouter.POST("/authorize", handler.HandleGoogleAuthCallback)

	authRouter := router.Group("/auth")
	authRouter.POST("/login", handler.HandleLogin)
	authRouter.POST("/refresh", handler.HandleRefresh)
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/logout", handler.HandleAuthMiddleware, handler.HandleLogout)
}
