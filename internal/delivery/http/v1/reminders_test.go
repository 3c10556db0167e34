package v1

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/integrations"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/scheduler"
)

type stubMailer struct {
	ready bool
	sent  int
}

func (m *stubMailer) Ready() bool { return m.ready }

func (m *stubMailer) SendTaskReminder(context.Context, *models.Task, string, string) (*integrations.SendResult, error) {
	m.sent++
	return &integrations.SendResult{MessageID: "stub"}, nil
}

func newReminderRouter(svc *fakeTaskService, mailer scheduler.Mailer) (*gin.Engine, *scheduler.Reminder) {
	reminder := scheduler.NewReminder(zerolog.Nop(), svc, mailer, scheduler.SystemClock(), "owner@example.com")
	h := newTestHandler(svc)
	h.reminder = reminder

	router := gin.New()
	router.GET("/reminders/status", h.HandleReminderStatus)
	router.POST("/reminders/start", h.HandleStartReminders)
	router.POST("/reminders/stop", h.HandleStopReminders)
	router.POST("/reminders/check", h.HandleCheckReminders)
	return router, reminder
}

func TestHandleReminderStatus(t *testing.T) {
	router, _ := newReminderRouter(&fakeTaskService{}, &stubMailer{ready: true})

	w := performRequest(router, http.MethodGet, "/reminders/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["running"])
	assert.Equal(t, true, data["mailer_ready"])
	assert.Equal(t, "owner@example.com", data["recipient_email"])
	assert.Equal(t, float64(15), data["check_interval_minutes"])
	assert.Equal(t, float64(0), data["total_reminders_sent"])
}

func TestHandleStartStopReminders(t *testing.T) {
	router, reminder := newReminderRouter(&fakeTaskService{}, &stubMailer{ready: true})
	defer func() { _ = reminder.Stop() }()

	w := performRequest(router, http.MethodPost, "/reminders/start", gin.H{"check_interval_minutes": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(5), data["check_interval_minutes"])

	// Starting twice conflicts.
	w = performRequest(router, http.MethodPost, "/reminders/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(router, http.MethodPost, "/reminders/stop", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Stopping twice conflicts too.
	w = performRequest(router, http.MethodPost, "/reminders/stop", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleStartRemindersMailerNotReady(t *testing.T) {
	router, _ := newReminderRouter(&fakeTaskService{}, &stubMailer{ready: false})

	w := performRequest(router, http.MethodPost, "/reminders/start", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleCheckReminders(t *testing.T) {
	svc := &fakeTaskService{}
	due := time.Now().Add(24 * time.Hour)
	svc.tasks = append(svc.tasks, &models.Task{
		ID:       1,
		Title:    "Due tomorrow",
		DueDate:  &due,
		Priority: models.PriorityMedium,
		Status:   models.StatusPending,
	})
	mailer := &stubMailer{ready: true}
	router, _ := newReminderRouter(svc, mailer)

	w := performRequest(router, http.MethodPost, "/reminders/check", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["reminders_sent"])
	assert.Equal(t, 1, mailer.sent)
}
