package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/scheduler"
)

func (h *handlerImpl) HandleReminderStatus(c *gin.Context) {
	status := h.reminder.Status()
	respondSuccess(c, http.StatusOK, "Reminder status retrieved", gin.H{
		"running":                status.Running,
		"mailer_ready":           status.MailerReady,
		"recipient_email":        status.RecipientEmail,
		"check_interval_minutes": int(status.CheckInterval.Minutes()),
		"reminders_sent_24h":     status.RemindersSent24h,
		"reminders_sent_1h":      status.RemindersSent1h,
		"total_reminders_sent":   status.TotalRemindersSent,
	})
}

type startRemindersRequest struct {
	CheckIntervalMinutes int `json:"check_interval_minutes"`
}

func (h *handlerImpl) HandleStartReminders(c *gin.Context) {
	var req startRemindersRequest
	_ = c.ShouldBindJSON(&req)

	interval := time.Duration(req.CheckIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = scheduler.DefaultCheckInterval
	}

	err := h.reminder.Start(interval)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrAlreadyRunning):
			respondError(c, http.StatusConflict, err.Error())
		case errors.Is(err, scheduler.ErrMailerNotReady):
			respondError(c, http.StatusServiceUnavailable, err.Error())
		default:
			respondInternalError(c, "Failed to start automated reminders")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "Automated reminders started successfully", gin.H{
		"check_interval_minutes": int(interval.Minutes()),
	})
}

func (h *handlerImpl) HandleStopReminders(c *gin.Context) {
	err := h.reminder.Stop()
	if err != nil {
		if errors.Is(err, scheduler.ErrNotRunning) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		respondInternalError(c, "Failed to stop automated reminders")
		return
	}

	respondSuccess(c, http.StatusOK, "Automated reminders stopped successfully", nil)
}

func (h *handlerImpl) HandleCheckReminders(c *gin.Context) {
	sent, err := h.reminder.CheckNow(c)
	if err != nil {
		respondInternalError(c, "Failed to check reminders")
		return
	}

	respondSuccess(c, http.StatusOK, "Reminder check completed", gin.H{
		"reminders_sent": sent,
	})
}
