package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/integrations"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/validation"
)

type emailReminderRequest struct {
	RecipientEmail string `json:"recipient_email"`
	CustomMessage  string `json:"custom_message"`
}

func (h *handlerImpl) HandleEmailReminder(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	// The body is optional; an empty one falls back to the
	// configured default recipient.
	var req emailReminderRequest
	_ = c.ShouldBindJSON(&req)

	if req.RecipientEmail != "" && !validation.ValidateEmail(req.RecipientEmail) {
		respondValidationErrors(c, []string{"Invalid email format"})
		return
	}

	task, err := h.tasks.GetTaskByID(c, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			respondNotFound(c, "Task")
			return
		}
		respondInternalError(c, "Failed to retrieve task")
		return
	}

	result, err := h.mail.SendTaskReminder(c, task, req.RecipientEmail, req.CustomMessage)
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to send email: %s", err))
		return
	}

	respondSuccess(c, http.StatusOK, "Email reminder sent successfully", gin.H{
		"task_id":    task.ID,
		"task_title": task.Title,
		"recipient":  result.Recipient,
		"message_id": result.MessageID,
		"status":     "sent",
	})
}

type batchRemindersRequest struct {
	RecipientEmail string `json:"recipient_email"`
}

func (h *handlerImpl) HandleBatchEmailReminders(c *gin.Context) {
	var req batchRemindersRequest
	_ = c.ShouldBindJSON(&req)

	if req.RecipientEmail == "" {
		respondError(c, http.StatusBadRequest, "Recipient email is required")
		return
	}
	if !validation.ValidateEmail(req.RecipientEmail) {
		respondValidationErrors(c, []string{"Invalid email format"})
		return
	}

	overdue, err := h.tasks.OverdueTasks(c)
	if err != nil {
		respondInternalError(c, "Failed to retrieve overdue tasks")
		return
	}

	now := time.Now()
	successful, failed := 0, 0
	processed := make([]gin.H, 0, len(overdue))
	for _, task := range overdue {
		_, sendErr := h.mail.SendTaskReminder(c, task, req.RecipientEmail, "")
		sent := sendErr == nil
		if sent {
			successful++
		} else {
			failed++
		}

		daysOverdue := 0
		if days, ok := task.DaysUntilDue(now); ok && days < 0 {
			daysOverdue = -days
		}
		entry := gin.H{
			"task_id":      task.ID,
			"title":        task.Title,
			"days_overdue": daysOverdue,
			"email_sent":   sent,
		}
		if task.DueDate != nil {
			entry["due_date"] = task.DueDate.Format(dueDateLayout)
		}
		processed = append(processed, entry)
	}

	message := fmt.Sprintf("Batch email reminders sent for %d overdue tasks", successful)
	respondSuccess(c, http.StatusOK, message, gin.H{
		"total_tasks":       len(overdue),
		"successful_emails": successful,
		"failed_emails":     failed,
		"recipient_email":   req.RecipientEmail,
		"processed_tasks":   processed,
	})
}

type exportRequest struct {
	SpreadsheetName string `json:"spreadsheet_name"`
}

func (h *handlerImpl) HandleExportToSheets(c *gin.Context) {
	var req exportRequest
	_ = c.ShouldBindJSON(&req)

	result := validation.ValidateExport(&req.SpreadsheetName)
	if !result.Valid {
		respondValidationErrors(c, result.Errors)
		return
	}

	tasks, err := h.tasks.ListTasks(c, services.TaskFilter{})
	if err != nil {
		respondInternalError(c, "Failed to retrieve tasks")
		return
	}
	if len(tasks) == 0 {
		respondError(c, http.StatusNotFound, "No tasks found to export")
		return
	}

	export, err := h.sheets.ExportTasks(c, tasks, req.SpreadsheetName)
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to export to sheets: %s", err))
		return
	}

	message := fmt.Sprintf("Successfully exported %d tasks to Google Sheets", export.TasksExported)
	respondSuccess(c, http.StatusOK, message, gin.H{
		"spreadsheet_id":   export.SpreadsheetID,
		"spreadsheet_name": export.SpreadsheetName,
		"spreadsheet_url":  export.SpreadsheetURL,
		"tasks_exported":   export.TasksExported,
		"status":           "exported",
	})
}

type addToCalendarRequest struct {
	EventTitle      string `json:"event_title"`
	Description     string `json:"description"`
	DurationMinutes *int   `json:"duration_minutes"`
	ReminderMinutes *int   `json:"reminder_minutes"`
	Location        string `json:"location"`
}

func (h *handlerImpl) HandleAddToCalendar(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req addToCalendarRequest
	_ = c.ShouldBindJSON(&req)

	result := validation.ValidateCalendar(validation.CalendarInput{
		DurationMinutes: req.DurationMinutes,
		ReminderMinutes: req.ReminderMinutes,
		Location:        &req.Location,
	})
	if !result.Valid {
		respondValidationErrors(c, result.Errors)
		return
	}

	task, err := h.tasks.GetTaskByID(c, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			respondNotFound(c, "Task")
			return
		}
		respondInternalError(c, "Failed to retrieve task")
		return
	}

	opts := integrations.EventOptions{
		EventTitle:  req.EventTitle,
		Description: req.Description,
		Location:    req.Location,
	}
	if req.DurationMinutes != nil {
		opts.DurationMinutes = *req.DurationMinutes
	}
	if req.ReminderMinutes != nil {
		opts.ReminderMinutes = *req.ReminderMinutes
	}

	event, err := h.calendar.CreateEventFromTask(c, task, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to add to calendar: %s", err))
		return
	}

	// Remember the event so it can be removed later. A failure here
	// leaves an orphan event but the request already succeeded upstream.
	_, err = h.tasks.UpdateTask(c, id, services.UpdateTaskParams{CalendarEventID: &event.EventID})
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", id).
			Str("event_id", event.EventID).
			Msg("failed to store calendar event id")
	}

	respondSuccess(c, http.StatusOK, "Task added to calendar successfully", gin.H{
		"task_id":     task.ID,
		"event_id":    event.EventID,
		"event_url":   event.EventURL,
		"event_title": event.EventTitle,
		"start_time":  event.StartTime.Format(dueDateLayout),
		"status":      "created",
	})
}

func (h *handlerImpl) HandleRemoveFromCalendar(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskByID(c, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			respondNotFound(c, "Task")
			return
		}
		respondInternalError(c, "Failed to retrieve task")
		return
	}

	if task.CalendarEventID == "" {
		respondError(c, http.StatusBadRequest, "Task is not in calendar")
		return
	}

	err = h.calendar.DeleteEvent(c, task.CalendarEventID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to remove from calendar: %s", err))
		return
	}

	cleared := ""
	_, err = h.tasks.UpdateTask(c, id, services.UpdateTaskParams{CalendarEventID: &cleared})
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to clear calendar event id")
	}

	respondSuccess(c, http.StatusOK, "Task removed from calendar successfully", gin.H{
		"task_id": task.ID,
		"status":  "removed",
	})
}

func (h *handlerImpl) HandleIntegrationStatus(c *gin.Context) {
	respondSuccess(c, http.StatusOK, "Integration status retrieved", gin.H{
		"gmail":    h.mail.Status(),
		"sheets":   h.sheets.Status(),
		"calendar": h.calendar.Status(),
	})
}
