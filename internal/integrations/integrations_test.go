package integrations

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/config"
	googleauth "github.com/taskhive/taskhive/internal/google"
	"github.com/taskhive/taskhive/internal/models"
)

func sampleTask() *models.Task {
	due := time.Date(2026, 7, 25, 10, 0, 0, 0, time.Local)
	created := time.Date(2026, 7, 20, 9, 0, 0, 0, time.Local)
	return &models.Task{
		ID:          7,
		Title:       "Quarterly report",
		Description: "Compile the Q2 numbers",
		DueDate:     &due,
		Priority:    models.PriorityHigh,
		Status:      models.StatusInProgress,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestDueSummary(t *testing.T) {
	now := time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"no due date", nil, "This task has no due date."},
		{"due today", timePtr(now.Add(6 * time.Hour)), "This task is due today!"},
		{"due in days", timePtr(now.Add(72 * time.Hour)), "This task is due in 3 day(s)."},
		{"overdue", timePtr(now.Add(-48 * time.Hour)), "This task is 2 day(s) overdue!"},
		{"overdue under a day", timePtr(now.Add(-2 * time.Hour)), "This task is 1 day(s) overdue!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Task{Title: "t", Status: models.StatusPending, DueDate: tt.due}
			assert.Equal(t, tt.want, dueSummary(task, now))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestReminderSubject(t *testing.T) {
	task := sampleTask()
	assert.Equal(t, "Task Reminder: Quarterly report", reminderSubject(task))

	past := time.Now().Add(-time.Hour)
	task.DueDate = &past
	assert.Equal(t, "Overdue Task Reminder: Quarterly report", reminderSubject(task))
}

func TestBuildReminderMIME(t *testing.T) {
	task := sampleTask()
	raw := buildReminderMIME(task, "someone@example.com", "Please hurry")

	assert.True(t, strings.HasPrefix(raw, "To: someone@example.com\r\n"))
	assert.Contains(t, raw, "Subject: Task Reminder: Quarterly report\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative")
	assert.Contains(t, raw, "Content-Type: text/plain")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "Please hurry")
	assert.Contains(t, raw, "Priority: high")
	// Underscored statuses read as words in the body.
	assert.Contains(t, raw, "Status: in progress")
	assert.True(t, strings.HasSuffix(raw, "--taskhive-reminder--\r\n"))
}

func TestBuildTaskRows(t *testing.T) {
	now := time.Date(2026, 7, 26, 12, 0, 0, 0, time.Local)
	task := sampleTask()
	rows := buildTaskRows([]*models.Task{task}, now)

	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Overdue", rows[0][6])

	row := rows[1]
	assert.Equal(t, "7", row[0])
	assert.Equal(t, "Quarterly report", row[1])
	assert.Equal(t, "high", row[3])
	assert.Equal(t, "in_progress", row[4])
	assert.Equal(t, "2026-07-25 10:00:00", row[5])
	assert.Equal(t, "true", row[6])
}

func TestBuildTaskRowsEmptyDueDate(t *testing.T) {
	task := sampleTask()
	task.DueDate = nil
	rows := buildTaskRows([]*models.Task{task}, time.Now())

	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][5])
	assert.Equal(t, "false", rows[1][6])
}

func TestBuildCalendarEvent(t *testing.T) {
	task := sampleTask()
	event := buildCalendarEvent(task, EventOptions{})

	assert.Equal(t, "Quarterly report (In Progress)", event.Summary)
	assert.Equal(t, task.DueDate.Format(time.RFC3339), event.Start.DateTime)
	assert.Equal(t, task.DueDate.Add(time.Hour).Format(time.RFC3339), event.End.DateTime)
	assert.Contains(t, event.Description, "Task: Quarterly report")
	assert.Contains(t, event.Description, "Compile the Q2 numbers")
	require.NotNil(t, event.Reminders)
	assert.False(t, event.Reminders.UseDefault)
	require.Len(t, event.Reminders.Overrides, 2)
	assert.Equal(t, "email", event.Reminders.Overrides[0].Method)
	assert.Equal(t, int64(15), event.Reminders.Overrides[0].Minutes)
	assert.Empty(t, event.Location)
}

func TestBuildCalendarEventCustomOptions(t *testing.T) {
	task := sampleTask()
	event := buildCalendarEvent(task, EventOptions{
		EventTitle:      "Review meeting",
		DurationMinutes: 30,
		ReminderMinutes: 120,
		Location:        "Room 4",
	})

	assert.Equal(t, "Review meeting", event.Summary)
	assert.Equal(t, task.DueDate.Add(30*time.Minute).Format(time.RFC3339), event.End.DateTime)
	assert.Equal(t, int64(120), event.Reminders.Overrides[0].Minutes)
	assert.Equal(t, "Room 4", event.Location)
}

func TestGmailClientReadiness(t *testing.T) {
	// Neither google credentials nor SMTP configured.
	client := &GmailClient{}
	assert.False(t, client.Ready())
	assert.Equal(t, StatusNotConfigured, client.Status().Status)
}

func TestSendTaskReminderUnauthorizedGmailFallsBackToSMTP(t *testing.T) {
	tmp := t.TempDir()
	// Credentials file configured but never authorized: no cached token.
	creds := googleauth.Credentials{
		CredentialsFile: filepath.Join(tmp, "credentials.json"),
		TokenFile:       filepath.Join(tmp, "missing.token"),
	}
	client := NewGmailClient(zerolog.Nop(), creds, config.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     1,
		Username: "mailer@example.com",
	}, "")

	require.True(t, client.Ready())

	// The dial to the dead port proves the SMTP transport was chosen
	// over the unusable Gmail path.
	_, err := client.SendTaskReminder(context.Background(), sampleTask(), "someone@example.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp error")
}

func TestSendTaskReminderNoTransport(t *testing.T) {
	client := &GmailClient{}
	_, err := client.SendTaskReminder(context.Background(), sampleTask(), "someone@example.com", "")
	assert.ErrorContains(t, err, "mail service not available")
}
