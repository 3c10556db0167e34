package integrations

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	googleauth "github.com/taskhive/taskhive/internal/google"
	"github.com/taskhive/taskhive/internal/models"
)

const (
	defaultEventDuration = 60
	defaultEventReminder = 15
	primaryCalendar      = "primary"
)

// CalendarClient mirrors tasks into Google Calendar events.
type CalendarClient struct {
	logger zerolog.Logger
	creds  googleauth.Credentials

	mu  sync.Mutex
	svc *calendar.Service
}

func NewCalendarClient(logger zerolog.Logger, creds googleauth.Credentials) *CalendarClient {
	return &CalendarClient{
		logger: logger,
		creds:  creds,
	}
}

func (c *CalendarClient) Status() Status {
	switch {
	case c.creds.Configured() && c.creds.HasToken():
		return Status{Status: StatusConnected, Message: "Calendar service authorized"}
	case c.creds.Configured():
		return Status{Status: StatusReadyForSetup, Message: "Calendar service ready - OAuth2 setup required"}
	default:
		return Status{Status: StatusNotConfigured, Message: "Google credentials not configured"}
	}
}

// CreateEventFromTask creates a calendar event starting at the task's
// due date. Tasks without a due date cannot be scheduled.
func (c *CalendarClient) CreateEventFromTask(ctx context.Context, task *models.Task, opts EventOptions) (*EventResult, error) {
	if task.DueDate == nil {
		return nil, fmt.Errorf("task has no due date, cannot create a calendar event")
	}

	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	event := buildCalendarEvent(task, opts)
	created, err := svc.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		c.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to create calendar event")
		return nil, fmt.Errorf("calendar api error: %w", err)
	}

	c.logger.Info().
		Int64("task_id", task.ID).
		Str("event_id", created.Id).
		Msg("created calendar event")
	return &EventResult{
		EventID:    created.Id,
		EventURL:   created.HtmlLink,
		EventTitle: created.Summary,
		StartTime:  *task.DueDate,
	}, nil
}

// DeleteEvent removes an event from the primary calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(primaryCalendar, eventID).Context(ctx).Do()
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to delete calendar event")
		return fmt.Errorf("calendar api error: %w", err)
	}

	c.logger.Info().
		Str("event_id", eventID).
		Msg("deleted calendar event")
	return nil
}

func (c *CalendarClient) service(ctx context.Context) (*calendar.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	httpClient, err := c.creds.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	c.svc = svc
	return svc, nil
}

func buildCalendarEvent(task *models.Task, opts EventOptions) *calendar.Event {
	duration := opts.DurationMinutes
	if duration == 0 {
		duration = defaultEventDuration
	}
	reminder := opts.ReminderMinutes
	if reminder == 0 {
		reminder = defaultEventReminder
	}

	title := opts.EventTitle
	if title == "" {
		switch task.Status {
		case models.StatusCompleted:
			title = fmt.Sprintf("%s (Completed)", task.Title)
		case models.StatusInProgress:
			title = fmt.Sprintf("%s (In Progress)", task.Title)
		default:
			title = task.Title
		}
	}

	start := *task.DueDate
	end := start.Add(time.Duration(duration) * time.Minute)

	event := &calendar.Event{
		Summary:     title,
		Description: eventDescription(task, opts.Description),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: int64(reminder)},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if opts.Location != "" {
		event.Location = opts.Location
	}
	return event
}

func eventDescription(task *models.Task, extra string) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Task: %s", task.Title))
	lines = append(lines, fmt.Sprintf("Priority: %s", task.Priority))
	lines = append(lines, fmt.Sprintf("Status: %s", strings.ReplaceAll(task.Status, "_", " ")))
	if task.Description != "" {
		lines = append(lines, "", task.Description)
	}
	if extra != "" {
		lines = append(lines, "", extra)
	}
	lines = append(lines, "", fmt.Sprintf("Created: %s", task.CreatedAt.Format("2006-01-02 15:04")))
	return strings.Join(lines, "\n")
}
