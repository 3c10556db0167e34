package integrations

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"gopkg.in/gomail.v2"

	"github.com/taskhive/taskhive/internal/config"
	googleauth "github.com/taskhive/taskhive/internal/google"
	"github.com/taskhive/taskhive/internal/models"
)

// GmailClient sends task reminder emails. It prefers the Gmail API and
// falls back to plain SMTP when no Google credentials are configured.
type GmailClient struct {
	logger           zerolog.Logger
	creds            googleauth.Credentials
	smtp             config.SMTPConfig
	defaultRecipient string

	mu  sync.Mutex
	svc *gmail.Service
}

func NewGmailClient(
	logger zerolog.Logger,
	creds googleauth.Credentials,
	smtp config.SMTPConfig,
	defaultRecipient string,
) *GmailClient {
	return &GmailClient{
		logger:           logger,
		creds:            creds,
		smtp:             smtp,
		defaultRecipient: defaultRecipient,
	}
}

// Ready reports whether at least one mail transport is usable.
func (c *GmailClient) Ready() bool {
	return (c.creds.Configured() && c.creds.HasToken()) || c.smtp.Host != ""
}

// Status describes the mail integration for the status endpoints.
func (c *GmailClient) Status() Status {
	switch {
	case c.creds.Configured() && c.creds.HasToken():
		return Status{Status: StatusConnected, Message: "Gmail service authorized"}
	case c.creds.Configured():
		return Status{Status: StatusReadyForSetup, Message: "Gmail service ready - OAuth2 setup required"}
	case c.smtp.Host != "":
		return Status{Status: StatusConnected, Message: "SMTP fallback configured"}
	default:
		return Status{Status: StatusNotConfigured, Message: "No mail transport configured"}
	}
}

// SendTaskReminder sends a reminder email for the task. An empty
// recipient falls back to the configured default recipient.
func (c *GmailClient) SendTaskReminder(ctx context.Context, task *models.Task, recipient, customMessage string) (*SendResult, error) {
	if recipient == "" {
		recipient = c.defaultRecipient
	}
	if recipient == "" {
		return nil, fmt.Errorf("no recipient email provided and no default recipient configured")
	}

	// Route the same way Ready() reports: the Gmail path needs an
	// authorized token, not just a credentials file. Credentials that
	// are present but unauthorized fall through to SMTP.
	if c.creds.Configured() && c.creds.HasToken() {
		return c.sendViaGmail(ctx, task, recipient, customMessage)
	}
	if c.smtp.Host != "" {
		return c.sendViaSMTP(task, recipient, customMessage)
	}
	return nil, fmt.Errorf("mail service not available, check credentials setup")
}

func (c *GmailClient) sendViaGmail(ctx context.Context, task *models.Task, recipient, customMessage string) (*SendResult, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	raw := base64.URLEncoding.EncodeToString([]byte(buildReminderMIME(task, recipient, customMessage)))
	sent, err := svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		c.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Str("recipient", recipient).
			Msg("gmail send failed")
		return nil, fmt.Errorf("gmail api error: %w", err)
	}

	c.logger.Info().
		Int64("task_id", task.ID).
		Str("recipient", recipient).
		Str("message_id", sent.Id).
		Msg("sent reminder email")
	return &SendResult{MessageID: sent.Id, Recipient: recipient}, nil
}

func (c *GmailClient) sendViaSMTP(task *models.Task, recipient, customMessage string) (*SendResult, error) {
	message := gomail.NewMessage()
	message.SetHeader("From", c.smtp.Username)
	message.SetHeader("To", recipient)
	message.SetHeader("Subject", reminderSubject(task))
	message.SetBody("text/plain", reminderTextBody(task, customMessage))
	message.AddAlternative("text/html", reminderHTMLBody(task, customMessage))

	dialer := gomail.NewDialer(c.smtp.Host, c.smtp.Port, c.smtp.Username, c.smtp.Password)
	if err := dialer.DialAndSend(message); err != nil {
		c.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Str("recipient", recipient).
			Msg("smtp send failed")
		return nil, fmt.Errorf("smtp error: %w", err)
	}

	c.logger.Info().
		Int64("task_id", task.ID).
		Str("recipient", recipient).
		Msg("sent reminder email via smtp")
	return &SendResult{Recipient: recipient}, nil
}

// service returns the shared Gmail service, initializing it on first
// use. A failed initialization is retried on the next call.
func (c *GmailClient) service(ctx context.Context) (*gmail.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	httpClient, err := c.creds.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	c.svc = svc
	return svc, nil
}

func reminderSubject(task *models.Task) string {
	if task.IsOverdue() {
		return fmt.Sprintf("Overdue Task Reminder: %s", task.Title)
	}
	return fmt.Sprintf("Task Reminder: %s", task.Title)
}

func reminderTextBody(task *models.Task, customMessage string) string {
	var b strings.Builder
	b.WriteString("Task Reminder\n\n")
	b.WriteString(dueSummary(task, time.Now()))

	b.WriteString("\nTask Details:\n")
	fmt.Fprintf(&b, "Title: %s\n", task.Title)
	fmt.Fprintf(&b, "Priority: %s\n", task.Priority)
	fmt.Fprintf(&b, "Status: %s\n", strings.ReplaceAll(task.Status, "_", " "))
	if task.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", task.Description)
	}
	if task.DueDate != nil {
		fmt.Fprintf(&b, "Due Date: %s\n", task.DueDate.Format("January 2, 2006 at 3:04 PM"))
	}
	fmt.Fprintf(&b, "Created: %s\n", task.CreatedAt.Format("January 2, 2006 at 3:04 PM"))

	if customMessage != "" {
		fmt.Fprintf(&b, "\nAdditional Message:\n%s\n", customMessage)
	}

	b.WriteString("\nThis is an automated reminder from your task manager.\n")
	return b.String()
}

func reminderHTMLBody(task *models.Task, customMessage string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">`)
	fmt.Fprintf(&b, "<h2>Task Reminder: %s</h2>", task.Title)
	b.WriteString("<p>" + dueSummary(task, time.Now()) + "</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li><b>Priority:</b> %s</li>", task.Priority)
	fmt.Fprintf(&b, "<li><b>Status:</b> %s</li>", strings.ReplaceAll(task.Status, "_", " "))
	if task.Description != "" {
		fmt.Fprintf(&b, "<li><b>Description:</b> %s</li>", task.Description)
	}
	if task.DueDate != nil {
		fmt.Fprintf(&b, "<li><b>Due:</b> %s</li>", task.DueDate.Format("January 2, 2006 at 3:04 PM"))
	}
	b.WriteString("</ul>")
	if customMessage != "" {
		fmt.Fprintf(&b, "<p>%s</p>", customMessage)
	}
	b.WriteString("<p>This is an automated reminder from your task manager.</p>")
	b.WriteString("</div>")
	return b.String()
}

func dueSummary(task *models.Task, now time.Time) string {
	days, ok := task.DaysUntilDue(now)
	if !ok {
		return "This task has no due date."
	}
	switch {
	case task.IsOverdueAt(now):
		overdue := -days
		if overdue < 1 {
			overdue = 1
		}
		return fmt.Sprintf("This task is %d day(s) overdue!", overdue)
	case days == 0:
		return "This task is due today!"
	default:
		return fmt.Sprintf("This task is due in %d day(s).", days)
	}
}

// buildReminderMIME assembles the multipart/alternative raw message
// sent through the Gmail API.
func buildReminderMIME(task *models.Task, recipient, customMessage string) string {
	const boundary = "taskhive-reminder"

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", reminderSubject(task))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(reminderTextBody(task, customMessage))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(reminderHTMLBody(task, customMessage))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
