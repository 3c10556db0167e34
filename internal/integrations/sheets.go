package integrations

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	googleauth "github.com/taskhive/taskhive/internal/google"
	"github.com/taskhive/taskhive/internal/models"
)

var sheetHeader = []any{
	"ID", "Title", "Description", "Priority", "Status",
	"Due Date", "Overdue", "Created At", "Updated At",
}

// SheetsClient exports tasks into a freshly created Google spreadsheet.
type SheetsClient struct {
	logger zerolog.Logger
	creds  googleauth.Credentials

	mu  sync.Mutex
	svc *sheets.Service
}

func NewSheetsClient(logger zerolog.Logger, creds googleauth.Credentials) *SheetsClient {
	return &SheetsClient{
		logger: logger,
		creds:  creds,
	}
}

func (c *SheetsClient) Status() Status {
	switch {
	case c.creds.Configured() && c.creds.HasToken():
		return Status{Status: StatusConnected, Message: "Sheets service authorized"}
	case c.creds.Configured():
		return Status{Status: StatusReadyForSetup, Message: "Sheets service ready - OAuth2 setup required"}
	default:
		return Status{Status: StatusNotConfigured, Message: "Google credentials not configured"}
	}
}

// ExportTasks creates a spreadsheet named spreadsheetName (or a
// timestamped default) and writes one row per task under a header row.
func (c *SheetsClient) ExportTasks(ctx context.Context, tasks []*models.Task, spreadsheetName string) (*ExportResult, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	if spreadsheetName == "" {
		spreadsheetName = fmt.Sprintf("Task Export %s", time.Now().Format("2006-01-02 15:04"))
	}

	created, err := svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: spreadsheetName},
	}).Context(ctx).Do()
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("spreadsheet_name", spreadsheetName).
			Msg("failed to create spreadsheet")
		return nil, fmt.Errorf("sheets api error: %w", err)
	}

	values := buildTaskRows(tasks, time.Now())
	_, err = svc.Spreadsheets.Values.Update(
		created.SpreadsheetId,
		"A1",
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("spreadsheet_id", created.SpreadsheetId).
			Msg("failed to write task rows")
		return nil, fmt.Errorf("sheets api error: %w", err)
	}

	c.logger.Info().
		Str("spreadsheet_id", created.SpreadsheetId).
		Int("tasks", len(tasks)).
		Msg("exported tasks to spreadsheet")
	return &ExportResult{
		SpreadsheetID:   created.SpreadsheetId,
		SpreadsheetName: spreadsheetName,
		SpreadsheetURL:  created.SpreadsheetUrl,
		TasksExported:   len(tasks),
	}, nil
}

func (c *SheetsClient) service(ctx context.Context) (*sheets.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	httpClient, err := c.creds.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	c.svc = svc
	return svc, nil
}

// buildTaskRows renders the header plus one row per task.
func buildTaskRows(tasks []*models.Task, now time.Time) [][]any {
	rows := make([][]any, 0, len(tasks)+1)
	rows = append(rows, sheetHeader)

	for _, task := range tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []any{
			strconv.FormatInt(task.ID, 10),
			task.Title,
			task.Description,
			task.Priority,
			task.Status,
			dueDate,
			strconv.FormatBool(task.IsOverdueAt(now)),
			task.CreatedAt.Format("2006-01-02 15:04:05"),
			task.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}
