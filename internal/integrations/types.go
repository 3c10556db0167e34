// Package integrations wraps the external Google services (mail,
// spreadsheet export, calendar) behind small adapter clients. Each
// client is shared and lazily initialized; a missing or broken
// configuration degrades to an error result, never a crash.
package integrations

import "time"

// SendResult is the outcome of a reminder send.
type SendResult struct {
	MessageID string
	Recipient string
}

// ExportResult is the outcome of a spreadsheet export.
type ExportResult struct {
	SpreadsheetID   string
	SpreadsheetName string
	SpreadsheetURL  string
	TasksExported   int
}

// EventResult is the outcome of creating a calendar event.
type EventResult struct {
	EventID    string
	EventURL   string
	EventTitle string
	StartTime  time.Time
}

// EventOptions customizes a calendar event created from a task.
type EventOptions struct {
	EventTitle      string
	Description     string
	DurationMinutes int
	ReminderMinutes int
	Location        string
}

// Status describes one integration for the status endpoints.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	StatusConnected     = "connected"
	StatusReadyForSetup = "ready_for_setup"
	StatusNotConfigured = "not_configured"
)
