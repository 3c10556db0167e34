package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskhive/taskhive/internal/models"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxLocationLen    = 255
	maxSheetNameLen   = 100

	// Due dates further than this in the past are rejected
	// at the validation boundary only; the store takes anything.
	maxDueDatePastDays = 365
)

// dueDateFormats are the accepted due date layouts: date only, the HTML
// datetime-local format, with seconds, with fractional seconds, each
// optionally with a trailing UTC marker, plus the space-separated variant.
var dueDateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02 15:04:05",
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Result is the outcome of validating a candidate field set.
type Result struct {
	Valid  bool
	Errors []string
}

func newResult(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// TaskInput is a candidate task field set. Nil fields were absent
// from the payload and are not checked during update validation.
type TaskInput struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
}

// ParseDueDate parses a due date string under the accepted formats.
// The result is a naive local-time timestamp.
func ParseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateFormats {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
}

// ValidateCreate checks a full field set for task creation.
// It has no side effects.
func ValidateCreate(in TaskInput, now time.Time) Result {
	var errs []string

	title := ""
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" {
		errs = append(errs, "Title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		errs = append(errs, fmt.Sprintf("Title must be less than %d characters", maxTitleLen))
	}

	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("Description must be less than %d characters", maxDescriptionLen))
	}

	if in.Priority != nil && !models.ValidPriority(*in.Priority) {
		errs = append(errs, "Priority must be one of: low, medium, high")
	}

	if in.Status != nil && !models.ValidStatus(*in.Status) {
		errs = append(errs, "Status must be one of: pending, in_progress, completed")
	}

	errs = append(errs, validateDueDate(in.DueDate, now)...)

	return newResult(errs)
}

// ValidateUpdate checks a partial field set. Only fields present in
// the payload are validated; an empty set is valid.
func ValidateUpdate(in TaskInput, now time.Time) Result {
	var errs []string

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			errs = append(errs, "Title cannot be empty")
		} else if utf8.RuneCountInString(title) > maxTitleLen {
			errs = append(errs, fmt.Sprintf("Title must be less than %d characters", maxTitleLen))
		}
	}

	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("Description must be less than %d characters", maxDescriptionLen))
	}

	if in.Priority != nil && !models.ValidPriority(*in.Priority) {
		errs = append(errs, "Priority must be one of: low, medium, high")
	}

	if in.Status != nil && !models.ValidStatus(*in.Status) {
		errs = append(errs, "Status must be one of: pending, in_progress, completed")
	}

	errs = append(errs, validateDueDate(in.DueDate, now)...)

	return newResult(errs)
}

func validateDueDate(value *string, now time.Time) []string {
	if value == nil || *value == "" {
		return nil
	}

	parsed, err := ParseDueDate(*value)
	if err != nil {
		return []string{"Due date must be in ISO format (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)"}
	}
	if parsed.Before(now.AddDate(0, 0, -maxDueDatePastDays)) {
		return []string{"Due date cannot be more than a year in the past"}
	}
	return nil
}

// ValidateEmail reports whether the address looks like an email.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateExport checks export-to-sheets options.
func ValidateExport(spreadsheetName *string) Result {
	var errs []string
	if spreadsheetName != nil && *spreadsheetName != "" {
		name := *spreadsheetName
		if utf8.RuneCountInString(name) > maxSheetNameLen || strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Sprintf("Spreadsheet name must be between 1 and %d characters", maxSheetNameLen))
		}
	}
	return newResult(errs)
}

// CalendarInput is a candidate calendar event option set.
type CalendarInput struct {
	DurationMinutes *int
	ReminderMinutes *int
	Location        *string
}

// ValidateCalendar checks calendar event customization options.
func ValidateCalendar(in CalendarInput) Result {
	var errs []string

	if in.DurationMinutes != nil {
		d := *in.DurationMinutes
		if d < 15 || d > 1440 {
			errs = append(errs, "Duration must be between 15 and 1440 minutes (1 day)")
		}
	}

	if in.ReminderMinutes != nil {
		r := *in.ReminderMinutes
		if r < 0 || r > 40320 {
			errs = append(errs, "Reminder must be between 0 and 40320 minutes (4 weeks)")
		}
	}

	if in.Location != nil && utf8.RuneCountInString(*in.Location) > maxLocationLen {
		errs = append(errs, fmt.Sprintf("Location must be less than %d characters", maxLocationLen))
	}

	return newResult(errs)
}

// SanitizeInput trims whitespace and strips null bytes.
func SanitizeInput(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\x00", "")
}
