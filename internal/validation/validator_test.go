package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "date only",
			value: "2026-03-15",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "datetime-local without seconds",
			value: "2026-03-15T14:30",
			want:  time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local),
		},
		{
			name:  "datetime with seconds",
			value: "2026-03-15T14:30:45",
			want:  time.Date(2026, 3, 15, 14, 30, 45, 0, time.Local),
		},
		{
			name:  "trailing utc marker",
			value: "2026-03-15T14:30:45Z",
			want:  time.Date(2026, 3, 15, 14, 30, 45, 0, time.Local),
		},
		{
			name:  "fractional seconds",
			value: "2026-03-15T14:30:45.123456",
			want:  time.Date(2026, 3, 15, 14, 30, 45, 123456000, time.Local),
		},
		{
			name:  "space separated",
			value: "2026-03-15 14:30:45",
			want:  time.Date(2026, 3, 15, 14, 30, 45, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.value)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDueDateRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "tomorrow", "15/03/2026", "2026-13-40"} {
		_, err := ParseDueDate(value)
		assert.Error(t, err, "value %q", value)
	}
}

func TestValidateCreate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		input     TaskInput
		wantValid bool
		wantErr   string
	}{
		{
			name:      "minimal valid",
			input:     TaskInput{Title: strPtr("Buy groceries")},
			wantValid: true,
		},
		{
			name: "everything set",
			input: TaskInput{
				Title:       strPtr("Quarterly report"),
				Description: strPtr("Finish the numbers"),
				DueDate:     strPtr("2026-04-01T09:00"),
				Priority:    strPtr("high"),
				Status:      strPtr("in_progress"),
			},
			wantValid: true,
		},
		{
			name:      "missing title",
			input:     TaskInput{},
			wantValid: false,
			wantErr:   "Title is required",
		},
		{
			name:      "whitespace title",
			input:     TaskInput{Title: strPtr("   ")},
			wantValid: false,
			wantErr:   "Title is required",
		},
		{
			name:      "title too long",
			input:     TaskInput{Title: strPtr(strings.Repeat("x", 201))},
			wantValid: false,
			wantErr:   "Title must be less than 200 characters",
		},
		{
			// Limits count characters, not bytes.
			name:      "multibyte title within limit",
			input:     TaskInput{Title: strPtr(strings.Repeat("日", 150))},
			wantValid: true,
		},
		{
			name:      "multibyte title over limit",
			input:     TaskInput{Title: strPtr(strings.Repeat("日", 201))},
			wantValid: false,
			wantErr:   "Title must be less than 200 characters",
		},
		{
			name: "multibyte description within limit",
			input: TaskInput{
				Title:       strPtr("ok"),
				Description: strPtr(strings.Repeat("ü", 1000)),
			},
			wantValid: true,
		},
		{
			name: "description too long",
			input: TaskInput{
				Title:       strPtr("ok"),
				Description: strPtr(strings.Repeat("x", 1001)),
			},
			wantValid: false,
			wantErr:   "Description must be less than 1000 characters",
		},
		{
			name:      "bad priority",
			input:     TaskInput{Title: strPtr("ok"), Priority: strPtr("urgent")},
			wantValid: false,
			wantErr:   "Priority must be one of: low, medium, high",
		},
		{
			name:      "bad status",
			input:     TaskInput{Title: strPtr("ok"), Status: strPtr("done")},
			wantValid: false,
			wantErr:   "Status must be one of: pending, in_progress, completed",
		},
		{
			name:      "unparseable due date",
			input:     TaskInput{Title: strPtr("ok"), DueDate: strPtr("next tuesday")},
			wantValid: false,
			wantErr:   "Due date must be in ISO format (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)",
		},
		{
			name:      "due date over a year in the past",
			input:     TaskInput{Title: strPtr("ok"), DueDate: strPtr("2025-03-01")},
			wantValid: false,
			wantErr:   "Due date cannot be more than a year in the past",
		},
		{
			name:      "due date slightly in the past is fine",
			input:     TaskInput{Title: strPtr("ok"), DueDate: strPtr("2026-03-10")},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCreate(tt.input, now)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantErr != "" {
				assert.Contains(t, result.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateCreateCollectsAllErrors(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	result := ValidateCreate(TaskInput{
		Priority: strPtr("urgent"),
		Status:   strPtr("done"),
		DueDate:  strPtr("garbage"),
	}, now)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 4)
}

func TestValidateUpdate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		input     TaskInput
		wantValid bool
		wantErr   string
	}{
		{
			name:      "empty set is valid",
			input:     TaskInput{},
			wantValid: true,
		},
		{
			name:      "absent title not required",
			input:     TaskInput{Status: strPtr("completed")},
			wantValid: true,
		},
		{
			name:      "present title cannot be empty",
			input:     TaskInput{Title: strPtr("  ")},
			wantValid: false,
			wantErr:   "Title cannot be empty",
		},
		{
			name:      "bad priority still caught",
			input:     TaskInput{Priority: strPtr("critical")},
			wantValid: false,
			wantErr:   "Priority must be one of: low, medium, high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateUpdate(tt.input, now)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantErr != "" {
				assert.Contains(t, result.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.org"}
	invalid := []string{"", "plainaddress", "@no-user.com", "user@no-tld"}

	for _, email := range valid {
		assert.True(t, ValidateEmail(email), "email %q", email)
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), "email %q", email)
	}
}

func TestValidateExport(t *testing.T) {
	assert.True(t, ValidateExport(nil).Valid)
	assert.True(t, ValidateExport(strPtr("")).Valid)
	assert.True(t, ValidateExport(strPtr("Weekly Tasks")).Valid)
	assert.False(t, ValidateExport(strPtr(strings.Repeat("x", 101))).Valid)
	assert.False(t, ValidateExport(strPtr("   ")).Valid)
}

func TestValidateCalendar(t *testing.T) {
	tests := []struct {
		name      string
		input     CalendarInput
		wantValid bool
	}{
		{"empty options", CalendarInput{}, true},
		{"duration lower bound", CalendarInput{DurationMinutes: intPtr(15)}, true},
		{"duration too short", CalendarInput{DurationMinutes: intPtr(14)}, false},
		{"duration too long", CalendarInput{DurationMinutes: intPtr(1441)}, false},
		{"reminder zero", CalendarInput{ReminderMinutes: intPtr(0)}, true},
		{"reminder negative", CalendarInput{ReminderMinutes: intPtr(-1)}, false},
		{"reminder over four weeks", CalendarInput{ReminderMinutes: intPtr(40321)}, false},
		{"location too long", CalendarInput{Location: strPtr(strings.Repeat("x", 256))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantValid, ValidateCalendar(tt.input).Valid)
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
	assert.Equal(t, "", SanitizeInput("   "))
}
