package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidStatus(status string) bool {
	return status == StatusPending ||
		status == StatusInProgress ||
		status == StatusCompleted
}

func ValidPriority(priority string) bool {
	return priority == PriorityLow ||
		priority == PriorityMedium ||
		priority == PriorityHigh
}

type Task struct {
	ID              int64
	Title           string
	Description     string
	DueDate         *time.Time
	Priority        string
	Status          string
	CalendarEventID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOverdue reports whether the task's due date has passed
// and the task is not completed. Tasks without a due date
// are never overdue.
func (t *Task) IsOverdue() bool {
	return t.IsOverdueAt(time.Now())
}

func (t *Task) IsOverdueAt(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

// DaysUntilDue returns the number of whole days until the due date,
// negative if the due date has passed. The second value is false
// when the task has no due date.
func (t *Task) DaysUntilDue(now time.Time) (int, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return int(t.DueDate.Sub(now).Hours() / 24), true
}

// PriorityValue maps the priority to a numeric rank for sorting.
// Unknown priorities rank as medium.
func (t *Task) PriorityValue() int {
	switch t.Priority {
	case PriorityLow:
		return 1
	case PriorityHigh:
		return 3
	default:
		return 2
	}
}
