package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdueAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{Status: StatusPending}, false},
		{"due in the future", Task{DueDate: &future, Status: StatusPending}, false},
		{"due in the past", Task{DueDate: &past, Status: StatusPending}, true},
		{"past but in progress", Task{DueDate: &past, Status: StatusInProgress}, true},
		{"past but completed", Task{DueDate: &past, Status: StatusCompleted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdueAt(now))
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	noDue := Task{}
	_, ok := noDue.DaysUntilDue(now)
	assert.False(t, ok)

	in3Days := now.Add(72 * time.Hour)
	task := Task{DueDate: &in3Days}
	days, ok := task.DaysUntilDue(now)
	assert.True(t, ok)
	assert.Equal(t, 3, days)

	twoDaysAgo := now.Add(-48 * time.Hour)
	task = Task{DueDate: &twoDaysAgo}
	days, ok = task.DaysUntilDue(now)
	assert.True(t, ok)
	assert.Equal(t, -2, days)
}

func TestPriorityValue(t *testing.T) {
	assert.Equal(t, 1, (&Task{Priority: PriorityLow}).PriorityValue())
	assert.Equal(t, 2, (&Task{Priority: PriorityMedium}).PriorityValue())
	assert.Equal(t, 3, (&Task{Priority: PriorityHigh}).PriorityValue())
	assert.Equal(t, 2, (&Task{Priority: "unknown"}).PriorityValue())
}

func TestValidStatusAndPriority(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusCompleted} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("done"))

	for _, p := range []string{PriorityLow, PriorityMedium, PriorityHigh} {
		assert.True(t, ValidPriority(p))
	}
	assert.False(t, ValidPriority("urgent"))
}
