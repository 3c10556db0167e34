package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/integrations"
	"github.com/taskhive/taskhive/internal/models"
)

type fakeClock struct {
	now   time.Time
	after chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, after: make(chan time.Time)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(time.Duration) <-chan time.Time { return c.after }

type fakeStore struct {
	tasks []*models.Task
	err   error
}

func (s *fakeStore) DueSoonTasks(context.Context) ([]*models.Task, error) {
	return s.tasks, s.err
}

type sentMail struct {
	taskID    int64
	recipient string
	message   string
}

type fakeMailer struct {
	ready bool
	err   error
	sent  []sentMail
}

func (m *fakeMailer) Ready() bool { return m.ready }

func (m *fakeMailer) SendTaskReminder(_ context.Context, task *models.Task, recipient, customMessage string) (*integrations.SendResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, sentMail{taskID: task.ID, recipient: recipient, message: customMessage})
	return &integrations.SendResult{MessageID: "msg-1", Recipient: recipient}, nil
}

func taskDueIn(id int64, d time.Duration, now time.Time) *models.Task {
	due := now.Add(d)
	return &models.Task{
		ID:       id,
		Title:    "Test task",
		DueDate:  &due,
		Priority: models.PriorityMedium,
		Status:   models.StatusPending,
	}
}

func newTestReminder(store Store, mailer Mailer, clock Clock) *Reminder {
	return NewReminder(zerolog.Nop(), store, mailer, clock, "owner@example.com")
}

func TestCheckNowSends24hReminderOnce(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	store := &fakeStore{tasks: []*models.Task{taskDueIn(1, 24*time.Hour+30*time.Minute, now)}}
	mailer := &fakeMailer{ready: true}
	r := newTestReminder(store, mailer, clock)

	sent, err := r.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, int64(1), mailer.sent[0].taskID)
	assert.Equal(t, "owner@example.com", mailer.sent[0].recipient)
	assert.Contains(t, mailer.sent[0].message, "due tomorrow")

	// The second pass must not repeat the reminder.
	sent, err = r.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, mailer.sent, 1)
}

func TestCheckNowSends1hReminder(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	store := &fakeStore{tasks: []*models.Task{taskDueIn(7, time.Hour, now)}}
	mailer := &fakeMailer{ready: true}
	r := newTestReminder(store, mailer, clock)

	sent, err := r.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].message, "due in 1 hour")
}

func TestCheckNowWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueIn    time.Duration
		wantSent int
	}{
		{"just outside 24h window high side", 25*time.Hour + time.Minute, 0},
		{"inside 24h window low side", 23 * time.Hour, 1},
		{"between windows", 12 * time.Hour, 0},
		{"inside 1h window high side", 90 * time.Minute, 1},
		{"just outside 1h window low side", 29 * time.Minute, 0},
		{"already overdue", -time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock(now)
			store := &fakeStore{tasks: []*models.Task{taskDueIn(1, tt.dueIn, now)}}
			mailer := &fakeMailer{ready: true}
			r := newTestReminder(store, mailer, clock)

			sent, err := r.CheckNow(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sent)
		})
	}
}

func TestCheckNowSkipsTasksWithoutDueDate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	store := &fakeStore{tasks: []*models.Task{{ID: 1, Title: "No due date", Status: models.StatusPending}}}
	mailer := &fakeMailer{ready: true}
	r := newTestReminder(store, mailer, clock)

	sent, err := r.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestCheckNowRetriesFailedSend(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	store := &fakeStore{tasks: []*models.Task{taskDueIn(1, 24*time.Hour, now)}}
	mailer := &fakeMailer{ready: true, err: errors.New("smtp down")}
	r := newTestReminder(store, mailer, clock)

	sent, err := r.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	// A failed send is not recorded, so the next pass retries it.
	mailer.err = nil
	sent, err = r.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestCheckNowReturnsStoreError(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	store := &fakeStore{err: errors.New("connection refused")}
	mailer := &fakeMailer{ready: true}
	r := newTestReminder(store, mailer, clock)

	_, err := r.CheckNow(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	store := &fakeStore{}
	mailer := &fakeMailer{ready: true}
	r := newTestReminder(store, mailer, clock)

	require.NoError(t, r.Start(15*time.Minute))
	assert.ErrorIs(t, r.Start(15*time.Minute), ErrAlreadyRunning)
	assert.True(t, r.Status().Running)

	require.NoError(t, r.Stop())
	assert.ErrorIs(t, r.Stop(), ErrNotRunning)
	assert.False(t, r.Status().Running)
}

func TestRestartAppliesNewInterval(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	r := newTestReminder(&fakeStore{}, &fakeMailer{ready: true}, newFakeClock(now))

	require.NoError(t, r.Start(10*time.Minute))
	require.NoError(t, r.Stop())

	require.NoError(t, r.Start(5*time.Minute))
	defer func() { _ = r.Stop() }()

	assert.Equal(t, 5*time.Minute, r.Status().CheckInterval)
}

func TestStartRequiresReadyMailer(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	r := newTestReminder(&fakeStore{}, &fakeMailer{ready: false}, newFakeClock(now))

	assert.ErrorIs(t, r.Start(0), ErrMailerNotReady)
}

func TestStatusCountsPerKind(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	store := &fakeStore{tasks: []*models.Task{
		taskDueIn(1, 24*time.Hour, now),
		taskDueIn(2, time.Hour, now),
	}}
	mailer := &fakeMailer{ready: true}
	r := newTestReminder(store, mailer, clock)

	sent, err := r.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	status := r.Status()
	assert.Equal(t, 1, status.RemindersSent24h)
	assert.Equal(t, 1, status.RemindersSent1h)
	assert.Equal(t, 2, status.TotalRemindersSent)
	assert.Equal(t, "owner@example.com", status.RecipientEmail)
}
