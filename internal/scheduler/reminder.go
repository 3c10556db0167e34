// Package scheduler runs the automated reminder loop: a single
// background goroutine that periodically scans tasks with due dates
// and emails a reminder when a task crosses the 24-hour or 1-hour
// threshold before its due time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/integrations"
	"github.com/taskhive/taskhive/internal/metrics"
	"github.com/taskhive/taskhive/internal/models"
)

const (
	// Kind24h fires when a task is due in 23 to 25 hours.
	Kind24h = "24h"
	// Kind1h fires when a task is due in 30 to 90 minutes.
	Kind1h = "1h"

	// DefaultCheckInterval matches the original 15 minute poll.
	DefaultCheckInterval = 15 * time.Minute

	// errorBackoff is the shorter wait after a failed iteration.
	errorBackoff = time.Minute

	stopJoinTimeout = 5 * time.Second
)

var (
	ErrAlreadyRunning = errors.New("reminder scheduler is already running")
	ErrNotRunning     = errors.New("reminder scheduler is not running")
	ErrMailerNotReady = errors.New("mail service is not configured")
)

// Store is the slice of the persistence layer the scheduler reads.
type Store interface {
	DueSoonTasks(ctx context.Context) ([]*models.Task, error)
}

// Mailer sends one reminder email per call.
type Mailer interface {
	Ready() bool
	SendTaskReminder(ctx context.Context, task *models.Task, recipient, customMessage string) (*integrations.SendResult, error)
}

// Status is the externally observable scheduler state.
type Status struct {
	Running            bool          `json:"running"`
	MailerReady        bool          `json:"mailer_ready"`
	RecipientEmail     string        `json:"recipient_email"`
	CheckInterval      time.Duration `json:"-"`
	RemindersSent24h   int           `json:"reminders_sent_24h"`
	RemindersSent1h    int           `json:"reminders_sent_1h"`
	TotalRemindersSent int           `json:"total_reminders_sent"`
}

// Reminder is the scheduler service object. All dependencies are
// injected; the de-duplication state lives in process memory only,
// so a restart may repeat a reminder for a task still inside its
// threshold window.
type Reminder struct {
	logger    zerolog.Logger
	store     Store
	mailer    Mailer
	clock     Clock
	recipient string

	mu       sync.Mutex
	running  bool
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	sent     map[string]map[int64]struct{}
}

func NewReminder(
	logger zerolog.Logger,
	store Store,
	mailer Mailer,
	clock Clock,
	recipient string,
) *Reminder {
	return &Reminder{
		logger:    logger,
		store:     store,
		mailer:    mailer,
		clock:     clock,
		recipient: recipient,
		interval:  DefaultCheckInterval,
		sent: map[string]map[int64]struct{}{
			Kind24h: {},
			Kind1h:  {},
		},
	}
}

// Start launches the background loop. It fails if the loop is already
// running or no mail transport is configured.
func (r *Reminder) Start(interval time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.logger.Warn().Msg("reminder scheduler is already running")
		return ErrAlreadyRunning
	}
	if !r.mailer.Ready() {
		r.logger.Error().Msg("cannot start reminder scheduler, mail service not ready")
		return ErrMailerNotReady
	}

	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	r.interval = interval
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.running = true

	go r.loop(interval, r.stop, r.done)

	r.logger.Info().
		Dur("check_interval", interval).
		Msg("started reminder scheduler")
	return nil
}

// Stop prevents the next iteration from starting and waits briefly
// for the loop to finish. An iteration already in flight completes.
func (r *Reminder) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		r.logger.Warn().Msg("reminder scheduler is not running")
		return ErrNotRunning
	}
	r.running = false
	close(r.stop)
	done := r.done
	r.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
		r.logger.Warn().Msg("timed out waiting for reminder loop to stop")
	}

	r.logger.Info().Msg("stopped reminder scheduler")
	return nil
}

// loop takes its interval by value: a loop orphaned by a timed-out
// Stop must not observe the interval of a later Start.
func (r *Reminder) loop(interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	for {
		wait := interval
		if _, err := r.CheckNow(context.Background()); err != nil {
			r.logger.Error().
				Err(err).
				Msg("reminder check failed, backing off")
			wait = errorBackoff
		}

		select {
		case <-stop:
			return
		case <-r.clock.After(wait):
		}
	}
}

// CheckNow performs one reminder pass and returns the number of
// reminders sent. Failed sends are logged and left for the next pass;
// only a store scan failure is returned as an error.
func (r *Reminder) CheckNow(ctx context.Context) (int, error) {
	tasks, err := r.store.DueSoonTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to scan tasks: %w", err)
	}

	now := r.clock.Now()
	sent := 0
	for _, task := range tasks {
		for _, kind := range []string{Kind24h, Kind1h} {
			if !r.shouldSend(task, kind, now) {
				continue
			}
			if r.sendReminder(ctx, task, kind) {
				sent++
			}
		}
	}

	if sent > 0 {
		r.logger.Info().
			Int("count", sent).
			Msg("sent automated reminders")
	}
	return sent, nil
}

// Status reports the observable scheduler state.
func (r *Reminder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	sent24h := len(r.sent[Kind24h])
	sent1h := len(r.sent[Kind1h])
	return Status{
		Running:            r.running,
		MailerReady:        r.mailer.Ready(),
		RecipientEmail:     r.recipient,
		CheckInterval:      r.interval,
		RemindersSent24h:   sent24h,
		RemindersSent1h:    sent1h,
		TotalRemindersSent: sent24h + sent1h,
	}
}

func (r *Reminder) shouldSend(task *models.Task, kind string, now time.Time) bool {
	if task.DueDate == nil {
		return false
	}

	r.mu.Lock()
	_, already := r.sent[kind][task.ID]
	r.mu.Unlock()
	if already {
		return false
	}

	hoursUntil := task.DueDate.Sub(now).Hours()
	switch kind {
	case Kind24h:
		return hoursUntil >= 23 && hoursUntil <= 25
	case Kind1h:
		return hoursUntil >= 0.5 && hoursUntil <= 1.5
	default:
		return false
	}
}

// sendReminder sends one email and records the task id only on
// confirmed success, so a failed send is retried on the next poll
// while the task remains inside its window.
func (r *Reminder) sendReminder(ctx context.Context, task *models.Task, kind string) bool {
	var message string
	switch kind {
	case Kind24h:
		message = fmt.Sprintf("Automated reminder: this task is due tomorrow. Please review and complete %q.", task.Title)
	case Kind1h:
		message = fmt.Sprintf("Urgent automated reminder: this task is due in 1 hour. Please complete %q immediately.", task.Title)
	}

	_, err := r.mailer.SendTaskReminder(ctx, task, r.recipient, message)
	if err != nil {
		metrics.ReminderSendFailures.WithLabelValues(kind).Inc()
		r.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Str("kind", kind).
			Msg("failed to send automated reminder")
		return false
	}

	r.mu.Lock()
	r.sent[kind][task.ID] = struct{}{}
	r.mu.Unlock()

	metrics.RemindersSent.WithLabelValues(kind).Inc()
	r.logger.Info().
		Int64("task_id", task.ID).
		Str("kind", kind).
		Str("title", task.Title).
		Msg("sent automated reminder")
	return true
}
