package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/taskhive/internal/models"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
)

type TaskService interface {
	// CreateTask inserts a task and returns it with the assigned id.
	// Defaults: priority medium, status pending, created_at/updated_at now.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTaskByID returns ErrTaskNotFound for an unknown id.
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)

	// ListTasks returns tasks matching the filter,
	// newest-created first.
	ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error)

	// UpdateTask applies only the non-nil fields, always refreshing
	// updated_at, and returns the updated task. It returns
	// ErrTaskNotFound if no row matched.
	UpdateTask(ctx context.Context, id int64, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask hard-deletes the row. It returns
	// ErrTaskNotFound if no row matched.
	DeleteTask(ctx context.Context, id int64) error

	// OverdueTasks returns tasks with due_date in the past and
	// status other than completed, ordered by due_date ascending.
	OverdueTasks(ctx context.Context) ([]*models.Task, error)

	// DueSoonTasks returns pending and in-progress tasks that have a
	// due date, ordered by due_date ascending. The reminder scheduler
	// scans this set every poll.
	DueSoonTasks(ctx context.Context) ([]*models.Task, error)

	// CountTasksByStatus returns the number of tasks per status.
	CountTasksByStatus(ctx context.Context) (map[string]int, error)
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID, creates a new
	// session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given email
	// doesn't exist or ErrUserPasswordMismatch if the given password
	// doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type CreateTaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Status      string
}

type TaskFilter struct {
	Status   string
	Priority string
	Limit    int
}

// UpdateTaskParams carries the recognized updatable fields.
// Nil means the field was absent from the payload. A non-nil
// CalendarEventID pointing at an empty string clears the column.
type UpdateTaskParams struct {
	Title           *string
	Description     *string
	DueDate         *time.Time
	Priority        *string
	Status          *string
	CalendarEventID *string
}

// IsEmpty reports whether the update carries no recognized fields.
func (p UpdateTaskParams) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.DueDate == nil &&
		p.Priority == nil &&
		p.Status == nil &&
		p.CalendarEventID == nil
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Email       string
	Name        string
	Password    string
	Timezone    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
