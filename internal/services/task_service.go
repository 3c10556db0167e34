package services

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const taskColumns = `id, title, description, due_date, priority, status, calendar_event_id, created_at, updated_at`

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		Priority:    params.Priority,
		Status:      params.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}

	const insertTaskQuery = `
INSERT INTO tasks (title,
                   description,
                   due_date,
                   priority,
                   status,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, selectTaskQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	builder := psql.Select(taskColumns).
		From("tasks").
		OrderBy("created_at DESC")
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Priority != "" {
		builder = builder.Where(sq.Eq{"priority": filter.Priority})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to build list query")
		return nil, err
	}

	tasks, err := s.queryTasks(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("status", filter.Status).
		Str("priority", filter.Priority).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, params UpdateTaskParams) (*models.Task, error) {
	builder := psql.Update("tasks").
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + taskColumns)

	if params.Title != nil {
		builder = builder.Set("title", *params.Title)
	}
	if params.Description != nil {
		builder = builder.Set("description", *params.Description)
	}
	if params.DueDate != nil {
		builder = builder.Set("due_date", *params.DueDate)
	}
	if params.Priority != nil {
		builder = builder.Set("priority", *params.Priority)
	}
	if params.Status != nil {
		builder = builder.Set("status", *params.Status)
	}
	if params.CalendarEventID != nil {
		if *params.CalendarEventID == "" {
			builder = builder.Set("calendar_event_id", nil)
		} else {
			builder = builder.Set("calendar_event_id", *params.CalendarEventID)
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to build update query")
		return nil, err
	}

	task, err := scanTask(s.pgPool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Int64("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) OverdueTasks(ctx context.Context) ([]*models.Task, error) {
	const selectOverdueQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE due_date IS NOT NULL AND
      due_date < $1 AND
      status <> $2
ORDER BY due_date ASC
`
	tasks, err := s.queryTasks(ctx, selectOverdueQuery, time.Now(), models.StatusCompleted)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select overdue tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *taskServiceImpl) DueSoonTasks(ctx context.Context) ([]*models.Task, error) {
	const selectDueSoonQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE due_date IS NOT NULL AND
      status IN ($1, $2)
ORDER BY due_date ASC
`
	tasks, err := s.queryTasks(ctx, selectDueSoonQuery, models.StatusPending, models.StatusInProgress)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks with due dates")
		return nil, err
	}
	return tasks, nil
}

func (s *taskServiceImpl) CountTasksByStatus(ctx context.Context) (map[string]int, error) {
	const countByStatusQuery = `
SELECT status, COUNT(*)
FROM tasks
GROUP BY status
`
	rows, err := s.pgPool.Query(ctx, countByStatusQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count tasks by status")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		err = rows.Scan(&status, &count)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan status count")
			return nil, err
		}
		counts[status] = count
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return counts, nil
}

func (s *taskServiceImpl) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	var calendarEventID *string
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Status,
		&calendarEventID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if calendarEventID != nil {
		task.CalendarEventID = *calendarEventID
	}
	return task, nil
}
