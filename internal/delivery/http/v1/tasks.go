package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/validation"
)

// dueDateLayout preserves the naive local-time semantics of due dates:
// what goes in as "2025-07-25T10:00:00" comes back out the same way.
const dueDateLayout = "2006-01-02T15:04:05"

type taskResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`
	IsOverdue       bool   `json:"is_overdue"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	resp := taskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Priority:        task.Priority,
		Status:          task.Status,
		CalendarEventID: task.CalendarEventID,
		IsOverdue:       task.IsOverdue(),
		CreatedAt:       task.CreatedAt.Format(dueDateLayout),
		UpdatedAt:       task.UpdatedAt.Format(dueDateLayout),
	}
	if task.DueDate != nil {
		resp.DueDate = task.DueDate.Format(dueDateLayout)
	}
	return resp
}

func newTaskListResponse(tasks []*models.Task) []taskResponse {
	resp := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		resp[i] = newTaskResponse(task)
	}
	return resp
}

type createTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

func (r createTaskRequest) input() validation.TaskInput {
	return validation.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Status:      r.Status,
	}
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		respondError(c, http.StatusBadRequest, "No data provided")
		return
	}

	result := validation.ValidateCreate(req.input(), time.Now())
	if !result.Valid {
		h.logger.Warn().
			Strs("errors", result.Errors).
			Msg("task creation validation failed")
		respondValidationErrors(c, result.Errors)
		return
	}

	params := services.CreateTaskParams{
		Title: validation.SanitizeInput(*req.Title),
	}
	if req.Description != nil {
		params.Description = validation.SanitizeInput(*req.Description)
	}
	if req.Priority != nil {
		params.Priority = *req.Priority
	}
	if req.Status != nil {
		params.Status = *req.Status
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := validation.ParseDueDate(*req.DueDate)
		if err != nil {
			respondValidationErrors(c, []string{"Invalid due date format"})
			return
		}
		params.DueDate = &dueDate
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		respondInternalError(c, "Failed to create task")
		return
	}

	respondSuccess(c, http.StatusCreated, "Task created successfully", gin.H{"task": newTaskResponse(task)})
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	filter := services.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			respondError(c, http.StatusBadRequest, "Limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	tasks, err := h.tasks.ListTasks(c, filter)
	if err != nil {
		respondInternalError(c, "Failed to retrieve tasks")
		return
	}

	respondSuccess(c, http.StatusOK, "Tasks retrieved successfully", gin.H{
		"tasks": newTaskListResponse(tasks),
		"count": len(tasks),
		"filters": gin.H{
			"status":   filter.Status,
			"priority": filter.Priority,
			"limit":    filter.Limit,
		},
	})
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskByID(c, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			respondNotFound(c, "Task")
			return
		}
		respondInternalError(c, "Failed to retrieve task")
		return
	}

	respondSuccess(c, http.StatusOK, "Task retrieved successfully", newTaskResponse(task))
}

type updateTaskRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	DueDate         *string `json:"due_date"`
	Priority        *string `json:"priority"`
	Status          *string `json:"status"`
	CalendarEventID *string `json:"calendar_event_id"`
}

func (r updateTaskRequest) input() validation.TaskInput {
	return validation.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Status:      r.Status,
	}
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		respondError(c, http.StatusBadRequest, "No data provided")
		return
	}

	result := validation.ValidateUpdate(req.input(), time.Now())
	if !result.Valid {
		h.logger.Warn().
			Strs("errors", result.Errors).
			Int64("task_id", id).
			Msg("task update validation failed")
		respondValidationErrors(c, result.Errors)
		return
	}

	params := services.UpdateTaskParams{
		Description:     req.Description,
		Priority:        req.Priority,
		Status:          req.Status,
		CalendarEventID: req.CalendarEventID,
	}
	if req.Title != nil {
		title := validation.SanitizeInput(*req.Title)
		params.Title = &title
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := validation.ParseDueDate(*req.DueDate)
		if err != nil {
			respondValidationErrors(c, []string{"Invalid due date format"})
			return
		}
		params.DueDate = &dueDate
	}

	// An empty update still succeeds, returning the task unchanged.
	if params.IsEmpty() {
		task, err := h.tasks.GetTaskByID(c, id)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				respondNotFound(c, "Task")
				return
			}
			respondInternalError(c, "Failed to retrieve task")
			return
		}
		respondSuccess(c, http.StatusOK, "Task updated successfully", newTaskResponse(task))
		return
	}

	task, err := h.tasks.UpdateTask(c, id, params)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			respondNotFound(c, "Task")
			return
		}
		respondInternalError(c, "Failed to update task")
		return
	}

	respondSuccess(c, http.StatusOK, "Task updated successfully", newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			respondNotFound(c, "Task")
			return
		}
		respondInternalError(c, "Failed to delete task")
		return
	}

	respondSuccess(c, http.StatusOK, "Task deleted successfully", gin.H{"deleted_task_id": id})
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return 0, false
	}
	return id, true
}
