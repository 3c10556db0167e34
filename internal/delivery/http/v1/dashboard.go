package v1

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
)

const (
	recentTasksLimit       = 5
	overdueSliceLimit      = 3
	highPrioritySliceLimit = 3
)

func (h *handlerImpl) HandleDashboard(c *gin.Context) {
	counts, err := h.tasks.CountTasksByStatus(c)
	if err != nil {
		respondInternalError(c, "Failed to get dashboard data")
		return
	}

	overdue, err := h.tasks.OverdueTasks(c)
	if err != nil {
		respondInternalError(c, "Failed to get dashboard data")
		return
	}

	recent, err := h.tasks.ListTasks(c, services.TaskFilter{Limit: recentTasksLimit})
	if err != nil {
		respondInternalError(c, "Failed to get dashboard data")
		return
	}

	highPriority, err := h.tasks.ListTasks(c, services.TaskFilter{Priority: models.PriorityHigh})
	if err != nil {
		respondInternalError(c, "Failed to get dashboard data")
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	completed := counts[models.StatusCompleted]

	completionRate := 0.0
	if total > 0 {
		completionRate = math.Round(float64(completed)/float64(total)*100*100) / 100
	}

	openHighPriority := make([]*models.Task, 0, highPrioritySliceLimit)
	for _, task := range highPriority {
		if task.Status == models.StatusCompleted {
			continue
		}
		openHighPriority = append(openHighPriority, task)
		if len(openHighPriority) == highPrioritySliceLimit {
			break
		}
	}

	overdueSlice := overdue
	if len(overdueSlice) > overdueSliceLimit {
		overdueSlice = overdueSlice[:overdueSliceLimit]
	}

	respondSuccess(c, http.StatusOK, "Dashboard data retrieved successfully", gin.H{
		"statistics": gin.H{
			"total_tasks":       total,
			"completed_tasks":   completed,
			"pending_tasks":     counts[models.StatusPending],
			"in_progress_tasks": counts[models.StatusInProgress],
			"overdue_tasks":     len(overdue),
			"completion_rate":   completionRate,
		},
		"recent_tasks":        newTaskListResponse(recent),
		"overdue_tasks":       newTaskListResponse(overdueSlice),
		"high_priority_tasks": newTaskListResponse(openHighPriority),
	})
}
