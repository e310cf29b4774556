package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/nlisitsyn/tasklist/internal/middlewares"
	"github.com/nlisitsyn/tasklist/internal/models"
)

// TaskLister defines the interface that the task service must implement.
type TaskLister interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.TaskDB, error)
}

// TaskResponse represents a single task in API responses
// swagger:model TaskResponse
type TaskResponse struct {
	// Task id
	ID string `json:"id"`

	// Title
	// default: Buy milk
	Title string `json:"title"`

	// Description
	// default: 2%
	Description string `json:"description"`

	// Creation timestamp
	CreatedAt time.Time `json:"created_at"`
}

// TaskErrorResponse represents an error response for task operations
// swagger:model TaskErrorResponse
type TaskErrorResponse struct {
	// Error message
	// default: Task not found
	Error string `json:"error"`
}

func toTaskResponse(task models.TaskDB) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   task.CreatedAt,
	}
}

// NewTaskListHandler returns an HTTP handler listing the current identity's
// tasks in insertion order.
// @Summary List tasks
// @Description Returns all tasks owned by the authenticated account
// @Tags tasks
// @Produce json
// @Success 200 {array} handlers.TaskResponse "Tasks"
// @Failure 401 {object} handlers.TaskErrorResponse "Unauthorized"
// @Router /tasks [get]
// @Security BearerAuth
func NewTaskListHandler(svc TaskLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middlewares.GetUserIDFromContext(r.Context())
		if ownerID == uuid.Nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		tasks, err := svc.List(r.Context(), ownerID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(TaskErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		resp := make([]TaskResponse, 0, len(tasks))
		for _, task := range tasks {
			resp = append(resp, toTaskResponse(task))
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
