package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/nlisitsyn/tasklist/internal/middlewares"
	"github.com/nlisitsyn/tasklist/internal/services"
)

// TaskDeleter defines the interface that the task service must implement.
type TaskDeleter interface {
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

// TaskDeleteResponse represents a successful delete response
// swagger:model TaskDeleteResponse
type TaskDeleteResponse struct {
	// Success message
	// default: Task deleted
	Message string `json:"message"`
}

// NewTaskDeleteHandler returns an HTTP handler permanently removing the
// current identity's task.
// @Summary Delete a task
// @Description Permanently removes an owned task
// @Tags tasks
// @Produce json
// @Param taskID path string true "Task id"
// @Success 200 {object} handlers.TaskDeleteResponse "Task deleted"
// @Failure 401 {object} handlers.TaskErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TaskErrorResponse "Task not found"
// @Router /tasks/{taskID} [delete]
// @Security BearerAuth
func NewTaskDeleteHandler(svc TaskDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middlewares.GetUserIDFromContext(r.Context())
		if ownerID == uuid.Nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(TaskErrorResponse{
				Error: "Task not found",
			})
			return
		}

		if err := svc.Delete(r.Context(), ownerID, taskID); err != nil {
			switch {
			case errors.Is(err, services.ErrTaskNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TaskErrorResponse{
					Error: "Task not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TaskErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TaskDeleteResponse{
			Message: "Task deleted",
		})
	}
}
