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
	"github.com/nlisitsyn/tasklist/internal/models"
	"github.com/nlisitsyn/tasklist/internal/services"
)

// TaskUpdater defines the interface that the task service must implement.
type TaskUpdater interface {
	Update(ctx context.Context, ownerID, taskID uuid.UUID, title, description string) (*models.TaskDB, error)
}

// TaskUpdateRequest represents the JSON body for updating a task
// swagger:model TaskUpdateRequest
type TaskUpdateRequest struct {
	// Title
	// required: true
	// default: Buy milk
	Title string `json:"title"`

	// Description
	// required: true
	// default: whole
	Description string `json:"description"`
}

// NewTaskUpdateHandler returns an HTTP handler updating title and
// description of the current identity's task. A task owned by someone else
// is reported as not found.
// @Summary Update a task
// @Description Updates title and description of an owned task
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskID path string true "Task id"
// @Param taskUpdateRequest body handlers.TaskUpdateRequest true "Task update request"
// @Success 200 {object} handlers.TaskResponse "Updated task"
// @Failure 400 {object} handlers.TaskErrorResponse "Missing or oversized field"
// @Failure 401 {object} handlers.TaskErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TaskErrorResponse "Task not found"
// @Router /tasks/{taskID} [put]
// @Security BearerAuth
func NewTaskUpdateHandler(svc TaskUpdater) http.HandlerFunc {
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

		var req TaskUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TaskErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		task, err := svc.Update(r.Context(), ownerID, taskID, req.Title, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TaskErrorResponse{
					Error: "Title and description are required",
				})
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
		json.NewEncoder(w).Encode(toTaskResponse(*task))
	}
}
