package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/nlisitsyn/tasklist/internal/middlewares"
	"github.com/nlisitsyn/tasklist/internal/models"
	"github.com/nlisitsyn/tasklist/internal/services"
)

// TaskCreator defines the interface that the task service must implement.
type TaskCreator interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*models.TaskDB, error)
}

// TaskCreateRequest represents the JSON body for creating a task
// swagger:model TaskCreateRequest
type TaskCreateRequest struct {
	// Title
	// required: true
	// default: Buy milk
	Title string `json:"title"`

	// Description
	// required: true
	// default: 2%
	Description string `json:"description"`
}

// NewTaskCreateHandler returns an HTTP handler creating a task owned by the
// current identity.
// @Summary Create a task
// @Description Creates a task owned by the authenticated account
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskCreateRequest body handlers.TaskCreateRequest true "Task create request"
// @Success 201 {object} handlers.TaskResponse "Created task"
// @Failure 400 {object} handlers.TaskErrorResponse "Missing or oversized field"
// @Failure 401 {object} handlers.TaskErrorResponse "Unauthorized"
// @Router /tasks [post]
// @Security BearerAuth
func NewTaskCreateHandler(svc TaskCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := middlewares.GetUserIDFromContext(r.Context())
		if ownerID == uuid.Nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req TaskCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TaskErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		task, err := svc.Create(r.Context(), ownerID, req.Title, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TaskErrorResponse{
					Error: "Title and description are required",
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

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(toTaskResponse(*task))
	}
}
