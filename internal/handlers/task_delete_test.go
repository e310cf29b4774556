package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestTaskDeleteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	taskID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockTaskDeleter(ctrl)
		mockSvc.EXPECT().
			Delete(gomock.Any(), ownerID, taskID).
			Return(nil)

		handler := NewTaskDeleteHandler(mockSvc)

		req := newTaskRequest(http.MethodDelete, "/api/v1/tasks/"+taskID.String(), "", ownerID, taskID.String())
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got TaskDeleteResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Task deleted", got.Message)
	})

	t.Run("missing or foreign task", func(t *testing.T) {
		mockSvc := NewMockTaskDeleter(ctrl)
		mockSvc.EXPECT().
			Delete(gomock.Any(), ownerID, taskID).
			Return(services.ErrTaskNotFound)

		handler := NewTaskDeleteHandler(mockSvc)

		req := newTaskRequest(http.MethodDelete, "/api/v1/tasks/"+taskID.String(), "", ownerID, taskID.String())
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed task id", func(t *testing.T) {
		mockSvc := NewMockTaskDeleter(ctrl)
		handler := NewTaskDeleteHandler(mockSvc)

		req := newTaskRequest(http.MethodDelete, "/api/v1/tasks/not-a-uuid", "", ownerID, "not-a-uuid")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		mockSvc := NewMockTaskDeleter(ctrl)
		handler := NewTaskDeleteHandler(mockSvc)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+taskID.String(), nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		mockSvc := NewMockTaskDeleter(ctrl)
		mockSvc.EXPECT().
			Delete(gomock.Any(), ownerID, taskID).
			Return(errors.New("connection reset"))

		handler := NewTaskDeleteHandler(mockSvc)

		req := newTaskRequest(http.MethodDelete, "/api/v1/tasks/"+taskID.String(), "", ownerID, taskID.String())
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
