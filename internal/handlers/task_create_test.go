package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/middlewares"
	"github.com/nlisitsyn/tasklist/internal/models"
	"github.com/nlisitsyn/tasklist/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestTaskCreateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name          string
		body          string
		authenticated bool
		mockSetup     func(m *MockTaskCreator)
		expectedCode  int
	}{
		{
			name:          "success",
			body:          `{"title":"Buy milk","description":"2%"}`,
			authenticated: true,
			mockSetup: func(m *MockTaskCreator) {
				m.EXPECT().
					Create(gomock.Any(), ownerID, "Buy milk", "2%").
					Return(&models.TaskDB{ID: taskID, Title: "Buy milk", Description: "2%", OwnerID: ownerID}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "validation error",
			body:          `{"title":"","description":""}`,
			authenticated: true,
			mockSetup: func(m *MockTaskCreator) {
				m.EXPECT().
					Create(gomock.Any(), ownerID, "", "").
					Return(nil, services.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:          "invalid json",
			body:          `{invalid`,
			authenticated: true,
			mockSetup:     func(m *MockTaskCreator) {},
			expectedCode:  http.StatusBadRequest,
		},
		{
			name:          "unauthenticated",
			body:          `{"title":"Buy milk","description":"2%"}`,
			authenticated: false,
			mockSetup:     func(m *MockTaskCreator) {},
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "internal error",
			body:          `{"title":"Buy milk","description":"2%"}`,
			authenticated: true,
			mockSetup: func(m *MockTaskCreator) {
				m.EXPECT().
					Create(gomock.Any(), ownerID, "Buy milk", "2%").
					Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockTaskCreator(ctrl)
			tt.mockSetup(mockSvc)

			handler := NewTaskCreateHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBufferString(tt.body))
			if tt.authenticated {
				req = req.WithContext(middlewares.SetUserIDToContext(req.Context(), ownerID))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedCode == http.StatusCreated {
				var got TaskResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, taskID.String(), got.ID)
				assert.Equal(t, "Buy milk", got.Title)
				assert.Equal(t, "2%", got.Description)
			}
		})
	}
}
