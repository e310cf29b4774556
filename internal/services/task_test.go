package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/models"
	"github.com/nlisitsyn/tasklist/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestTaskService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()

	tests := []struct {
		name        string
		title       string
		description string
		writerErr   error
		wantErr     error
		wantTask    bool
	}{
		{
			name:        "successful create",
			title:       "Buy milk",
			description: "2%",
			wantTask:    true,
		},
		{
			name:        "trims surrounding whitespace",
			title:       "  Buy milk  ",
			description: " 2% ",
			wantTask:    true,
		},
		{
			name:        "empty title",
			title:       "   ",
			description: "2%",
			wantErr:     services.ErrValidation,
		},
		{
			name:        "empty description",
			title:       "Buy milk",
			description: "",
			wantErr:     services.ErrValidation,
		},
		{
			name:        "title too long",
			title:       strings.Repeat("x", 101),
			description: "2%",
			wantErr:     services.ErrValidation,
		},
		{
			name:        "description too long",
			title:       "Buy milk",
			description: strings.Repeat("x", 101),
			wantErr:     services.ErrValidation,
		},
		{
			name:        "writer error",
			title:       "Buy milk",
			description: "2%",
			writerErr:   errors.New("db error"),
			wantErr:     errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockTaskReader(ctrl)
			mockWriter := services.NewMockTaskWriter(ctrl)

			svc := services.NewTaskService(mockReader, mockWriter, nil)

			trimmedTitle := strings.TrimSpace(tt.title)
			trimmedDescription := strings.TrimSpace(tt.description)

			if tt.wantTask || tt.writerErr != nil {
				mockWriter.EXPECT().
					Save(gomock.Any(), ownerID, trimmedTitle, trimmedDescription).
					DoAndReturn(func(_ context.Context, ownerID uuid.UUID, title, description string) (*models.TaskDB, error) {
						if tt.writerErr != nil {
							return nil, tt.writerErr
						}
						return &models.TaskDB{
							ID:          uuid.New(),
							Title:       title,
							Description: description,
							OwnerID:     ownerID,
						}, nil
					})
			}

			task, err := svc.Create(context.Background(), ownerID, tt.title, tt.description)
			if tt.wantErr != nil {
				assert.Nil(t, task)
				if errors.Is(tt.wantErr, services.ErrValidation) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, trimmedTitle, task.Title)
				assert.Equal(t, trimmedDescription, task.Description)
				assert.Equal(t, ownerID, task.OwnerID)
			}
		})
	}
}

func TestTaskService_Create_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	taskID := uuid.New()

	mockReader := services.NewMockTaskReader(ctrl)
	mockWriter := services.NewMockTaskWriter(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	svc := services.NewTaskService(mockReader, mockWriter, mockKafka)

	mockWriter.EXPECT().
		Save(gomock.Any(), ownerID, "Buy milk", "2%").
		Return(&models.TaskDB{ID: taskID, Title: "Buy milk", Description: "2%", OwnerID: ownerID}, nil)
	mockKafka.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			assert.Len(t, msgs, 1)
			assert.Equal(t, taskID.String(), string(msgs[0].Key))

			var event models.TaskEvent
			assert.NoError(t, json.Unmarshal(msgs[0].Value, &event))
			assert.Equal(t, services.EventTaskCreated, event.Type)
			assert.Equal(t, taskID.String(), event.TaskID)
			assert.Equal(t, ownerID.String(), event.OwnerID)
			return nil
		})

	_, err := svc.Create(context.Background(), ownerID, "Buy milk", "2%")
	assert.NoError(t, err)
}

func TestTaskService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	tasks := []models.TaskDB{
		{ID: uuid.New(), Title: "first", Description: "d1", OwnerID: ownerID},
		{ID: uuid.New(), Title: "second", Description: "d2", OwnerID: ownerID},
	}

	t.Run("returns owner tasks in order", func(t *testing.T) {
		mockReader := services.NewMockTaskReader(ctrl)
		mockWriter := services.NewMockTaskWriter(ctrl)
		svc := services.NewTaskService(mockReader, mockWriter, nil)

		mockReader.EXPECT().
			ListByOwner(gomock.Any(), ownerID).
			Return(tasks, nil)

		got, err := svc.List(context.Background(), ownerID)
		assert.NoError(t, err)
		assert.Equal(t, tasks, got)
	})

	t.Run("reader error", func(t *testing.T) {
		mockReader := services.NewMockTaskReader(ctrl)
		mockWriter := services.NewMockTaskWriter(ctrl)
		svc := services.NewTaskService(mockReader, mockWriter, nil)

		mockReader.EXPECT().
			ListByOwner(gomock.Any(), ownerID).
			Return(nil, errors.New("db error"))

		got, err := svc.List(context.Background(), ownerID)
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name        string
		title       string
		description string
		updated     *models.TaskDB
		writerErr   error
		wantErr     error
	}{
		{
			name:        "successful update",
			title:       "Buy milk",
			description: "whole",
			updated:     &models.TaskDB{ID: taskID, Title: "Buy milk", Description: "whole", OwnerID: ownerID},
		},
		{
			name:        "missing or foreign task",
			title:       "Buy milk",
			description: "whole",
			updated:     nil,
			wantErr:     services.ErrTaskNotFound,
		},
		{
			name:        "empty title",
			title:       "",
			description: "whole",
			wantErr:     services.ErrValidation,
		},
		{
			name:        "writer error",
			title:       "Buy milk",
			description: "whole",
			writerErr:   errors.New("db error"),
			wantErr:     errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockTaskReader(ctrl)
			mockWriter := services.NewMockTaskWriter(ctrl)
			svc := services.NewTaskService(mockReader, mockWriter, nil)

			if !errors.Is(tt.wantErr, services.ErrValidation) {
				mockWriter.EXPECT().
					Update(gomock.Any(), ownerID, taskID, tt.title, tt.description).
					Return(tt.updated, tt.writerErr)
			}

			task, err := svc.Update(context.Background(), ownerID, taskID, tt.title, tt.description)
			if tt.wantErr != nil {
				assert.Nil(t, task)
				if errors.Is(tt.wantErr, services.ErrValidation) ||
					errors.Is(tt.wantErr, services.ErrTaskNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.updated, task)
			}
		})
	}
}

func TestTaskService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name      string
		deleted   bool
		writerErr error
		wantErr   error
	}{
		{
			name:    "successful delete",
			deleted: true,
		},
		{
			name:    "missing or foreign task",
			deleted: false,
			wantErr: services.ErrTaskNotFound,
		},
		{
			name:      "writer error",
			writerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockTaskReader(ctrl)
			mockWriter := services.NewMockTaskWriter(ctrl)
			svc := services.NewTaskService(mockReader, mockWriter, nil)

			mockWriter.EXPECT().
				Delete(gomock.Any(), ownerID, taskID).
				Return(tt.deleted, tt.writerErr)

			err := svc.Delete(context.Background(), ownerID, taskID)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, services.ErrTaskNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskService_Delete_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	taskID := uuid.New()

	mockReader := services.NewMockTaskReader(ctrl)
	mockWriter := services.NewMockTaskWriter(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	svc := services.NewTaskService(mockReader, mockWriter, mockKafka)

	mockWriter.EXPECT().
		Delete(gomock.Any(), ownerID, taskID).
		Return(true, nil)
	mockKafka.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			var event models.TaskEvent
			assert.NoError(t, json.Unmarshal(msgs[0].Value, &event))
			assert.Equal(t, services.EventTaskDeleted, event.Type)
			return nil
		})

	assert.NoError(t, svc.Delete(context.Background(), ownerID, taskID))
}
