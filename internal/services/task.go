package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/nlisitsyn/tasklist/internal/models"
	"github.com/segmentio/kafka-go"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to
// another identity. The two cases are deliberately indistinguishable.
var ErrTaskNotFound = errors.New("task not found")

// Field length caps, matching the storage column sizes.
const (
	maxTitleLen       = 100
	maxDescriptionLen = 100
)

// Task event types published to the event feed.
const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// TaskReader defines read operations for tasks.
type TaskReader interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.TaskDB, error)
}

// TaskWriter defines write operations for tasks. Mutations are scoped to
// the owning identity.
type TaskWriter interface {
	Save(ctx context.Context, ownerID uuid.UUID, title, description string) (*models.TaskDB, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, title, description string) (*models.TaskDB, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (bool, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// TaskService handles owner-scoped task operations and event publishing.
type TaskService struct {
	reader      TaskReader
	writer      TaskWriter
	kafkaWriter KafkaWriter
}

// NewTaskService creates a new TaskService. kafkaWriter may be nil; events
// are then skipped.
func NewTaskService(reader TaskReader, writer TaskWriter, kafkaWriter KafkaWriter) *TaskService {
	return &TaskService{
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// validateTaskFields trims both fields and checks the non-empty and
// bounded-length rules.
func validateTaskFields(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return "", "", fmt.Errorf("%w: title", ErrValidation)
	}
	if description == "" {
		return "", "", fmt.Errorf("%w: description", ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", "", fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLen)
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "", "", fmt.Errorf("%w: description exceeds %d characters", ErrValidation, maxDescriptionLen)
	}

	return title, description, nil
}

// publishEvent publishes a task lifecycle event to Kafka.
func (s *TaskService) publishEvent(ctx context.Context, eventType string, task *models.TaskDB) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.TaskEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		TaskID:    task.ID.String(),
		OwnerID:   task.OwnerID.String(),
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal task event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TaskID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish task event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("task event published", "event_id", event.EventID, "type", event.Type)
	}
}

// Create persists a new task owned by ownerID and returns it.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*models.TaskDB, error) {
	title, description, err := validateTaskFields(title, description)
	if err != nil {
		return nil, err
	}

	task, err := s.writer.Save(ctx, ownerID, title, description)
	if err != nil {
		logger.Log.Errorw("failed to save task", "owner_id", ownerID, "error", err)
		return nil, err
	}

	s.publishEvent(ctx, EventTaskCreated, task)
	return task, nil
}

// List returns the owner's tasks in insertion order.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID) ([]models.TaskDB, error) {
	tasks, err := s.reader.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Log.Errorw("failed to list tasks", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return tasks, nil
}

// Update mutates title and description of the owner's task. A task of
// another owner yields ErrTaskNotFound, same as a missing one.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, title, description string) (*models.TaskDB, error) {
	title, description, err := validateTaskFields(title, description)
	if err != nil {
		return nil, err
	}

	task, err := s.writer.Update(ctx, ownerID, taskID, title, description)
	if err != nil {
		logger.Log.Errorw("failed to update task", "task_id", taskID, "owner_id", ownerID, "error", err)
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	s.publishEvent(ctx, EventTaskUpdated, task)
	return task, nil
}

// Delete permanently removes the owner's task.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	deleted, err := s.writer.Delete(ctx, ownerID, taskID)
	if err != nil {
		logger.Log.Errorw("failed to delete task", "task_id", taskID, "owner_id", ownerID, "error", err)
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}

	s.publishEvent(ctx, EventTaskDeleted, &models.TaskDB{ID: taskID, OwnerID: ownerID})
	return nil
}
