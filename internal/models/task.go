package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskDB represents a task record in the database.
// OwnerID is set once at creation and never reassigned.
type TaskDB struct {
	ID          uuid.UUID `json:"id" db:"id"`                   // Primary key
	Title       string    `json:"title" db:"title"`             // Short title, bounded length
	Description string    `json:"description" db:"description"` // Description, bounded length
	CreatedAt   time.Time `json:"created_at" db:"created_at"`   // Creation timestamp, immutable
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`       // Owning identity
}

// TaskEvent is published to the event feed on task lifecycle changes.
type TaskEvent struct {
	EventID   string `json:"event_id"`  // Unique event id
	Type      string `json:"type"`      // task.created, task.updated or task.deleted
	TaskID    string `json:"task_id"`   // Affected task
	OwnerID   string `json:"owner_id"`  // Owning identity
	Timestamp int64  `json:"timestamp"` // Unix seconds
}
